// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package equities

import (
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/jqdata/jq"
	"github.com/stockparfait/jqdata/table"
)

// Security is a row of the security listing returned by the get_all_securities
// and get_security_info operations.
type Security struct {
	Code        string  // exchange-suffixed code, e.g. "600519.XSHG"
	DisplayName string  // UTF-8 display name
	Name        string  // short pinyin name
	StartDate   jq.Date // listing date
	EndDate     jq.Date // delisting date; 2200-01-01 when still listed
	Type        string  // e.g. "stock", "fund", "index"
}

// cellsOf returns a cell accessor for the row, using the table header for
// column positions. Missing columns and short rows read as "".
func cellsOf(r table.Row, t *table.Table) func(string) string {
	cells := r.CSV()
	return func(col string) string {
		i := t.ColumnIndex(col)
		if i < 0 || i >= len(cells) {
			return ""
		}
		return cells[i]
	}
}

// Load fills in the security from a single table row. The table header
// determines the column positions.
func (s *Security) Load(r table.Row, t *table.Table) error {
	cell := cellsOf(r, t)
	s.Code = cell("code")
	if s.Code == "" {
		return errors.Reason("security code is missing in row %v", r.CSV())
	}
	s.DisplayName = cell("display_name")
	s.Name = cell("name")
	s.Type = cell("type")
	var err error
	if v := cell("start_date"); v != "" {
		if s.StartDate, err = jq.NewDateFromString(v); err != nil {
			return errors.Annotate(err, "start_date should be a date string")
		}
	}
	if v := cell("end_date"); v != "" {
		if s.EndDate, err = jq.NewDateFromString(v); err != nil {
			return errors.Annotate(err, "end_date should be a date string")
		}
	}
	return nil
}

// Securities converts an entire security listing table.
func Securities(t *table.Table) ([]Security, error) {
	res := make([]Security, len(t.Rows))
	for i, r := range t.Rows {
		if err := res[i].Load(r, t); err != nil {
			return nil, errors.Annotate(err, "failed to parse security row %d", i)
		}
	}
	return res, nil
}

// Bar is a single price bar from a get_price table. Daily bars carry a few
// extra columns; of those only the paused flag is retained, and its absence
// reads as false.
type Bar struct {
	Date   jq.DateTime
	Open   float32
	Close  float32
	High   float32
	Low    float32
	Volume float64     // in shares, or in contracts for futures
	Money  float64     // total value traded
	Paused bool        // whether trading was suspended for the bar
}

// Load fills in the bar from a single table row. Absent optional columns and
// empty cells read as zero values.
func (b *Bar) Load(r table.Row, t *table.Table) error {
	cell := cellsOf(r, t)
	v := cell("date")
	if v == "" {
		return errors.Reason("bar date is missing in row %v", r.CSV())
	}
	var err error
	if b.Date, err = jq.NewDateTimeFromString(v); err != nil {
		return errors.Annotate(err, "date should be a datetime string")
	}
	num := func(col string) (float64, error) {
		s := cell(col)
		if s == "" {
			return 0, nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Annotate(err, "%s should be a number: '%s'", col, s)
		}
		return x, nil
	}
	var x float64
	if x, err = num("open"); err != nil {
		return err
	}
	b.Open = float32(x)
	if x, err = num("close"); err != nil {
		return err
	}
	b.Close = float32(x)
	if x, err = num("high"); err != nil {
		return err
	}
	b.High = float32(x)
	if x, err = num("low"); err != nil {
		return err
	}
	b.Low = float32(x)
	if b.Volume, err = num("volume"); err != nil {
		return err
	}
	if b.Money, err = num("money"); err != nil {
		return err
	}
	if x, err = num("paused"); err != nil {
		return err
	}
	b.Paused = x != 0
	return nil
}

// Bars converts an entire get_price table.
func Bars(t *table.Table) ([]Bar, error) {
	res := make([]Bar, len(t.Rows))
	for i, r := range t.Rows {
		if err := res[i].Load(r, t); err != nil {
			return nil, errors.Annotate(err, "failed to parse bar row %d", i)
		}
	}
	return res, nil
}

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

// Package equities implements a typed download layer over the raw JQData
// client: the security universe and its daily price bars, with the bulk
// fetch parallelized and retried. The client is supplied through the
// context, see jq.UseClient.
package equities

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/jqdata/jq"
	"github.com/stockparfait/jqdata/message"
	"github.com/stockparfait/logging"
)

// defaultRetries bounds the per-code retry attempts in bulk downloads.
const defaultRetries = 4

// Universe fetches the security listings of the given types as of the given
// date (zero date requests the server's current trading day), merged,
// de-duplicated by code and sorted by code.
func Universe(ctx context.Context, types []string, date jq.Date) ([]Security, error) {
	c := jq.GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no JQData client in the context")
	}
	byCode := map[string]Security{}
	for _, tp := range types {
		tbl, err := c.AllSecurities(ctx, tp, date)
		if err != nil {
			return nil, errors.Annotate(err, "failed to list '%s' securities", tp)
		}
		ss, err := Securities(tbl)
		if err != nil {
			return nil, errors.Annotate(err, "failed to parse '%s' securities", tp)
		}
		for _, s := range ss {
			byCode[s.Code] = s
		}
	}
	res := make([]Security, 0, len(byCode))
	for _, s := range byCode {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })
	return res, nil
}

// DailyBars fetches the latest count daily bars for a single security code,
// up to and including endDate (zero value requests up to the server's
// current day).
func DailyBars(ctx context.Context, code string, count int, endDate jq.DateTime) ([]Bar, error) {
	c := jq.GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no JQData client in the context")
	}
	tbl, err := c.Prices(ctx, code, count, jq.Unit1d, endDate, jq.Date{})
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch daily bars for %s", code)
	}
	bars, err := Bars(tbl)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse daily bars for %s", code)
	}
	return bars, nil
}

// BulkDailyBars fetches the latest count daily bars for each of the codes in
// parallel. A code failing with a retriable error is retried with exponential
// backoff; any other failure cancels the remaining fetches and fails the
// whole call. The result maps each code to its bars.
func BulkDailyBars(ctx context.Context, codes []string, count int, endDate jq.DateTime) (map[string][]Bar, error) {
	return bulkDailyBars(ctx, codes, count, endDate, 0, defaultRetries)
}

type codeBars struct {
	code string
	bars []Bar
	err  error
}

type bulkResult struct {
	bars map[string][]Bar
	err  error
}

func bulkDailyBars(ctx context.Context, codes []string, count int, endDate jq.DateTime, workers int, retries uint64) (map[string][]Bar, error) {
	if jq.GetClient(ctx) == nil {
		return nil, errors.Reason("no JQData client in the context")
	}
	if workers <= 0 {
		workers = 2 * runtime.NumCPU()
	}
	cctx, cancel := context.WithCancel(ctx)

	f := func(code string) codeBars {
		var bars []Bar
		op := func() error {
			var err error
			bars, err = DailyBars(cctx, code, count, endDate)
			if err != nil && !jq.Retriable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		bo := backoff.WithContext(backoff.NewExponentialBackOff(), cctx)
		if err := backoff.Retry(op, backoff.WithMaxRetries(bo, retries)); err != nil {
			return codeBars{code: code, err: err}
		}
		return codeBars{code: code, bars: bars}
	}
	pm := iterator.ParallelMap(cctx, workers, iterator.FromSlice(codes), f)
	defer func() {
		cancel()
		iterator.Flush(pm) // unblock and drain the workers
	}()

	r := iterator.Reduce[codeBars, bulkResult](pm, bulkResult{bars: map[string][]Bar{}},
		func(cb codeBars, acc bulkResult) bulkResult {
			if cb.err != nil {
				if acc.err == nil {
					acc.err = cb.err
					cancel() // cut the remaining parallel fetches short
				}
				return acc
			}
			acc.bars[cb.code] = cb.bars
			if len(acc.bars)%1000 == 0 {
				logging.Debugf(ctx, "downloaded daily bars for %d securities", len(acc.bars))
			}
			return acc
		})
	if r.err != nil {
		return nil, r.err
	}
	return r.bars, nil
}

// Config is the configuration message for Download.
type Config struct {
	// Types are the security types to include; default: {"stock"}.
	Types []string `json:"types"`
	// Date fixes the universe as of this date; zero = the current trading day.
	Date  jq.Date `json:"date"`
	Count int     `json:"count" default:"250" min:"1" max:"5000"`
	// EndDate is the date of the last requested bar; zero = the server's today.
	EndDate jq.DateTime `json:"end_date"`
	// Parallel is the number of concurrent fetches; 0 = 2 x NumCPU.
	Parallel int `json:"parallel" min:"0"`
	Retries  int `json:"retries" default:"4" min:"0"`
}

var _ message.Message = &Config{}

// InitMessage implements message.Message.
func (c *Config) InitMessage(js interface{}) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to init equities config")
	}
	if len(c.Types) == 0 {
		c.Types = []string{jq.SecurityStock}
	}
	return nil
}

// Dataset is the result of a bulk download.
type Dataset struct {
	Securities []Security       // the universe, sorted by code
	Bars       map[string][]Bar // daily bars keyed by security code
}

// Download fetches the security universe and its daily bars per the config.
func Download(ctx context.Context, cfg *Config) (*Dataset, error) {
	logging.Infof(ctx, "fetching the universe of %s...", strings.Join(cfg.Types, ", "))
	secs, err := Universe(ctx, cfg.Types, cfg.Date)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch the security universe")
	}
	logging.Infof(ctx, "downloaded %d securities", len(secs))
	codes := make([]string, len(secs))
	for i, s := range secs {
		codes[i] = s.Code
	}
	logging.Infof(ctx, "fetching %d daily bars for each security...", cfg.Count)
	bars, err := bulkDailyBars(ctx, codes, cfg.Count, cfg.EndDate, cfg.Parallel, uint64(cfg.Retries))
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch daily bars")
	}
	total := 0
	for _, bs := range bars {
		total += len(bs)
	}
	logging.Infof(ctx, "downloaded %d bars, all done.", total)
	return &Dataset{Securities: secs, Bars: bars}, nil
}

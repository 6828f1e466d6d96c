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

package jq

import (
	"context"

	"github.com/stockparfait/jqdata/table"
)

// Prices returns up to count bars of the given unit (one of the Unit*
// constants) ending at endDate, for one security. Count must be in [1, 5000].
// An unset endDate means now; an unset fqRefDate requests unadjusted prices,
// otherwise prices are adjusted relative to that date.
//
// Columns: date, open, close, high, low, volume, money; daily bars add
// paused, high_limit, low_limit, avg, pre_close; futures and options add
// open_interest.
func (c *Client) Prices(ctx context.Context, code string, count int, unit string, endDate DateTime, fqRefDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_price", Params{
		"code":        code,
		"count":       count,
		"unit":        unit,
		"end_date":    endDate,
		"fq_ref_date": fqRefDate,
	})
}

// PricePeriod returns the bars of the given unit between date and endDate for
// one security. A date-only start means its midnight, and a date-only end
// means the end of that day.
func (c *Client) PricePeriod(ctx context.Context, code, unit string, date, endDate DateTime, fqRefDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_price_period", Params{
		"code":        code,
		"unit":        unit,
		"date":        date,
		"end_date":    endDate,
		"fq_ref_date": fqRefDate,
	})
}

// Ticks returns up to count ticks of a security up to endDate; an unset count
// means the whole day of endDate. With skip set, ticks without a trade are
// filtered out; options data is sparse enough that skip should be false.
func (c *Client) Ticks(ctx context.Context, code string, count int, endDate DateTime, skip bool) (*table.Table, error) {
	return c.tableOp(ctx, "get_ticks", Params{
		"code":     code,
		"count":    count,
		"end_date": endDate,
		"skip":     skip,
	})
}

// TicksPeriod returns the ticks of a security between date and endDate. Keep
// the range short: too many ticks time the request out.
func (c *Client) TicksPeriod(ctx context.Context, code string, date, endDate DateTime, skip bool) (*table.Table, error) {
	return c.tableOp(ctx, "get_ticks_period", Params{
		"code":     code,
		"date":     date,
		"end_date": endDate,
		"skip":     skip,
	})
}

// CurrentTick returns the latest tick of a single security.
func (c *Client) CurrentTick(ctx context.Context, code string) (*table.Table, error) {
	return c.tableOp(ctx, "get_current_tick", Params{"code": code})
}

// CurrentTicks returns the latest ticks of multiple comma-separated
// securities of the same type.
func (c *Client) CurrentTicks(ctx context.Context, code string) (*table.Table, error) {
	return c.tableOp(ctx, "get_current_ticks", Params{"code": code})
}

// CurrentPrice returns the current price of one or more comma-separated
// securities, equal to the current price of their latest tick.
func (c *Client) CurrentPrice(ctx context.Context, code string) (*table.Table, error) {
	return c.tableOp(ctx, "get_current_price", Params{"code": code})
}

// CallAuction returns the call-auction ticks of up to 100 comma-separated
// securities within the date range.
func (c *Client) CallAuction(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_call_auction",
		Params{"code": code, "date": date, "end_date": endDate})
}

// FQFactor returns the price adjustment factors of a security within the date
// range; fq is FQPre or FQPost.
func (c *Client) FQFactor(ctx context.Context, code, fq string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_fq_factor",
		Params{"code": code, "fq": fq, "date": date, "end_date": endDate})
}

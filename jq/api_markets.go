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

// TradeDays lists the trading days within the date range, one YYYY-MM-DD
// value per line.
func (c *Client) TradeDays(ctx context.Context, date, endDate Date) ([]string, error) {
	return c.linesOp(ctx, "get_trade_days", Params{"date": date, "end_date": endDate})
}

// AllTradeDays lists every trading day known to the service.
func (c *Client) AllTradeDays(ctx context.Context) ([]string, error) {
	return c.linesOp(ctx, "get_all_trade_days", Params{})
}

// MTSS returns the margin trading and short selling balances of a security
// within the date range.
func (c *Client) MTSS(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_mtss",
		Params{"code": code, "date": date, "end_date": endDate})
}

// MoneyFlow returns the daily money flow of a stock within the date range.
func (c *Client) MoneyFlow(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_money_flow",
		Params{"code": code, "date": date, "end_date": endDate})
}

// BillboardList returns the exchange's daily billboard (dragon-tiger) entries
// for a stock within the date range.
func (c *Client) BillboardList(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_billboard_list",
		Params{"code": code, "date": date, "end_date": endDate})
}

// FutureContracts lists the tradable contracts of a futures product on the
// given date.
func (c *Client) FutureContracts(ctx context.Context, code string, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_future_contracts", Params{"code": code, "date": date})
}

// DominantFuture returns the dominant contract of a futures product on the
// given date.
func (c *Client) DominantFuture(ctx context.Context, code string, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_dominant_future", Params{"code": code, "date": date})
}

// FundInfo returns the descriptive attributes of a fund as a generic JSON
// value.
func (c *Client) FundInfo(ctx context.Context, code string, date Date) (interface{}, error) {
	return c.dispatch(ctx, "get_fund_info", Params{"code": code, "date": date})
}

// Extras returns per-date extras of a security (fund net values, futures
// positions and so on) within the date range.
func (c *Client) Extras(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_extras",
		Params{"code": code, "date": date, "end_date": endDate})
}

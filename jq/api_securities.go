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

// AllSecurities lists the securities of the given type (one of the Security*
// constants) as of the optionally given date. Columns: code, display_name,
// name, start_date, end_date, type.
func (c *Client) AllSecurities(ctx context.Context, code string, date Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_all_securities", Params{"code": code, "date": date})
}

// SecurityInfo returns the listing attributes of a single security.
func (c *Client) SecurityInfo(ctx context.Context, code string) (*table.Table, error) {
	return c.tableOp(ctx, "get_security_info", Params{"code": code})
}

// IndexStocks lists the constituents of an index on the given date.
func (c *Client) IndexStocks(ctx context.Context, code string, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_index_stocks", Params{"code": code, "date": date})
}

// MarginCashStocks lists the stocks eligible for margin buying on the given
// date, today when the date is unset.
func (c *Client) MarginCashStocks(ctx context.Context, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_margincash_stocks", Params{"date": date})
}

// MarginSecStocks lists the stocks eligible for short selling on the given
// date, today when the date is unset.
func (c *Client) MarginSecStocks(ctx context.Context, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_marginsec_stocks", Params{"date": date})
}

// LockedShares returns the locked-up share unlock schedule of a stock within
// the date range.
func (c *Client) LockedShares(ctx context.Context, code string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_locked_shares",
		Params{"code": code, "date": date, "end_date": endDate})
}

// IndexWeights returns the constituent weights of an index on the given date.
func (c *Client) IndexWeights(ctx context.Context, code string, date Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_index_weights", Params{"code": code, "date": date})
}

// Industries lists an industry catalog: code is one of the Industry*
// constants selecting the classification.
func (c *Client) Industries(ctx context.Context, code string) (*table.Table, error) {
	return c.tableOp(ctx, "get_industries", Params{"code": code})
}

// Industry returns the industry memberships of a security on the given date.
func (c *Client) Industry(ctx context.Context, code string, date Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_industry", Params{"code": code, "date": date})
}

// IndustryStocks lists the member stocks of an industry on the given date.
func (c *Client) IndustryStocks(ctx context.Context, code string, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_industry_stocks", Params{"code": code, "date": date})
}

// Concepts lists the concept sector catalog.
func (c *Client) Concepts(ctx context.Context) (*table.Table, error) {
	return c.tableOp(ctx, "get_concepts", Params{})
}

// ConceptStocks lists the member stocks of a concept sector on the given
// date.
func (c *Client) ConceptStocks(ctx context.Context, code string, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_concept_stocks", Params{"code": code, "date": date})
}

// PauseStocks lists the stocks suspended from trading on the given date,
// today when the date is unset.
func (c *Client) PauseStocks(ctx context.Context, date Date) ([]string, error) {
	return c.linesOp(ctx, "get_pause_stocks", Params{"date": date})
}

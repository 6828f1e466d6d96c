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
	"strconv"
	"strings"

	"github.com/stockparfait/jqdata/table"
)

// Fundamentals queries a fundamentals table (one of the Table* constants) for
// a security. Date may be a calendar date, a year ("2022") or a quarter
// ("2022q3"). Count, when positive, requests that many consecutive reporting
// periods ending at date, at most 1000.
func (c *Client) Fundamentals(ctx context.Context, tableName, columns, code, date string, count int) (*table.Table, error) {
	return c.tableOp(ctx, "get_fundamentals", Params{
		"table":   tableName,
		"columns": columns,
		"code":    code,
		"date":    date,
		"count":   count,
	})
}

// RunQuery queries any of the service's raw data tables, documented at
// https://www.joinquant.com/help/api/doc?name=JQDatadoc. Columns and
// conditions are comma-separated lists, e.g. "date#>=#2022-09-01". Count must
// be in [1, 1000].
func (c *Client) RunQuery(ctx context.Context, tableName, columns, conditions string, count int) (*table.Table, error) {
	return c.tableOp(ctx, "run_query", Params{
		"table":      tableName,
		"columns":    columns,
		"conditions": conditions,
		"count":      count,
	})
}

// QueryCount returns the number of data rows the account can still query
// today.
func (c *Client) QueryCount(ctx context.Context) (int, error) {
	body, err := c.dispatch(ctx, "get_query_count", nil)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(body.(string))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{
			Kind:    KindUnknown,
			Op:      "get_query_count",
			Body:    s,
			Message: "failed to parse the remaining query count",
			Err:     err,
		}
	}
	return n, nil
}

// FactorValues returns the values of comma-separated factor columns for a
// security within the date range. AllFactors lists the valid columns.
func (c *Client) FactorValues(ctx context.Context, code, columns string, date, endDate Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_factor_values", Params{
		"code":     code,
		"columns":  columns,
		"date":     date,
		"end_date": endDate,
	})
}

// AllFactors lists the factors served by FactorValues as a table of factor
// codes and their display names.
func (c *Client) AllFactors(ctx context.Context) (*table.Table, error) {
	return c.tableOp(ctx, "get_all_factors", nil)
}

// Alpha101 computes one of the 101 WorldQuant alphas ("alpha_001" to
// "alpha_101") for a security on the given day.
func (c *Client) Alpha101(ctx context.Context, code, funcName string, date Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_alpha101",
		Params{"code": code, "func_name": funcName, "date": date})
}

// Alpha191 computes one of the 191 short-period alphas ("alpha_001" to
// "alpha_191") for a security on the given day.
func (c *Client) Alpha191(ctx context.Context, code, funcName string, date Date) (*table.Table, error) {
	return c.tableOp(ctx, "get_alpha191",
		Params{"code": code, "func_name": funcName, "date": date})
}

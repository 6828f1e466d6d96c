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
	"testing"

	"github.com/stockparfait/jqdata/jq/jqtest"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	creds := Credentials{Mobile: "13800000000", Password: "secret"}

	Convey("Local validation failures make no requests", t, func() {
		server := jqtest.NewServer()
		defer server.Close()
		c := New(creds, WithURL(server.URL()), WithHTTPClient(server.Client()))

		Convey("malformed date through the raw face", func() {
			_, err := c.CallTable(ctx, "get_mtss", Params{
				"code":     "600519.XSHG",
				"date":     "2022-9-5",
				"end_date": "2022-09-06",
			})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "incorrect date format for 2022-9-5")
		})

		Convey("enum violation through a wrapper", func() {
			_, err := c.AllSecurities(ctx, "bogus", Date{})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "parameter 'code' must be one of")
		})

		Convey("count out of bounds", func() {
			_, err := c.Prices(ctx, "600519.XSHG", 6000, Unit1d, DateTime{}, Date{})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"parameter 'count' must be an int in [1, 5000], got 6000")
		})

		Convey("missing required parameters", func() {
			_, err := c.CallTable(ctx, "get_price", nil)
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"missing required parameters: code, count, unit")
		})

		Convey("unsupported parameter", func() {
			_, err := c.CallTable(ctx, "get_concepts", Params{"code": "GN001"})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"unsupported parameters for get_concepts: code")
		})

		Convey("unsupported parameter value type", func() {
			_, err := c.CallTable(ctx, "get_security_info", Params{
				"code": []string{"600519.XSHG"}})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"unsupported type []string for parameter 'code'")
		})

		Convey("dispatch without a token", func() {
			_, err := c.SecurityInfo(ctx, "600519.XSHG")
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"token is empty, please initialize first")
		})

		So(server.RequestCount(), ShouldEqual, 0)
	})

	Convey("Authenticated calls", t, func() {
		server := jqtest.NewServer()
		defer server.Close()
		c := New(creds, WithURL(server.URL()), WithHTTPClient(server.Client()))
		server.Responses = []jqtest.Response{{Body: "token123"}}
		So(c.Initialize(ctx), ShouldBeNil)

		Convey("payload carries exactly the set values plus method and token", func() {
			server.Responses = []jqtest.Response{{Body: "date,open,close\n2022-09-05,100,101\n"}}
			tbl, err := c.Prices(ctx, "600519.XSHG", 10, Unit1d,
				NewDateTime(2022, 9, 5, 15, 0, 0), Date{})
			So(err, ShouldBeNil)
			So(tbl.Column("close"), ShouldResemble, []string{"101"})
			req := server.LastRequest()
			So(req.ContentType, ShouldEqual, "application/json")
			So(req.Method, ShouldEqual, "get_price")
			So(req.Payload, ShouldResemble, map[string]interface{}{
				"method":   "get_price",
				"token":    "token123",
				"code":     "600519.XSHG",
				"count":    10.0,
				"unit":     "1d",
				"end_date": "2022-09-05 15:00:00",
			})
		})

		Convey("a false bool is a real value, a zero int is not", func() {
			server.Responses = []jqtest.Response{{Body: "time,current\n09:30:00,100\n"}}
			_, err := c.Ticks(ctx, "600519.XSHG", 0,
				NewDateTimeFromDate(NewDate(2022, 9, 5)), false)
			So(err, ShouldBeNil)
			So(server.LastRequest().Payload, ShouldResemble, map[string]interface{}{
				"method":   "get_ticks",
				"token":    "token123",
				"code":     "600519.XSHG",
				"end_date": "2022-09-05",
				"skip":     false,
			})
		})

		Convey("zero dates are dropped entirely", func() {
			server.Responses = []jqtest.Response{{Body: "600519.XSHG\n000001.XSHE"}}
			_, err := c.MarginCashStocks(ctx, Date{})
			So(err, ShouldBeNil)
			So(server.LastRequest().Payload, ShouldResemble, map[string]interface{}{
				"method": "get_margincash_stocks",
				"token":  "token123",
			})
		})

		Convey("lines format returns the body lines in order", func() {
			server.Responses = []jqtest.Response{{Body: "2022-09-05\n2022-09-06"}}
			days, err := c.TradeDays(ctx, NewDate(2022, 9, 5), NewDate(2022, 9, 6))
			So(err, ShouldBeNil)
			So(days, ShouldResemble, []string{"2022-09-05", "2022-09-06"})
		})

		Convey("lines with commas stay unsplit", func() {
			server.Responses = []jqtest.Response{
				{Body: "AAPL,2020-01-01,2020-01-02\nMSFT,2020-01-01,2020-01-02"}}
			lines, err := c.CallLines(ctx, "get_index_stocks", Params{
				"code": "000300.XSHG", "date": "2022-09-05"})
			So(err, ShouldBeNil)
			So(lines, ShouldResemble, []string{
				"AAPL,2020-01-01,2020-01-02", "MSFT,2020-01-01,2020-01-02"})
		})

		Convey("a trailing newline yields a trailing empty line", func() {
			server.Responses = []jqtest.Response{{Body: "a\nb\n"}}
			lines, err := c.CallLines(ctx, "get_industry_stocks", Params{
				"code": "HY001", "date": "2022-09-05"})
			So(err, ShouldBeNil)
			So(lines, ShouldResemble, []string{"a", "b", ""})
		})

		Convey("text format returns the body verbatim", func() {
			server.Responses = []jqtest.Response{{Body: "  raw text\nwith lines  "}}
			s, err := c.CallText(ctx, "get_query_count", nil)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "  raw text\nwith lines  ")
		})

		Convey("json format decodes the generic value", func() {
			server.Responses = []jqtest.Response{
				{Body: `{"fund_name": "Some Fund", "data": [1, 2]}`}}
			v, err := c.FundInfo(ctx, "000001.OF", NewDate(2022, 9, 5))
			So(err, ShouldBeNil)
			So(v, ShouldResemble,
				testutil.JSON(`{"fund_name": "Some Fund", "data": [1, 2]}`))
		})

		Convey("table format gives named-column access", func() {
			server.Responses = []jqtest.Response{{Body: `code,display_name,name
600519.XSHG,Moutai,GZMT
000001.XSHE,PAB,PAYH
`}}
			tbl, err := c.AllSecurities(ctx, SecurityStock, NewDate(2022, 9, 5))
			So(err, ShouldBeNil)
			So(tbl.Header, ShouldResemble, []string{"code", "display_name", "name"})
			So(tbl.Column("code"), ShouldResemble, []string{"600519.XSHG", "000001.XSHE"})
			cell, ok := tbl.Cell(1, "display_name")
			So(ok, ShouldBeTrue)
			So(cell, ShouldEqual, "PAB")
		})

		Convey("QueryCount parses the count", func() {
			server.Responses = []jqtest.Response{{Body: " 99887 \n"}}
			n, err := c.QueryCount(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 99887)
		})

		Convey("QueryCount rejects a non-numeric body", func() {
			server.Responses = []jqtest.Response{{Body: "unlimited"}}
			_, err := c.QueryCount(ctx)
			So(IsUnknown(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"failed to parse the remaining query count")
		})

		Convey("classification", func() {
			Convey("504 is a timeout regardless of the body", func() {
				server.Responses = []jqtest.Response{{Status: 504, Body: "looks,like,csv\n1,2,3"}}
				_, err := c.SecurityInfo(ctx, "600519.XSHG")
				So(IsTimeout(err), ShouldBeTrue)
				e := err.(*Error)
				So(e.Status, ShouldEqual, 504)
				So(e.Message, ShouldEqual,
					"server timed out. please try to reduce [count] or try later")
			})

			Convey("500 is a server error", func() {
				server.Responses = []jqtest.Response{{Status: 500, Body: "boom"}}
				_, err := c.SecurityInfo(ctx, "600519.XSHG")
				So(IsServer(err), ShouldBeTrue)
				So(err.(*Error).Message, ShouldEqual,
					"server error. please check your parameter or try later")
			})

			Convey("an auth-failed body on 200", func() {
				server.Responses = []jqtest.Response{{Body: "error:auth failed: token expired"}}
				_, err := c.SecurityInfo(ctx, "600519.XSHG")
				So(IsAuth(err), ShouldBeTrue)
				e := err.(*Error)
				So(e.Message, ShouldEqual, "auth failed, please check your credentials")
				So(e.Body, ShouldEqual, "error:auth failed: token expired")
			})

			Convey("another error body on 200", func() {
				server.Responses = []jqtest.Response{{Body: "error:no permission"}}
				_, err := c.SecurityInfo(ctx, "600519.XSHG")
				So(IsUnknown(err), ShouldBeTrue)
				So(err.(*Error).Message, ShouldEqual,
					"error return with ok status. message: error:no permission")
			})

			Convey("any other status", func() {
				server.Responses = []jqtest.Response{{Status: 404, Body: "not found"}}
				_, err := c.SecurityInfo(ctx, "600519.XSHG")
				So(IsUnknown(err), ShouldBeTrue)
				So(err.(*Error).Message, ShouldEqual,
					"post returns unsuccessful with status 404. message: not found")
			})
		})

		Convey("an unparseable table body", func() {
			server.Responses = []jqtest.Response{{Body: "a,b\n\"unclosed"}}
			_, err := c.SecurityInfo(ctx, "600519.XSHG")
			So(IsUnknown(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "failed to parse a table body")
		})

		Convey("an unparseable JSON body", func() {
			server.Responses = []jqtest.Response{{Body: "not json"}}
			_, err := c.FundInfo(ctx, "000001.OF", NewDate(2022, 9, 5))
			So(IsUnknown(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "failed to parse a JSON body")
		})
	})

	Convey("dispatch panics on an uncataloged operation", t, func() {
		c := New(creds)
		So(func() { _, _ = c.dispatch(ctx, "no_such_operation", nil) }, ShouldPanic)
	})
}

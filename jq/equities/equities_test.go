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
	"context"
	"math"
	"testing"

	"github.com/stockparfait/jqdata/jq"
	"github.com/stockparfait/jqdata/jq/jqtest"
	"github.com/stockparfait/jqdata/table"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSchema(t *testing.T) {
	t.Parallel()

	Convey("Securities", t, func() {
		Convey("parses a listing table", func() {
			tbl, err := table.FromCSV(`code,display_name,name,start_date,end_date,type
600519.XSHG,贵州茅台,GZMT,2001-08-27,2200-01-01,stock
000001.XSHE,平安银行,PAYH,1991-04-03,2200-01-01,stock`)
			So(err, ShouldBeNil)
			ss, err := Securities(tbl)
			So(err, ShouldBeNil)
			So(ss, ShouldResemble, []Security{
				{
					Code:        "600519.XSHG",
					DisplayName: "贵州茅台",
					Name:        "GZMT",
					StartDate:   jq.NewDate(2001, 8, 27),
					EndDate:     jq.NewDate(2200, 1, 1),
					Type:        "stock",
				},
				{
					Code:        "000001.XSHE",
					DisplayName: "平安银行",
					Name:        "PAYH",
					StartDate:   jq.NewDate(1991, 4, 3),
					EndDate:     jq.NewDate(2200, 1, 1),
					Type:        "stock",
				},
			})
		})

		Convey("a row without a code is an error", func() {
			tbl, err := table.FromCSV("code,name\n,foo")
			So(err, ShouldBeNil)
			_, err = Securities(tbl)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "security code is missing")
		})

		Convey("a malformed date is an error", func() {
			tbl, err := table.FromCSV("code,start_date\n600519.XSHG,2022-13-40")
			So(err, ShouldBeNil)
			_, err = Securities(tbl)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "start_date should be a date string")
		})
	})

	Convey("Bars", t, func() {
		Convey("parses daily bars with the extra columns", func() {
			tbl, err := table.FromCSV(`date,open,close,high,low,volume,money,paused,high_limit,low_limit,avg,pre_close
2022-09-05,10,11,12,9.5,1000,10500.5,0,13.2,8.8,10.5,10
2022-09-06,0,0,0,0,0,0,1,13.2,8.8,0,11`)
			So(err, ShouldBeNil)
			bars, err := Bars(tbl)
			So(err, ShouldBeNil)
			So(bars[0], ShouldResemble, Bar{
				Date:   jq.NewDateTimeFromDate(jq.NewDate(2022, 9, 5)),
				Open:   10,
				Close:  11,
				High:   12,
				Low:    9.5,
				Volume: 1000,
				Money:  10500.5,
			})
			So(bars[1].Paused, ShouldBeTrue)
		})

		Convey("parses minute bars without the extra columns", func() {
			tbl, err := table.FromCSV(`date,open,close,high,low,volume,money
2022-09-05 10:31:00,10,10.2,10.3,9.9,500,5100`)
			So(err, ShouldBeNil)
			bars, err := Bars(tbl)
			So(err, ShouldBeNil)
			So(bars, ShouldResemble, []Bar{{
				Date:   jq.NewDateTime(2022, 9, 5, 10, 31, 0),
				Open:   10,
				Close:  10.2,
				High:   10.3,
				Low:    9.9,
				Volume: 500,
				Money:  5100,
			}})
		})

		Convey("a non-numeric cell is an error", func() {
			tbl, err := table.FromCSV("date,open\n2022-09-05,none")
			So(err, ShouldBeNil)
			_, err = Bars(tbl)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "open should be a number")
		})

		Convey("a missing date is an error", func() {
			tbl, err := table.FromCSV("open,close\n1,2")
			So(err, ShouldBeNil)
			_, err = Bars(tbl)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "bar date is missing")
		})
	})
}

func TestEquities(t *testing.T) {
	t.Parallel()

	const securitiesCSV = `code,display_name,name,start_date,end_date,type
000001.XSHE,平安银行,PAYH,1991-04-03,2200-01-01,stock
600519.XSHG,贵州茅台,GZMT,2001-08-27,2200-01-01,stock`

	const fundsCSV = `code,display_name,name,start_date,end_date,type
510300.XSHG,300ETF,GSETF,2012-05-28,2200-01-01,fund
600519.XSHG,贵州茅台,GZMT,2001-08-27,2200-01-01,stock`

	const barsCSV = `date,open,close,high,low,volume,money,paused
2022-09-05,10,11,12,9.5,1000,10500.5,0
2022-09-06,11,12.1,12.5,10.9,2000,23000,0`

	Convey("Equities with a test server", t, func() {
		server := jqtest.NewServer()
		defer server.Close()
		c := jq.New(jq.Credentials{Mobile: "13800000000", Password: "secret"},
			jq.WithURL(server.URL()), jq.WithHTTPClient(server.Client()))
		server.Responses = []jqtest.Response{{Body: "token123"}}
		So(c.Initialize(context.Background()), ShouldBeNil)
		ctx := jq.UseClient(context.Background(), c)

		Convey("Universe merges, de-duplicates and sorts", func() {
			server.Responses = []jqtest.Response{
				{Body: securitiesCSV},
				{Body: fundsCSV},
			}
			ss, err := Universe(ctx, []string{jq.SecurityStock, jq.SecurityFund}, jq.Date{})
			So(err, ShouldBeNil)
			codes := make([]string, len(ss))
			for i, s := range ss {
				codes[i] = s.Code
			}
			So(codes, ShouldResemble, []string{
				"000001.XSHE", "510300.XSHG", "600519.XSHG"})
			So(server.RequestCount(), ShouldEqual, 3)
			reqs := server.Requests()
			So(reqs[1].Payload, ShouldResemble, map[string]interface{}{
				"method": "get_all_securities",
				"token":  "token123",
				"code":   "stock",
			})
			So(reqs[2].Payload["code"], ShouldEqual, "fund")
		})

		Convey("Universe propagates a listing failure", func() {
			server.Responses = []jqtest.Response{
				{Body: "error:auth failed, token expired"}}
			_, err := Universe(ctx, []string{jq.SecurityStock}, jq.Date{})
			So(jq.IsAuth(err), ShouldBeTrue)
		})

		Convey("DailyBars fetches and parses bars", func() {
			server.Responses = []jqtest.Response{{Body: barsCSV}}
			end := jq.NewDateTimeFromDate(jq.NewDate(2022, 9, 6))
			bars, err := DailyBars(ctx, "600519.XSHG", 2, end)
			So(err, ShouldBeNil)
			So(len(bars), ShouldEqual, 2)
			So(bars[1].Close, ShouldEqual, float32(12.1))
			req := server.LastRequest()
			So(req.Payload, ShouldResemble, map[string]interface{}{
				"method":   "get_price",
				"token":    "token123",
				"code":     "600519.XSHG",
				"count":    2.0,
				"unit":     "1d",
				"end_date": "2022-09-06",
			})
		})

		Convey("BulkDailyBars retries a retriable failure", func() {
			server.Responses = []jqtest.Response{
				{Status: 500, Body: "oops"},
				{Body: barsCSV},
			}
			bars, err := BulkDailyBars(ctx, []string{"600519.XSHG"}, 2, jq.DateTime{})
			So(err, ShouldBeNil)
			So(len(bars["600519.XSHG"]), ShouldEqual, 2)
			So(server.RequestCount(), ShouldEqual, 3) // token + two attempts
		})

		Convey("a non-retriable failure cancels the remaining fetches", func() {
			server.Responses = []jqtest.Response{
				{Body: "error:auth failed, token expired"}}
			codes := []string{"000001.XSHE", "510300.XSHG", "600519.XSHG"}
			_, err := bulkDailyBars(ctx, codes, 2, jq.DateTime{}, 1, 0)
			So(jq.IsAuth(err), ShouldBeTrue)
		})

		Convey("BulkDailyBars does not retry a non-retriable failure", func() {
			server.Responses = []jqtest.Response{
				{Body: "error:auth failed, token expired"}}
			_, err := BulkDailyBars(ctx, []string{"600519.XSHG"}, 2, jq.DateTime{})
			So(jq.IsAuth(err), ShouldBeTrue)
			So(server.RequestCount(), ShouldEqual, 2) // token + one attempt
		})

		Convey("Download fetches the universe and all of its bars", func() {
			server.Responses = []jqtest.Response{
				{Body: securitiesCSV},
				{Body: barsCSV},
				{Body: barsCSV},
			}
			var cfg Config
			So(cfg.InitMessage(testutil.JSON(`{"count": 2, "retries": 0}`)), ShouldBeNil)
			So(cfg.Types, ShouldResemble, []string{"stock"})
			ds, err := Download(ctx, &cfg)
			So(err, ShouldBeNil)
			So(len(ds.Securities), ShouldEqual, 2)
			So(len(ds.Bars["000001.XSHE"]), ShouldEqual, 2)
			So(len(ds.Bars["600519.XSHG"]), ShouldEqual, 2)
			So(server.RequestCount(), ShouldEqual, 4)
		})

		Convey("an out-of-range count fails the config", func() {
			var cfg Config
			err := cfg.InitMessage(testutil.JSON(`{"count": 0}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "below its minimum")
		})

		Convey("calls without a client in the context fail", func() {
			bare := context.Background()
			_, err := Universe(bare, []string{jq.SecurityStock}, jq.Date{})
			So(err.Error(), ShouldContainSubstring, "no JQData client")
			_, err = DailyBars(bare, "600519.XSHG", 1, jq.DateTime{})
			So(err.Error(), ShouldContainSubstring, "no JQData client")
			_, err = BulkDailyBars(bare, []string{"600519.XSHG"}, 1, jq.DateTime{})
			So(err.Error(), ShouldContainSubstring, "no JQData client")
		})
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	Convey("LogProfits", t, func() {
		bars := []Bar{
			{Close: 100},
			{Close: 110},
			{Close: 0, Paused: true}, // paused day, skipped
			{Close: 121},
		}
		So(LogProfits(bars), ShouldResemble, []float64{
			math.Log(1.1), math.Log(121.0 / 110.0)})
		So(LogProfits(nil), ShouldBeNil)
	})

	Convey("SummaryOf", t, func() {
		Convey("of a short sample", func() {
			s := SummaryOf([]float64{1, 2, 3, 4})
			So(s.N, ShouldEqual, 4)
			So(s.Mean, ShouldEqual, 2.5)
			So(s.MAD, ShouldEqual, 1.0)
			So(testutil.Round(s.Sigma, 6), ShouldEqual, testutil.Round(math.Sqrt(1.25), 6))
		})

		Convey("of an empty sample", func() {
			So(SummaryOf(nil), ShouldResemble, Summary{})
		})
	})
}

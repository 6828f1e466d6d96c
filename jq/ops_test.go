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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOps(t *testing.T) {
	t.Parallel()

	Convey("validDate", t, func() {
		Convey("strict form", func() {
			So(validDate("2022-09-05", dateStrict), ShouldBeTrue)
			So(validDate("2022-9-5", dateStrict), ShouldBeFalse)
			So(validDate("2022-09-05 10:30:45", dateStrict), ShouldBeFalse)
			So(validDate("2022", dateStrict), ShouldBeFalse)
		})

		Convey("date-or-time form", func() {
			So(validDate("2022-09-05", dateOrTime), ShouldBeTrue)
			So(validDate("2022-09-05 10:30", dateOrTime), ShouldBeTrue)
			So(validDate("2022-09-05 10:30:45", dateOrTime), ShouldBeTrue)
			So(validDate("2022-09-05 25:00:00", dateOrTime), ShouldBeFalse)
			So(validDate("2022q3", dateOrTime), ShouldBeFalse)
		})

		Convey("date-or-period form", func() {
			So(validDate("2022-09-05", dateOrPeriod), ShouldBeTrue)
			So(validDate("2022", dateOrPeriod), ShouldBeTrue)
			So(validDate("2022q1", dateOrPeriod), ShouldBeTrue)
			So(validDate("2022q4", dateOrPeriod), ShouldBeTrue)
			So(validDate("2022q5", dateOrPeriod), ShouldBeFalse)
			So(validDate("22q1", dateOrPeriod), ShouldBeFalse)
			So(validDate("2022-09-05 10:30:45", dateOrPeriod), ShouldBeFalse)
		})
	})

	Convey("validateCall", t, func() {
		Convey("accepts a complete valid payload", func() {
			So(validateCall("get_price", map[string]interface{}{
				"code":     "600519.XSHG",
				"count":    10,
				"unit":     Unit1d,
				"end_date": "2022-09-05 15:00:00",
			}), ShouldBeNil)
		})

		Convey("reports all missing required parameters, sorted", func() {
			err := validateCall("get_price", map[string]interface{}{"unit": Unit1d})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"missing required parameters: code, count")
		})

		Convey("rejects parameters the operation does not take", func() {
			err := validateCall("get_concepts", map[string]interface{}{"code": "GN001"})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"unsupported parameters for get_concepts: code")
		})

		Convey("rejects a value outside its choice list", func() {
			err := validateCall("get_industries", map[string]interface{}{"code": "bogus"})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "must be one of")
			So(err.Error(), ShouldContainSubstring, "got 'bogus'")
		})

		Convey("rejects an out-of-bounds count", func() {
			err := validateCall("get_price", map[string]interface{}{
				"code":  "600519.XSHG",
				"count": 6000,
				"unit":  Unit1d,
			})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"parameter 'count' must be an int in [1, 5000], got 6000")
		})

		Convey("applies the strict date rule by default", func() {
			err := validateCall("get_call_auction", map[string]interface{}{
				"code":     "600519.XSHG",
				"date":     "2022-09-05",
				"end_date": "2022-09-05 15:00:00",
			})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring,
				"incorrect date format for 2022-09-05 15:00:00")
		})

		Convey("applies per-operation date relaxations", func() {
			So(validateCall("get_ticks_period", map[string]interface{}{
				"code":     "600519.XSHG",
				"date":     "2022-09-05 09:30:00",
				"end_date": "2022-09-05 10:30:00",
			}), ShouldBeNil)

			So(validateCall("get_fundamentals", map[string]interface{}{
				"table": TableBalance,
				"code":  "600519.XSHG",
				"date":  "2022q3",
			}), ShouldBeNil)

			err := validateCall("get_fundamentals", map[string]interface{}{
				"table": TableBalance,
				"code":  "600519.XSHG",
				"date":  "2022q5",
			})
			So(IsValidation(err), ShouldBeTrue)
		})

		Convey("checks only the date rule for uncataloged operations", func() {
			So(validateCall("get_brand_new_endpoint", map[string]interface{}{
				"whatever": 42,
				"date":     "2022-09-05",
			}), ShouldBeNil)

			err := validateCall("get_brand_new_endpoint", map[string]interface{}{
				"end_date": "garbage",
			})
			So(IsValidation(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "incorrect date format for garbage")
		})

		Convey("rejects a non-string date value", func() {
			err := validateCall("get_brand_new_endpoint", map[string]interface{}{
				"date": 20220905,
			})
			So(IsValidation(err), ShouldBeTrue)
		})
	})
}

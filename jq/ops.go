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
	"fmt"
	"regexp"
	"strings"

	"github.com/stockparfait/jqdata/message"
	"golang.org/x/exp/slices"
)

// Security types accepted by AllSecurities.
const (
	SecurityStock           = "stock"
	SecurityFund            = "fund"
	SecurityIndex           = "index"
	SecurityFutures         = "futures"
	SecurityETF             = "etf"
	SecurityLOF             = "lof"
	SecurityFJA             = "fja"
	SecurityFJB             = "fjb"
	SecurityQDIIFund        = "QDII_fund"
	SecurityOpenFund        = "open_fund"
	SecurityBondFund        = "bond_fund"
	SecurityStockFund       = "stock_fund"
	SecurityMoneyMarketFund = "money_market_fund"
	SecurityMixtureFund     = "mixture_fund"
	SecurityOptions         = "options"
)

// Industry classification catalogs accepted by Industries.
const (
	IndustrySW1 = "sw_l1"
	IndustryJQ1 = "jq_l1"
	IndustryJQ2 = "jq_l2"
	IndustryZJW = "zjw"
)

// Bar units accepted by Prices and PricePeriod.
const (
	Unit1m   = "1m"
	Unit5m   = "5m"
	Unit15m  = "15m"
	Unit30m  = "30m"
	Unit60m  = "60m"
	Unit120m = "120m"
	Unit1d   = "1d"
	Unit1w   = "1w"
	Unit1M   = "1M"
)

// Adjustment modes accepted by FQFactor.
const (
	FQPre  = "pre"
	FQPost = "post"
)

// Fundamentals tables accepted by Fundamentals.
const (
	TableBalance            = "balance"
	TableIncome             = "income"
	TableCashFlow           = "cash_flow"
	TableIndicator          = "indicator"
	TableValuation          = "valuation"
	TableBankIndicator      = "bank_indicator"
	TableSecurityIndicator  = "security_indicator"
	TableInsuranceIndicator = "insurance_indicator"
)

var (
	securityTypes = []string{
		SecurityStock, SecurityFund, SecurityIndex, SecurityFutures,
		SecurityETF, SecurityLOF, SecurityFJA, SecurityFJB, SecurityQDIIFund,
		SecurityOpenFund, SecurityBondFund, SecurityStockFund,
		SecurityMoneyMarketFund, SecurityMixtureFund, SecurityOptions,
	}
	industryCodes = []string{IndustrySW1, IndustryJQ1, IndustryJQ2, IndustryZJW}
	barUnits      = []string{
		Unit1m, Unit5m, Unit15m, Unit30m, Unit60m, Unit120m, Unit1d, Unit1w, Unit1M,
	}
	fqModes            = []string{FQPre, FQPost}
	fundamentalsTables = []string{
		TableBalance, TableIncome, TableCashFlow, TableIndicator,
		TableValuation, TableBankIndicator, TableSecurityIndicator,
		TableInsuranceIndicator,
	}
)

// dateForm is the accepted syntax of a date-suffixed parameter.
type dateForm int

const (
	dateStrict   dateForm = iota // YYYY-MM-DD only (the default)
	dateOrTime                   // also YYYY-MM-DD HH:MM[:SS]
	dateOrPeriod                 // also YYYY or YYYYq1..YYYYq4
)

var periodRE = regexp.MustCompile(`^[0-9]{4}(q[1-4])?$`)

func validDate(s string, form dateForm) bool {
	switch form {
	case dateOrTime:
		_, err := NewDateTimeFromString(s)
		return err == nil
	case dateOrPeriod:
		if periodRE.MatchString(s) {
			return true
		}
	}
	_, err := NewDateFromString(s)
	return err == nil
}

// operation describes one wire method: its parameters, extra validation, and
// how the response body decodes.
type operation struct {
	required []string
	optional []string
	format   resultFormat
	choices  map[string][]string // enumerated parameter catalogs
	bounds   map[string][2]int   // inclusive int parameter ranges
	dates    map[string]dateForm // per-parameter date form overrides
}

// operations is the static catalog of the wire methods. Methods absent from
// the catalog pass through with only the date rule applied, which keeps the
// raw Call* entry points usable for endpoints the service adds later.
var operations = map[string]operation{
	"get_all_securities": {
		required: []string{"code"},
		optional: []string{"date"},
		format:   formatTable,
		choices:  map[string][]string{"code": securityTypes},
	},
	"get_security_info": {
		required: []string{"code"},
		format:   formatTable,
	},
	"get_index_stocks": {
		required: []string{"code", "date"},
		format:   formatLines,
	},
	"get_margincash_stocks": {
		optional: []string{"date"},
		format:   formatLines,
	},
	"get_marginsec_stocks": {
		optional: []string{"date"},
		format:   formatLines,
	},
	"get_locked_shares": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
	"get_index_weights": {
		required: []string{"code", "date"},
		format:   formatTable,
	},
	"get_industries": {
		required: []string{"code"},
		format:   formatTable,
		choices:  map[string][]string{"code": industryCodes},
	},
	"get_industry": {
		required: []string{"code", "date"},
		format:   formatTable,
	},
	"get_industry_stocks": {
		required: []string{"code", "date"},
		format:   formatLines,
	},
	"get_concepts": {
		format: formatTable,
	},
	"get_concept_stocks": {
		required: []string{"code", "date"},
		format:   formatLines,
	},
	"get_trade_days": {
		required: []string{"date", "end_date"},
		format:   formatLines,
	},
	"get_all_trade_days": {
		format: formatLines,
	},
	"get_mtss": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
	"get_money_flow": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
	"get_billboard_list": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
	"get_future_contracts": {
		required: []string{"code", "date"},
		format:   formatLines,
	},
	"get_dominant_future": {
		required: []string{"code", "date"},
		format:   formatLines,
	},
	"get_fund_info": {
		required: []string{"code", "date"},
		format:   formatJSON,
	},
	"get_current_tick": {
		required: []string{"code"},
		format:   formatTable,
	},
	"get_current_ticks": {
		required: []string{"code"},
		format:   formatTable,
	},
	"get_extras": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
	"get_price": {
		required: []string{"code", "count", "unit"},
		optional: []string{"end_date", "fq_ref_date"},
		format:   formatTable,
		choices:  map[string][]string{"unit": barUnits},
		bounds:   map[string][2]int{"count": {1, 5000}},
		dates:    map[string]dateForm{"end_date": dateOrTime},
	},
	"get_price_period": {
		required: []string{"code", "unit", "date", "end_date"},
		optional: []string{"fq_ref_date"},
		format:   formatTable,
		choices:  map[string][]string{"unit": barUnits},
		dates: map[string]dateForm{
			"date":     dateOrTime,
			"end_date": dateOrTime,
		},
	},
	"get_ticks": {
		required: []string{"code", "end_date"},
		optional: []string{"count", "skip"},
		format:   formatTable,
		dates:    map[string]dateForm{"end_date": dateOrTime},
	},
	"get_ticks_period": {
		required: []string{"code", "date", "end_date"},
		optional: []string{"skip"},
		format:   formatTable,
		dates: map[string]dateForm{
			"date":     dateOrTime,
			"end_date": dateOrTime,
		},
	},
	"get_factor_values": {
		required: []string{"code", "columns", "date", "end_date"},
		format:   formatTable,
	},
	"run_query": {
		required: []string{"table"},
		optional: []string{"columns", "conditions", "count"},
		format:   formatTable,
		bounds:   map[string][2]int{"count": {1, 1000}},
	},
	"get_query_count": {
		format: formatText,
	},
	"get_fundamentals": {
		required: []string{"table", "code", "date"},
		optional: []string{"columns", "count"},
		format:   formatTable,
		choices:  map[string][]string{"table": fundamentalsTables},
		bounds:   map[string][2]int{"count": {1, 1000}},
		dates:    map[string]dateForm{"date": dateOrPeriod},
	},
	"get_all_factors": {
		format: formatTable,
	},
	"get_pause_stocks": {
		optional: []string{"date"},
		format:   formatLines,
	},
	"get_alpha101": {
		required: []string{"code", "func_name", "date"},
		format:   formatTable,
	},
	"get_alpha191": {
		required: []string{"code", "func_name", "date"},
		format:   formatTable,
	},
	"get_fq_factor": {
		required: []string{"code", "fq", "date", "end_date"},
		format:   formatTable,
		choices:  map[string][]string{"fq": fqModes},
	},
	"get_current_price": {
		required: []string{"code"},
		format:   formatTable,
	},
	"get_call_auction": {
		required: []string{"code", "date", "end_date"},
		format:   formatTable,
	},
}

// validateCall checks the surviving payload values of op against the catalog
// entry (required presence, enumerated choices, int bounds) and applies the
// date rule to every date-suffixed key. Payload values are the native JSON
// types; dates are already strings. The first violation is returned as a
// validation-kind error.
func validateCall(op string, payload map[string]interface{}) error {
	entry, known := operations[op]
	if known {
		var missing []string
		for _, name := range entry.required {
			if _, ok := payload[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return &Error{
				Kind: KindValidation,
				Op:   op,
				Message: fmt.Sprintf("missing required parameters: %s",
					strings.Join(missing, ", ")),
			}
		}
		allowed := make(map[string]struct{})
		for _, name := range entry.required {
			allowed[name] = struct{}{}
		}
		for _, name := range entry.optional {
			allowed[name] = struct{}{}
		}
		var extra []string
		for k := range payload {
			if _, ok := allowed[k]; !ok {
				extra = append(extra, k)
			}
		}
		if len(extra) > 0 {
			slices.Sort(extra)
			return &Error{
				Kind: KindValidation,
				Op:   op,
				Message: fmt.Sprintf("unsupported parameters for %s: %s",
					op, strings.Join(extra, ", ")),
			}
		}
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := payload[k]
		if strings.HasSuffix(strings.ToLower(k), "date") {
			s, ok := v.(string)
			form := entry.dates[k] // zero value = dateStrict
			if !ok || !validDate(s, form) {
				return &Error{
					Kind:    KindValidation,
					Op:      op,
					Message: fmt.Sprintf("incorrect date format for %v", v),
				}
			}
		}
		if !known {
			continue
		}
		if choices, ok := entry.choices[k]; ok {
			s, isStr := v.(string)
			if !isStr || !message.StringIn(s, choices...) {
				return &Error{
					Kind: KindValidation,
					Op:   op,
					Message: fmt.Sprintf("parameter '%s' must be one of %s, got '%v'",
						k, strings.Join(choices, ", "), v),
				}
			}
		}
		if bounds, ok := entry.bounds[k]; ok {
			i, isInt := v.(int)
			if !isInt || i < bounds[0] || i > bounds[1] {
				return &Error{
					Kind: KindValidation,
					Op:   op,
					Message: fmt.Sprintf("parameter '%s' must be an int in [%d, %d], got %v",
						k, bounds[0], bounds[1], v),
				}
			}
		}
	}
	return nil
}

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
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/jqdata/message"
)

// Date records a calendar date as year, month and day. The struct is designed
// to fit into 4 bytes. Its zero value means "unset", and such values are
// dropped from outgoing payloads.
type Date struct {
	YearVal  uint16
	MonthVal uint8
	DayVal   uint8
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = &Date{}
var _ message.Message = &Date{}

// NewDate is the constructor for Date.
func NewDate(year uint16, month, day uint8) Date {
	return Date{year, month, day}
}

// NewDateFromTime creates a Date instance from a time.Time value in its
// location.
func NewDateFromTime(t time.Time) Date {
	return Date{
		YearVal:  uint16(t.Year()),
		MonthVal: uint8(t.Month()),
		DayVal:   uint8(t.Day()),
	}
}

// NewDateFromString creates a Date instance from its string representation,
// strictly YYYY-MM-DD with a real calendar check.
func NewDateFromString(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, errors.Annotate(err, "failed to parse a Date string: '%s'", s)
	}
	return NewDateFromTime(t), nil
}

// DateInShanghai returns the date of the given instant in the exchange
// timezone. The service's trading days and token expiry follow it.
func DateInShanghai(now time.Time) Date {
	tz := "Asia/Shanghai"
	location, err := time.LoadLocation(tz)
	if err != nil {
		panic(errors.Annotate(err, "failed to load timezone %s", tz))
	}
	return NewDateFromTime(now.In(location))
}

func (d Date) Year() uint16 { return d.YearVal }
func (d Date) Month() uint8 { return d.MonthVal }
func (d Date) Day() uint8   { return d.DayVal }

// Quarter of the year containing the date, 1 through 4; 0 for a zero Date.
func (d Date) Quarter() uint8 {
	if d.IsZero() {
		return 0
	}
	return (d.Month()-1)/3 + 1
}

// String representation of the value.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. NOTE: unlike other methods, this
// is a pointer method.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Date JSON must be a string")
	}
	date, err := NewDateFromString(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse Date string")
	}
	*d = date
	return nil
}

// InitMessage implements message.Message.
func (d *Date) InitMessage(js interface{}) error {
	switch s := js.(type) {
	case string:
		date, err := NewDateFromString(s)
		if err != nil {
			return errors.Annotate(err, "failed to parse Date string")
		}
		*d = date
	case map[string]interface{}:
		*d = Date{}
	default:
		return errors.Reason("expected a string or {}, got %v", js)
	}
	return nil
}

// ToTime converts Date to time.Time in UTC.
func (d Date) ToTime() time.Time {
	return time.Date(int(d.Year()), time.Month(d.Month()), int(d.Day()), 0, 0, 0, 0, time.UTC)
}

// Before compares two Date objects for strict inequality (self < d2).
func (d Date) Before(d2 Date) bool {
	if d.Year() != d2.Year() {
		return d.Year() < d2.Year()
	}
	if d.Month() != d2.Month() {
		return d.Month() < d2.Month()
	}
	return d.Day() < d2.Day()
}

// After compares two Date objects for strict inequality, self > d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

// IsZero checks whether the date has a zero value.
func (d Date) IsZero() bool {
	return d.Year() == 0 && d.Month() == 0 && d.Day() == 0
}

// InRange checks if d is in the inclusive date range. Any of the bounds may be
// zero value, in which case it's ignored.
func (d Date) InRange(start, end Date) bool {
	if d.IsZero() {
		return false
	}
	if !start.IsZero() && start.After(d) {
		return false
	}
	if !end.IsZero() && end.Before(d) {
		return false
	}
	return true
}

// DateTime is a Date with an optional intraday time component. The service
// distinguishes the date-only form from an explicit midnight: a date-only
// end bound means the end of that day, while "00:00:00" means midnight.
// Therefore the value remembers which form it was given and serializes it
// back unchanged. The zero value means "unset".
type DateTime struct {
	DateVal   Date
	HourVal   uint8
	MinuteVal uint8
	SecondVal uint8
	TimedVal  bool // false = date-only form
}

var _ json.Marshaler = DateTime{}
var _ json.Unmarshaler = &DateTime{}
var _ message.Message = &DateTime{}

// NewDateTime is the constructor for DateTime in its timed form.
func NewDateTime(year uint16, month, day, hour, minute, second uint8) DateTime {
	return DateTime{
		DateVal:   NewDate(year, month, day),
		HourVal:   hour,
		MinuteVal: minute,
		SecondVal: second,
		TimedVal:  true,
	}
}

// NewDateTimeFromDate creates the date-only form of DateTime.
func NewDateTimeFromDate(d Date) DateTime {
	return DateTime{DateVal: d}
}

// NewDateTimeFromString creates a DateTime from any of the service's
// representations: "YYYY-MM-DD HH:MM:SS", "YYYY-MM-DD HH:MM" or "YYYY-MM-DD".
func NewDateTimeFromString(s string) (DateTime, error) {
	for _, format := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(format, s); err == nil {
			return NewDateTime(uint16(t.Year()), uint8(t.Month()), uint8(t.Day()),
				uint8(t.Hour()), uint8(t.Minute()), uint8(t.Second())), nil
		}
	}
	d, err := NewDateFromString(s)
	if err != nil {
		return DateTime{}, errors.Annotate(err, "failed to parse a DateTime string: '%s'", s)
	}
	return NewDateTimeFromDate(d), nil
}

func (t DateTime) Date() Date    { return t.DateVal }
func (t DateTime) Hour() uint8   { return t.HourVal }
func (t DateTime) Minute() uint8 { return t.MinuteVal }
func (t DateTime) Second() uint8 { return t.SecondVal }
func (t DateTime) Timed() bool   { return t.TimedVal }

// String representation of the value, in the form it was constructed with.
func (t DateTime) String() string {
	if !t.Timed() {
		return t.Date().String()
	}
	return fmt.Sprintf("%s %02d:%02d:%02d",
		t.Date().String(), t.Hour(), t.Minute(), t.Second())
}

// IsZero checks whether the value is unset. The time component is ignored,
// since no real timestamp has a zero date.
func (t DateTime) IsZero() bool {
	return t.Date().IsZero()
}

// ToTime converts DateTime to time.Time in UTC.
func (t DateTime) ToTime() time.Time {
	return time.Date(int(t.Date().Year()), time.Month(t.Date().Month()),
		int(t.Date().Day()), int(t.Hour()), int(t.Minute()), int(t.Second()),
		0, time.UTC)
}

// Before compares two DateTime objects for strict inequality (self < t2). The
// date-only form compares as midnight.
func (t DateTime) Before(t2 DateTime) bool {
	return t.ToTime().Before(t2.ToTime())
}

// MarshalJSON implements json.Marshaler.
func (t DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *DateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "DateTime JSON must be a string")
	}
	dt, err := NewDateTimeFromString(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse DateTime string")
	}
	*t = dt
	return nil
}

// InitMessage implements message.Message.
func (t *DateTime) InitMessage(js interface{}) error {
	switch s := js.(type) {
	case string:
		dt, err := NewDateTimeFromString(s)
		if err != nil {
			return errors.Annotate(err, "failed to parse DateTime string")
		}
		*t = dt
	case map[string]interface{}:
		*t = DateTime{}
	default:
		return errors.Reason("expected a string or {}, got %v", js)
	}
	return nil
}

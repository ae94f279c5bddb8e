package types

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// DateValue is a calendar date densely encoded as a julian day number.
// The supported range is [0001-01-01, 9999-12-31]. Comparisons on the
// encoded integer order the same way the calendar does, which is what
// lets generated code compare dates as plain integers.
type DateValue struct {
	Value int32
}

// Julian Day Algorithm from the Calendar FAQ
func dateToInt(year, month, day uint) uint {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + (12 * a) - 3
	return day + ((153*m + 2) / 5) + (365 * y) + (y / 4) - (y / 100) + (y / 400) - 32045
}

// Julian Day Algorithm from the Calendar FAQ
func dateFromInt(date uint) (year, month, day uint) {
	a := date + 32044
	b := (4*a + 3) / 146097
	c := a - ((146097 * b) / 4)
	d := (4*c + 3) / 1461
	e := c - ((1461 * d) / 4)
	m := (5*e + 2) / 153

	day = e - ((153*m + 2) / 5) + 1
	month = m + 3 - (12 * (m / 10))
	year = (100 * b) + d - 4800 + (m / 10)
	return
}

// DateFromYMD builds a DateValue from calendar fields. Fields are not
// range checked; ParseDate is the checked entry point.
func DateFromYMD(year, month, day uint) DateValue {
	return DateValue{Value: int32(dateToInt(year, month, day))}
}

// YMD decodes the calendar fields.
func (d DateValue) YMD() (year, month, day uint) {
	return dateFromInt(uint(d.Value))
}

func (d DateValue) String() string {
	y, m, day := d.YMD()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

// ParseDate parses YYYY-MM-DD with optional leading/trailing blanks.
// Field ranges are checked (1<=m<=12, 1<=d<=31, y<=9999).
func ParseDate(s string) (DateValue, error) {
	fail := func() (DateValue, error) {
		return DateValue{}, errors.Newf("invalid date format: %q", s)
	}

	i, limit := 0, len(s)
	for i != limit && s[i] == ' ' {
		i++
	}
	for i != limit && s[limit-1] == ' ' {
		limit--
	}

	var year, month, day uint

	for {
		if i == limit {
			return fail()
		}
		c := s[i]
		i++
		if c == '-' {
			break
		}
		if c >= '0' && c <= '9' {
			year = 10*year + uint(c-'0')
		} else {
			return fail()
		}
	}
	for {
		if i == limit {
			return fail()
		}
		c := s[i]
		i++
		if c == '-' {
			break
		}
		if c >= '0' && c <= '9' {
			month = 10*month + uint(c-'0')
		} else {
			return fail()
		}
	}
	for i != limit {
		c := s[i]
		i++
		if c >= '0' && c <= '9' {
			day = 10*day + uint(c-'0')
		} else {
			return fail()
		}
	}

	if year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 {
		return fail()
	}
	return DateFromYMD(year, month, day), nil
}

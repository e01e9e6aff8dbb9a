// Package reports builds the spreadsheets behind the sales and catalog downloads.
package reports

import (
	"errors"
	"strings"
	"time"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	All     Period = "all"
)

var ErrUnknownPeriod = errors.New("period must be daily, weekly, monthly or all")

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly, All:
		return p, nil
	case "":
		return All, nil
	default:
		return "", ErrUnknownPeriod
	}
}

// Range returns the calendar window [from, to) of p containing now, in now's location.
// Weeks start on Monday. All returns zero bounds.
func (p Period) Range(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case Daily:
		from = time.Date(y, m, d, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 0, 1)
	case Weekly:
		offset := (int(now.Weekday()) + 6) % 7
		from = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 0, 7)
	case Monthly:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

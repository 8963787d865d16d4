package calendar

import (
	"fmt"

	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
)

type Kind int

const (
	FixedNoLeap  Kind = 1 // 365 days every year
	Fixed360     Kind = 2 // twelve months of 30 days, no leap day
	FixedAllLeap Kind = 3 // 366 days every year
	VariableLeap Kind = 4 // leap years decided by a rule
)

// gregorianReformYear is the first year the standard calendar follows the
// Gregorian leap rule.
const gregorianReformYear = 1582

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

type Calendar struct {
	name    string
	aliases []string
	kind    Kind
	isLeap  func(year int) bool
}

func (c *Calendar) Name() string {
	return c.name
}

func (c *Calendar) Aliases() []string {
	return append([]string{c.name}, c.aliases...)
}

func (c *Calendar) Kind() Kind {
	return c.kind
}

func (c *Calendar) IsLeap(year int) bool {
	return c.isLeap(year)
}

// HasLeapDay reports whether Feb 29 is a leap day slot in this calendar. In a
// 360-day calendar Feb 29 is an ordinary day.
func (c *Calendar) HasLeapDay() bool {
	return c.kind == VariableLeap || c.kind == FixedAllLeap
}

// YearLength is the length of the canonical year used to lay out calendar days.
func (c *Calendar) YearLength(ignoreFeb29 bool) int {
	switch c.kind {
	case Fixed360:
		return 360
	case FixedNoLeap:
		return 365
	default:
		if ignoreFeb29 {
			return 365
		}
		return 366
	}
}

func (c *Calendar) DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if c.kind == Fixed360 {
		return 30
	}
	if month == 2 && c.IsLeap(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

func (c *Calendar) Validate(date model.Date) error {
	if date.Month < 1 || date.Month > 12 || date.Day < 1 || date.Day > c.DaysInMonth(date.Year, date.Month) {
		return fmt.Errorf("%w: %v does not exist in calendar %s", common.ErrorInvalidSeries, date, c.name)
	}
	if date.Hour < 0 || date.Hour > 23 {
		return fmt.Errorf("%w: hour %d of %v", common.ErrorInvalidSeries, date.Hour, date)
	}
	return nil
}

func (c *Calendar) canonicalDaysInMonth(month int, ignoreFeb29 bool) int {
	if c.kind == Fixed360 {
		return 30
	}
	if month == 2 && c.YearLength(ignoreFeb29) == 366 {
		return 29
	}
	return daysPerMonth[month-1]
}

// DayOfYear returns the 0-based position of key in the canonical year.
func (c *Calendar) DayOfYear(key model.DayKey, ignoreFeb29 bool) (int, error) {
	if key.Month < 1 || key.Month > 12 || key.Day < 1 || key.Day > c.canonicalDaysInMonth(key.Month, ignoreFeb29) {
		return 0, fmt.Errorf("%w: day %v is not part of the canonical %s year",
			common.ErrorInvalidValue, key, c.name)
	}
	pos := 0
	for m := 1; m < key.Month; m++ {
		pos += c.canonicalDaysInMonth(m, ignoreFeb29)
	}
	return pos + key.Day - 1, nil
}

// KeyAt is the inverse of DayOfYear.
func (c *Calendar) KeyAt(pos int, ignoreFeb29 bool) (model.DayKey, error) {
	if pos < 0 || pos >= c.YearLength(ignoreFeb29) {
		return model.DayKey{}, fmt.Errorf("%w: day of year %d out of range", common.ErrorInvalidValue, pos)
	}
	month := 1
	for {
		n := c.canonicalDaysInMonth(month, ignoreFeb29)
		if pos < n {
			return model.DayKey{Month: month, Day: pos + 1}, nil
		}
		pos -= n
		month++
	}
}

func (c *Calendar) String() string {
	return c.name
}

// Days returns every date of the years [fromYear, toYear], in order.
func (c *Calendar) Days(fromYear, toYear int) []model.Date {
	res := []model.Date{}
	for y := fromYear; y <= toYear; y++ {
		for m := 1; m <= 12; m++ {
			n := c.DaysInMonth(y, m)
			for d := 1; d <= n; d++ {
				res = append(res, model.NewDate(y, m, d))
			}
		}
	}
	return res
}

package model

import (
	"fmt"
	"time"
)

// Date is a calendar-agnostic timestamp. It can hold dates that do not exist
// in the Gregorian calendar, like Feb 30 of a 360-day calendar.
type Date struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Hour: t.Hour()}
}

// Compare returns -1, 0 or 1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	case d.Day != other.Day:
		return sign(d.Day - other.Day)
	default:
		return sign(d.Hour - other.Hour)
	}
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) Key() DayKey {
	return DayKey{Month: d.Month, Day: d.Day}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DayKey identifies one calendar day slot of the canonical year.
type DayKey struct {
	Month int
	Day   int
}

var (
	LeapDay = DayKey{Month: 2, Day: 29}
	LeapEve = DayKey{Month: 2, Day: 28}
)

func (k DayKey) IsLeapDay() bool {
	return k == LeapDay
}

func (k DayKey) String() string {
	return fmt.Sprintf("%02d-%02d", k.Month, k.Day)
}

// ClimatologyBounds are the first and last dates of the reference period used.
type ClimatologyBounds struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func (b ClimatologyBounds) String() string {
	return fmt.Sprintf("[%v, %v]", b.Start, b.End)
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

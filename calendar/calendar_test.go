package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
)

func TestLookup(t *testing.T) {
	cases := map[string]*Calendar{
		"noleap":              NoLeap,
		"365_day":             NoLeap,
		"360_day":             Days360,
		"DAYS360":             Days360,
		"all_leap":            AllLeap,
		"366day":              AllLeap,
		"proleptic_gregorian": ProlepticGregorian,
		"julian":              Julian,
		"standard":            Standard,
		"Gregorian":           Standard,
		"":                    Standard,
		"none":                None,
	}
	for name, want := range cases {
		got, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Same(t, want, got, name)
	}

	_, err := Lookup("mayan")
	assert.ErrorIs(t, err, common.ErrorInvalidCalendar)
}

func TestIsLeap(t *testing.T) {
	cases := []struct {
		cal  *Calendar
		year int
		want bool
	}{
		{Standard, 2000, true},
		{Standard, 1900, false},
		{Standard, 1500, true},
		{Standard, 1582, false},
		{Standard, 1996, true},
		{ProlepticGregorian, 1500, false},
		{ProlepticGregorian, 1600, true},
		{Julian, 1900, true},
		{Julian, 1901, false},
		{NoLeap, 2000, false},
		{AllLeap, 2001, true},
		{Days360, 2000, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.cal.IsLeap(c.year), "%s %d", c.cal, c.year)
	}
}

func TestYearLength(t *testing.T) {
	assert.Equal(t, 365, NoLeap.YearLength(false))
	assert.Equal(t, 360, Days360.YearLength(false))
	assert.Equal(t, 360, Days360.YearLength(true))
	assert.Equal(t, 366, AllLeap.YearLength(false))
	assert.Equal(t, 365, AllLeap.YearLength(true))
	assert.Equal(t, 366, Standard.YearLength(false))
	assert.Equal(t, 365, Standard.YearLength(true))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, Standard.DaysInMonth(2000, 2))
	assert.Equal(t, 28, Standard.DaysInMonth(1900, 2))
	assert.Equal(t, 30, Days360.DaysInMonth(1900, 2))
	assert.Equal(t, 31, NoLeap.DaysInMonth(2001, 12))
	assert.Equal(t, 0, NoLeap.DaysInMonth(2001, 13))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Days360.Validate(model.NewDate(2001, 2, 30)))
	assert.ErrorIs(t, Standard.Validate(model.NewDate(2001, 2, 29)), common.ErrorInvalidSeries)
	assert.NoError(t, Standard.Validate(model.NewDate(2004, 2, 29)))
	assert.ErrorIs(t, NoLeap.Validate(model.Date{Year: 2001, Month: 1, Day: 1, Hour: 24}), common.ErrorInvalidSeries)
}

func TestDayOfYear(t *testing.T) {
	pos, err := Standard.DayOfYear(model.DayKey{Month: 3, Day: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, 60, pos)

	pos, err = Standard.DayOfYear(model.DayKey{Month: 3, Day: 1}, true)
	require.NoError(t, err)
	assert.Equal(t, 59, pos)

	pos, err = Days360.DayOfYear(model.DayKey{Month: 12, Day: 30}, false)
	require.NoError(t, err)
	assert.Equal(t, 359, pos)

	_, err = Standard.DayOfYear(model.LeapDay, true)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = NoLeap.DayOfYear(model.LeapDay, false)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestKeyAtRoundTrip(t *testing.T) {
	for _, cal := range All() {
		for _, ignore := range []bool{false, true} {
			n := cal.YearLength(ignore)
			for pos := 0; pos < n; pos++ {
				key, err := cal.KeyAt(pos, ignore)
				require.NoError(t, err)
				back, err := cal.DayOfYear(key, ignore)
				require.NoError(t, err)
				require.Equal(t, pos, back, "%s ignore=%v key=%v", cal, ignore, key)
			}
			_, err := cal.KeyAt(n, ignore)
			assert.Error(t, err)
		}
	}
}

func TestDays(t *testing.T) {
	assert.Len(t, Standard.Days(2000, 2001), 366+365)
	assert.Len(t, Days360.Days(2000, 2001), 720)
	assert.Len(t, AllLeap.Days(2001, 2001), 366)

	days := NoLeap.Days(2001, 2001)
	assert.Equal(t, model.NewDate(2001, 1, 1), days[0])
	assert.Equal(t, model.NewDate(2001, 12, 31), days[364])
}

package doy

import (
	"fmt"
	"sort"

	"github.com/uyouii/doy-percentiles/calendar"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
)

// Index maps the timestamps of a reference period to calendar day keys.
//
// Positions handed out by the index are "flat" positions: the order of the
// timestamps once Feb 29 has been dropped (when ignored). Row converts a flat
// position back to a row of the original series.
type Index struct {
	cal         *calendar.Calendar
	ignoreFeb29 bool

	rows    []int
	keysOf  []model.DayKey
	yearsOf []int

	positions map[int]map[model.DayKey]int
	keys      []model.DayKey
	doys      map[model.DayKey]int
	years     []int
	bounds    model.ClimatologyBounds
}

func NewIndex(cal *calendar.Calendar, dates []model.Date, ignoreFeb29 bool) (*Index, error) {
	if cal == nil {
		return nil, fmt.Errorf("%w: nil calendar", common.ErrorInvalidCalendar)
	}

	idx := &Index{
		cal:         cal,
		ignoreFeb29: ignoreFeb29,
		rows:        make([]int, 0, len(dates)),
		keysOf:      make([]model.DayKey, 0, len(dates)),
		yearsOf:     make([]int, 0, len(dates)),
		positions:   map[int]map[model.DayKey]int{},
		doys:        map[model.DayKey]int{},
	}
	dropLeapDay := ignoreFeb29 && cal.HasLeapDay()

	for row, date := range dates {
		if err := cal.Validate(date); err != nil {
			return nil, err
		}
		key := date.Key()
		if dropLeapDay && key.IsLeapDay() {
			continue
		}

		byKey, ok := idx.positions[date.Year]
		if !ok {
			byKey = map[model.DayKey]int{}
			idx.positions[date.Year] = byKey
			idx.years = append(idx.years, date.Year)
		}
		if _, ok := byKey[key]; ok {
			return nil, fmt.Errorf("%w: more than one timestamp for %v", common.ErrorInvalidSeries, date)
		}

		if _, ok := idx.doys[key]; !ok {
			pos, err := cal.DayOfYear(key, ignoreFeb29)
			if err != nil {
				return nil, err
			}
			idx.doys[key] = pos
			idx.keys = append(idx.keys, key)
		}

		byKey[key] = len(idx.rows)
		idx.rows = append(idx.rows, row)
		idx.keysOf = append(idx.keysOf, key)
		idx.yearsOf = append(idx.yearsOf, date.Year)
	}

	if len(idx.rows) == 0 {
		return nil, fmt.Errorf("%w: no usable timestamps", common.ErrorInsufficientReferencePeriod)
	}

	sort.Slice(idx.keys, func(i, j int) bool {
		return idx.doys[idx.keys[i]] < idx.doys[idx.keys[j]]
	})
	sort.Ints(idx.years)
	idx.bounds = model.ClimatologyBounds{
		Start: dates[idx.rows[0]],
		End:   dates[idx.rows[len(idx.rows)-1]],
	}
	return idx, nil
}

func (idx *Index) Calendar() *calendar.Calendar {
	return idx.cal
}

func (idx *Index) IgnoreFeb29() bool {
	return idx.ignoreFeb29
}

// Len is the number of flat positions.
func (idx *Index) Len() int {
	return len(idx.rows)
}

// Keys returns the distinct calendar days, ordered by day of year.
func (idx *Index) Keys() []model.DayKey {
	return append([]model.DayKey(nil), idx.keys...)
}

func (idx *Index) Years() []int {
	return append([]int(nil), idx.years...)
}

func (idx *Index) Bounds() model.ClimatologyBounds {
	return idx.bounds
}

func (idx *Index) YearLength() int {
	return idx.cal.YearLength(idx.ignoreFeb29)
}

// DayOfYear returns the canonical position of a key present in the index.
func (idx *Index) DayOfYear(key model.DayKey) (int, bool) {
	pos, ok := idx.doys[key]
	return pos, ok
}

func (idx *Index) Row(flat int) int {
	return idx.rows[flat]
}

func (idx *Index) KeyOf(flat int) model.DayKey {
	return idx.keysOf[flat]
}

func (idx *Index) YearOf(flat int) int {
	return idx.yearsOf[flat]
}

// Position returns the flat position of key in year.
func (idx *Index) Position(year int, key model.DayKey) (int, bool) {
	pos, ok := idx.positions[year][key]
	return pos, ok
}

// YearPositions returns the flat positions of one year, in order.
func (idx *Index) YearPositions(year int) []int {
	byKey := idx.positions[year]
	res := make([]int, 0, len(byKey))
	for _, pos := range byKey {
		res = append(res, pos)
	}
	sort.Ints(res)
	return res
}

// LeapYears returns the reference years that are leap years.
func (idx *Index) LeapYears() []int {
	res := []int{}
	for _, y := range idx.years {
		if idx.cal.IsLeap(y) {
			res = append(res, y)
		}
	}
	return res
}

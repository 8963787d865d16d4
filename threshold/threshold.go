package threshold

import (
	"github.com/uyouii/doy-percentiles/doy"
	"github.com/uyouii/doy-percentiles/model"
)

// Threshold holds, for every calendar day of the reference period, one grid
// per requested percentile. It is immutable once computed.
type Threshold struct {
	percentiles   []float64
	calendar      string
	yearLength    int
	windowWidth   int
	interpolation string
	ignoreFeb29   bool
	shape         []int
	bounds        model.ClimatologyBounds

	keys   []model.DayKey
	doys   []int
	byKey  map[model.DayKey]int
	byDoy  map[int]int
	values [][]*model.Grid
}

type meta struct {
	percentiles   []float64
	windowWidth   int
	interpolation string
	shape         []int
}

func newThreshold(idx *doy.Index, m meta) *Threshold {
	keys := idx.Keys()
	t := &Threshold{
		percentiles:   append([]float64(nil), m.percentiles...),
		calendar:      idx.Calendar().Name(),
		yearLength:    idx.YearLength(),
		windowWidth:   m.windowWidth,
		interpolation: m.interpolation,
		ignoreFeb29:   idx.IgnoreFeb29(),
		shape:         append([]int(nil), m.shape...),
		bounds:        idx.Bounds(),
		keys:          keys,
		doys:          make([]int, len(keys)),
		byKey:         make(map[model.DayKey]int, len(keys)),
		byDoy:         make(map[int]int, len(keys)),
		values:        make([][]*model.Grid, len(keys)),
	}
	for i, key := range keys {
		pos, _ := idx.DayOfYear(key)
		t.doys[i] = pos
		t.byKey[key] = i
		t.byDoy[pos] = i
	}
	return t
}

func (t *Threshold) Percentiles() []float64 {
	return append([]float64(nil), t.percentiles...)
}

func (t *Threshold) Calendar() string {
	return t.calendar
}

func (t *Threshold) YearLength() int {
	return t.yearLength
}

func (t *Threshold) WindowWidth() int {
	return t.windowWidth
}

func (t *Threshold) Interpolation() string {
	return t.interpolation
}

func (t *Threshold) IgnoreFeb29() bool {
	return t.ignoreFeb29
}

func (t *Threshold) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Bounds are the first and last dates of the reference period actually used.
func (t *Threshold) Bounds() model.ClimatologyBounds {
	return t.bounds
}

// Keys returns the calendar days of the threshold, ordered by day of year.
func (t *Threshold) Keys() []model.DayKey {
	return append([]model.DayKey(nil), t.keys...)
}

// DoyCoordinate returns the 0-based day of year of each key of Keys.
func (t *Threshold) DoyCoordinate() []int {
	return append([]int(nil), t.doys...)
}

func (t *Threshold) Len() int {
	return len(t.keys)
}

// Get returns the grid of the first percentile for key, nil when key is not
// part of the threshold.
func (t *Threshold) Get(key model.DayKey) *model.Grid {
	return t.GetPercentile(key, 0)
}

func (t *Threshold) GetPercentile(key model.DayKey, percentile int) *model.Grid {
	i, ok := t.byKey[key]
	if !ok || percentile < 0 || percentile >= len(t.percentiles) {
		return nil
	}
	return t.values[i][percentile]
}

// GetDoy returns the grids of every percentile at day of year pos.
func (t *Threshold) GetDoy(pos int) []*model.Grid {
	i, ok := t.byDoy[pos]
	if !ok {
		return nil
	}
	return append([]*model.Grid(nil), t.values[i]...)
}

// PeriodThreshold is a percentile computed over the whole reference period,
// without day of year windows.
type PeriodThreshold struct {
	Percentiles   []float64
	Interpolation string
	Bounds        model.ClimatologyBounds
	Values        []*model.Grid
}

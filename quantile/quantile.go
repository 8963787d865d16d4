package quantile

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
)

// Percentile returns the p-th percentile, 0 <= p <= 100, of values. NaN values
// are skipped, NaN is returned when nothing is left.
func Percentile(values []float64, p float64, interp *Interpolation) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)
	return interp.Quantile(sorted, p/100)
}

func CheckPercentiles(percentiles []float64) error {
	if len(percentiles) == 0 {
		return fmt.Errorf("%w: no percentile requested", common.ErrorInvalidPercentile)
	}
	for _, p := range percentiles {
		if math.IsNaN(p) || p < MinPercentile || p > MaxPercentile {
			return fmt.Errorf("%w: %v is outside [%v, %v]", common.ErrorInvalidPercentile, p, MinPercentile, MaxPercentile)
		}
	}
	return nil
}

type Option func(*Calculator)

// WithWetDays keeps only values >= threshold, the way precipitation
// percentiles are computed on wet days.
func WithWetDays(threshold float64) Option {
	return func(c *Calculator) {
		c.onlyWetDays = true
		c.wetDayThreshold = threshold
	}
}

// Calculator computes per-cell percentiles of a set of series rows.
type Calculator struct {
	interp          *Interpolation
	percentiles     []float64
	onlyWetDays     bool
	wetDayThreshold float64
}

func NewCalculator(interp *Interpolation, percentiles []float64, opts ...Option) (*Calculator, error) {
	if interp == nil {
		return nil, fmt.Errorf("%w: nil interpolation", common.ErrorInvalidInterpolation)
	}
	if err := CheckPercentiles(percentiles); err != nil {
		return nil, err
	}
	c := &Calculator{
		interp:      interp,
		percentiles: append([]float64(nil), percentiles...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Calculator) Interpolation() *Interpolation {
	return c.interp
}

func (c *Calculator) Percentiles() []float64 {
	return append([]float64(nil), c.percentiles...)
}

// Compute returns one grid per percentile. Missing values only affect their
// own cell, a cell without any valid value is missing in every grid.
func (c *Calculator) Compute(series *model.Series, rows []int) []*model.Grid {
	grids := make([]*model.Grid, len(c.percentiles))
	for i := range grids {
		grids[i] = model.NewGrid(series.Shape)
	}

	buf := make([]float64, 0, len(rows))
	for cell := 0; cell < series.Cells(); cell++ {
		buf = buf[:0]
		for _, row := range rows {
			v, ok := series.Value(row, cell)
			if !ok || (c.onlyWetDays && v < c.wetDayThreshold) {
				continue
			}
			buf = append(buf, v)
		}

		if len(buf) == 0 {
			for _, g := range grids {
				g.SetMissing(cell)
			}
			continue
		}

		sort.Float64s(buf)
		for i, p := range c.percentiles {
			grids[i].Set(cell, c.interp.Quantile(buf, p/100))
		}
	}
	return grids
}

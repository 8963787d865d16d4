package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/uyouii/doy-percentiles/common"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// Series is the reference period block: one row per timestamp, one column per
// spatial cell. Missing marks (row*cells + cell) positions.
type Series struct {
	Calendar string
	Dates    []Date
	Shape    []int
	Data     *mat.Dense
	Missing  *bitset.BitSet
}

type seriesOptions struct {
	fillValue *float64
	mask      [][]bool
}

type SeriesOption func(*seriesOptions)

// WithFillValue marks every value equal to v as missing.
func WithFillValue(v float64) SeriesOption {
	return func(o *seriesOptions) {
		o.fillValue = &v
	}
}

// WithMask supplies an explicit missing mask, true means missing.
func WithMask(mask [][]bool) SeriesOption {
	return func(o *seriesOptions) {
		o.mask = mask
	}
}

func NewSeries(calendar string, dates []Date, shape []int, rows [][]float64, opts ...SeriesOption) (*Series, error) {
	options := &seriesOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no timestamps", common.ErrorInvalidSeries)
	}
	if len(rows) != len(dates) {
		return nil, fmt.Errorf("%w: %d rows for %d timestamps", common.ErrorInvalidSeries, len(rows), len(dates))
	}
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("%w: shape %v", common.ErrorInvalidSeries, shape)
		}
	}
	if options.mask != nil && len(options.mask) != len(rows) {
		return nil, fmt.Errorf("%w: mask has %d rows for %d timestamps",
			common.ErrorInvalidSeries, len(options.mask), len(rows))
	}

	cells := CellCount(shape)
	var errs error
	for t := range rows {
		if len(rows[t]) != cells {
			errs = multierr.Append(errs, fmt.Errorf("%w: row %d (%v) has %d cells, want %d",
				common.ErrorInvalidSeries, t, dates[t], len(rows[t]), cells))
		}
		if options.mask != nil && len(options.mask[t]) != cells {
			errs = multierr.Append(errs, fmt.Errorf("%w: mask row %d has %d cells, want %d",
				common.ErrorInvalidSeries, t, len(options.mask[t]), cells))
		}
		if t > 0 && !dates[t-1].Before(dates[t]) {
			errs = multierr.Append(errs, fmt.Errorf("%w: timestamps not strictly increasing at %v",
				common.ErrorInvalidSeries, dates[t]))
		}
	}
	if errs != nil {
		return nil, errs
	}

	data := mat.NewDense(len(rows), cells, nil)
	missing := bitset.New(uint(len(rows) * cells))
	for t, row := range rows {
		for c, v := range row {
			isMissing := math.IsNaN(v) ||
				(options.fillValue != nil && v == *options.fillValue) ||
				(options.mask != nil && options.mask[t][c])
			if isMissing {
				missing.Set(uint(t*cells + c))
				continue
			}
			data.Set(t, c, v)
		}
	}

	return &Series{
		Calendar: calendar,
		Dates:    append([]Date(nil), dates...),
		Shape:    append([]int(nil), shape...),
		Data:     data,
		Missing:  missing,
	}, nil
}

func (s *Series) Len() int {
	return len(s.Dates)
}

func (s *Series) Cells() int {
	_, c := s.Data.Dims()
	return c
}

// Value returns the value at row t and cell c, ok is false when missing.
func (s *Series) Value(t, c int) (float64, bool) {
	if s.Missing.Test(uint(t*s.Cells() + c)) {
		return 0, false
	}
	return s.Data.At(t, c), true
}

// Years returns the distinct years of the series in increasing order.
func (s *Series) Years() []int {
	years := []int{}
	for _, d := range s.Dates {
		if len(years) == 0 || years[len(years)-1] != d.Year {
			years = append(years, d.Year)
		}
	}
	return years
}

func (s *Series) Bounds() ClimatologyBounds {
	return ClimatologyBounds{Start: s.Dates[0], End: s.Dates[len(s.Dates)-1]}
}

// Subset returns the rows whose year is within [fromYear, toYear]. The data is
// shared with s.
func (s *Series) Subset(fromYear, toYear int) (*Series, error) {
	lo := sort.Search(len(s.Dates), func(i int) bool { return s.Dates[i].Year >= fromYear })
	hi := sort.Search(len(s.Dates), func(i int) bool { return s.Dates[i].Year > toYear })
	if lo >= hi {
		return nil, fmt.Errorf("%w: no timestamps in [%d, %d]", common.ErrorInsufficientReferencePeriod, fromYear, toYear)
	}

	cells := s.Cells()
	missing := bitset.New(uint((hi - lo) * cells))
	for i := lo * cells; i < hi*cells; i++ {
		if s.Missing.Test(uint(i)) {
			missing.Set(uint(i - lo*cells))
		}
	}

	return &Series{
		Calendar: s.Calendar,
		Dates:    s.Dates[lo:hi],
		Shape:    s.Shape,
		Data:     s.Data.Slice(lo, hi, 0, cells).(*mat.Dense),
		Missing:  missing,
	}, nil
}

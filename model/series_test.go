package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/doy-percentiles/common"
)

func dates(year int, days int) []Date {
	res := []Date{}
	for d := 1; d <= days; d++ {
		res = append(res, NewDate(year, 1, d))
	}
	return res
}

func TestNewSeries(t *testing.T) {
	ds := append(dates(2001, 3), dates(2002, 2)...)
	rows := [][]float64{{1, 2}, {3, math.NaN()}, {-99, 4}, {5, 6}, {7, 8}}

	s, err := NewSeries("noleap", ds, []int{2}, rows, WithFillValue(-99),
		WithMask([][]bool{{false, false}, {false, false}, {false, false}, {false, true}, {false, false}}))
	require.NoError(t, err)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 2, s.Cells())
	assert.Equal(t, []int{2001, 2002}, s.Years())
	assert.Equal(t, ClimatologyBounds{Start: NewDate(2001, 1, 1), End: NewDate(2002, 1, 2)}, s.Bounds())

	v, ok := s.Value(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	for _, pos := range [][2]int{{1, 1}, {2, 0}, {3, 1}} {
		_, ok := s.Value(pos[0], pos[1])
		assert.False(t, ok, "%v", pos)
	}
}

func TestNewSeriesErrors(t *testing.T) {
	_, err := NewSeries("noleap", nil, nil, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidSeries)

	_, err = NewSeries("noleap", dates(2001, 2), nil, [][]float64{{1}})
	assert.ErrorIs(t, err, common.ErrorInvalidSeries)

	_, err = NewSeries("noleap", dates(2001, 1), []int{0}, [][]float64{{}})
	assert.ErrorIs(t, err, common.ErrorInvalidSeries)

	_, err = NewSeries("noleap", dates(2001, 2), nil, [][]float64{{1}, {2}}, WithMask([][]bool{{false}}))
	assert.ErrorIs(t, err, common.ErrorInvalidSeries)

	// both the cell count and the order are reported
	ds := []Date{NewDate(2001, 1, 2), NewDate(2001, 1, 1)}
	_, err = NewSeries("noleap", ds, nil, [][]float64{{1}, {2, 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorInvalidSeries)
	assert.Contains(t, err.Error(), "has 2 cells")
	assert.Contains(t, err.Error(), "not strictly increasing")
}

func TestSeriesSubset(t *testing.T) {
	ds := append(append(dates(2001, 2), dates(2002, 2)...), dates(2003, 2)...)
	rows := [][]float64{{1}, {2}, {3}, {math.NaN()}, {5}, {6}}
	s, err := NewSeries("standard", ds, nil, rows)
	require.NoError(t, err)

	sub, err := s.Subset(2002, 2003)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.Len())
	assert.Equal(t, []int{2002, 2003}, sub.Years())
	assert.Equal(t, "standard", sub.Calendar)

	v, ok := sub.Value(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	_, ok = sub.Value(1, 0)
	assert.False(t, ok)
	v, _ = sub.Value(3, 0)
	assert.Equal(t, 6.0, v)

	_, err = s.Subset(1990, 2000)
	assert.ErrorIs(t, err, common.ErrorInsufficientReferencePeriod)
}

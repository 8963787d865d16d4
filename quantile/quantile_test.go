package quantile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
	"gonum.org/v1/gonum/floats"
)

func oneToTen() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func TestLookup(t *testing.T) {
	for name, want := range map[string]*Interpolation{
		"linear":          Linear,
		"median_unbiased": MedianUnbiased,
		"hyndman_fan":     MedianUnbiased,
		"Empirical":       Empirical,
	} {
		got, err := Lookup(name)
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
	_, err := Lookup("nearest")
	assert.ErrorIs(t, err, common.ErrorInvalidInterpolation)
}

func TestQuantileLinear(t *testing.T) {
	assert.InDelta(t, 2.5, Linear.Quantile([]float64{1, 2, 3, 4}, 0.5), 1e-12)
	assert.InDelta(t, 9.1, Linear.Quantile(oneToTen(), 0.9), 1e-12)
	assert.InDelta(t, 1.9, Linear.Quantile(oneToTen(), 0.1), 1e-12)
	assert.Equal(t, 1.0, Linear.Quantile(oneToTen(), 0))
	assert.Equal(t, 10.0, Linear.Quantile(oneToTen(), 1))
}

func TestQuantileMedianUnbiased(t *testing.T) {
	assert.InDelta(t, 9.633333333333333, MedianUnbiased.Quantile(oneToTen(), 0.9), 1e-9)
	assert.InDelta(t, 1.366666666666667, MedianUnbiased.Quantile(oneToTen(), 0.1), 1e-9)
	assert.InDelta(t, 5.5, MedianUnbiased.Quantile(oneToTen(), 0.5), 1e-12)
	assert.Equal(t, 1.0, MedianUnbiased.Quantile(oneToTen(), 0))
	assert.Equal(t, 10.0, MedianUnbiased.Quantile(oneToTen(), 1))
}

func TestQuantileEmpirical(t *testing.T) {
	assert.Equal(t, 2.0, Empirical.Quantile([]float64{1, 2, 3, 4}, 0.5))
	assert.Equal(t, 1.0, Empirical.Quantile([]float64{1, 2, 3, 4}, 0))
	assert.Equal(t, 4.0, Empirical.Quantile([]float64{1, 2, 3, 4}, 1))
}

func TestQuantileSingleValue(t *testing.T) {
	for _, interp := range registry {
		assert.Equal(t, 7.0, interp.Quantile([]float64{7}, 0.9), interp.Name)
		assert.True(t, math.IsNaN(interp.Quantile(nil, 0.9)), interp.Name)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, math.NaN(), 1, 5, 3, math.NaN(), 2, 9, 4, 8, 7, 6}
	assert.InDelta(t, 9.1, Percentile(values, 90, Linear), 1e-12)
	assert.True(t, math.IsNaN(Percentile([]float64{math.NaN()}, 50, Linear)))

	// input is left untouched
	assert.Equal(t, 10.0, values[0])
}

func TestCheckPercentiles(t *testing.T) {
	assert.NoError(t, CheckPercentiles([]float64{0, 10, 90, 100}))
	assert.ErrorIs(t, CheckPercentiles(nil), common.ErrorInvalidPercentile)
	assert.ErrorIs(t, CheckPercentiles([]float64{101}), common.ErrorInvalidPercentile)
	assert.ErrorIs(t, CheckPercentiles([]float64{-1}), common.ErrorInvalidPercentile)
	assert.ErrorIs(t, CheckPercentiles([]float64{math.NaN()}), common.ErrorInvalidPercentile)
}

func newSeries(t *testing.T, rows [][]float64, opts ...model.SeriesOption) *model.Series {
	t.Helper()
	dates := make([]model.Date, len(rows))
	for i := range rows {
		dates[i] = model.NewDate(2001, 1, i+1)
	}
	s, err := model.NewSeries("noleap", dates, []int{len(rows[0])}, rows, opts...)
	require.NoError(t, err)
	return s
}

func TestCalculatorMasksPerCell(t *testing.T) {
	const fill = -999.0
	s := newSeries(t, [][]float64{
		{1, fill, fill},
		{2, 10, fill},
		{3, 20, fill},
		{4, fill, fill},
	}, model.WithFillValue(fill))

	calc, err := NewCalculator(Linear, []float64{50, 100})
	require.NoError(t, err)
	grids := calc.Compute(s, []int{0, 1, 2, 3})
	require.Len(t, grids, 2)

	median, ok := grids[0].At(0)
	require.True(t, ok)
	assert.InDelta(t, 2.5, median, 1e-12)

	median, ok = grids[0].At(1)
	require.True(t, ok)
	assert.InDelta(t, 15, median, 1e-12)

	_, ok = grids[0].At(2)
	assert.False(t, ok)
	assert.Equal(t, 1, grids[1].MissingCount())

	maximum, _ := grids[1].At(0)
	assert.Equal(t, 4.0, maximum)
}

func TestCalculatorDuplicateRows(t *testing.T) {
	s := newSeries(t, [][]float64{{1}, {2}, {100}})
	calc, err := NewCalculator(Linear, []float64{50})
	require.NoError(t, err)

	grids := calc.Compute(s, []int{0, 0, 0, 1, 2})
	v, _ := grids[0].At(0)
	assert.Equal(t, 1.0, v)
}

func TestCalculatorWetDays(t *testing.T) {
	s := newSeries(t, [][]float64{{0}, {0.2}, {1}, {3}, {5}})
	calc, err := NewCalculator(Linear, []float64{0}, WithWetDays(DefaultWetDayThreshold))
	require.NoError(t, err)

	v, ok := calc.Compute(s, []int{0, 1, 2, 3, 4})[0].At(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	dry := newSeries(t, [][]float64{{0}, {0.5}})
	_, ok = calc.Compute(dry, []int{0, 1})[0].At(0)
	assert.False(t, ok)
}

func TestCalculatorMatchesPercentile(t *testing.T) {
	rows := [][]float64{}
	values := []float64{}
	for i := 0; i < 37; i++ {
		v := math.Sin(float64(i)) * 10
		rows = append(rows, []float64{v})
		values = append(values, v)
	}
	s := newSeries(t, rows)
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	for _, interp := range registry {
		calc, err := NewCalculator(interp, []float64{10, 50, 90})
		require.NoError(t, err)
		grids := calc.Compute(s, idx)
		got := make([]float64, len(grids))
		want := make([]float64, len(grids))
		for i, p := range calc.Percentiles() {
			got[i], _ = grids[i].At(0)
			want[i] = Percentile(values, p, interp)
		}
		assert.True(t, floats.EqualApprox(want, got, 1e-12), interp.Name)
	}
}

func TestNewCalculatorErrors(t *testing.T) {
	_, err := NewCalculator(nil, []float64{50})
	assert.ErrorIs(t, err, common.ErrorInvalidInterpolation)
	_, err = NewCalculator(Linear, []float64{150})
	assert.ErrorIs(t, err, common.ErrorInvalidPercentile)
}

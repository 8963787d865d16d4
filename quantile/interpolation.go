package quantile

import (
	"fmt"
	"math"
	"strings"

	"github.com/uyouii/doy-percentiles/common"
	"gonum.org/v1/gonum/stat"
)

// Interpolation is a quantile estimator of the Hyndman & Fan family, defined by
// its plotting position constants.
type Interpolation struct {
	Name    string
	Aliases []string
	Alpha   float64
	Beta    float64

	// empirical estimators pick an order statistic, no interpolation
	empirical bool
}

var (
	Linear = &Interpolation{
		Name:  "linear",
		Alpha: 1,
		Beta:  1,
	}
	MedianUnbiased = &Interpolation{
		Name:    "median_unbiased",
		Aliases: []string{"hyndman_fan"},
		Alpha:   1.0 / 3,
		Beta:    1.0 / 3,
	}
	Empirical = &Interpolation{
		Name:      "empirical",
		empirical: true,
	}
)

var registry = []*Interpolation{Linear, MedianUnbiased, Empirical}

func Lookup(name string) (*Interpolation, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	for _, interp := range registry {
		if interp.Name == query {
			return interp, nil
		}
		for _, alias := range interp.Aliases {
			if alias == query {
				return interp, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown interpolation %q", common.ErrorInvalidInterpolation, name)
}

// Quantile returns the q-th quantile, 0 <= q <= 1, of sorted values.
func (i *Interpolation) Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if i.empirical {
		return stat.Quantile(q, stat.Empirical, sorted, nil)
	}

	virtual := float64(n)*q + i.Alpha + q*(1-i.Alpha-i.Beta) - 1
	if virtual <= 0 {
		return sorted[0]
	}
	if virtual >= float64(n-1) {
		return sorted[n-1]
	}
	lower := math.Floor(virtual)
	g := virtual - lower
	j := int(lower)
	return sorted[j] + g*(sorted[j+1]-sorted[j])
}

func (i *Interpolation) String() string {
	return i.Name
}

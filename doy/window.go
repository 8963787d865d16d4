package doy

import (
	"fmt"

	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
)

// Substitution redirects a flat position to the position whose data must be
// read instead. ok is false when the position has no stand-in and must be
// left out of the window.
type Substitution interface {
	Map(flat int) (int, bool)
}

type Resolver struct {
	idx           *Index
	halfWidth     int
	onlyLeapYears bool
}

func NewResolver(idx *Index, windowWidth int, onlyLeapYears bool) (*Resolver, error) {
	if err := CheckWindowWidth(windowWidth, idx.YearLength()); err != nil {
		return nil, err
	}
	return &Resolver{
		idx:           idx,
		halfWidth:     windowWidth / 2,
		onlyLeapYears: onlyLeapYears,
	}, nil
}

// CheckWindowWidth accepts odd widths shorter than the year.
func CheckWindowWidth(windowWidth, yearLength int) error {
	if windowWidth < 1 || windowWidth%2 == 0 {
		return fmt.Errorf("%w: %d must be a positive odd number", common.ErrorInvalidWindowWidth, windowWidth)
	}
	if windowWidth >= yearLength {
		return fmt.Errorf("%w: %d must be smaller than the year length %d",
			common.ErrorInvalidWindowWidth, windowWidth, yearLength)
	}
	return nil
}

func (r *Resolver) Index() *Index {
	return r.idx
}

func (r *Resolver) HalfWidth() int {
	return r.halfWidth
}

// Window returns the flat positions pooled for key across every reference
// year. Duplicates are kept.
//
// A window reaching before the first timestamp wraps around to the end of the
// series, a window reaching past the last timestamp is truncated. The
// asymmetry is inherited from the legacy index arithmetic.
func (r *Resolver) Window(key model.DayKey, sub Substitution) []int {
	n := r.idx.Len()
	w := r.halfWidth
	res := make([]int, 0, (2*w+1)*len(r.idx.years))

	for _, year := range r.idx.years {
		lo, hi, ok := r.bounds(year, key)
		if !ok {
			continue
		}
		for k := lo; k <= hi; k++ {
			if k >= n {
				break
			}
			flat := k
			if flat < 0 {
				flat = ((flat % n) + n) % n
			}
			if sub != nil {
				if flat, ok = sub.Map(flat); !ok {
					continue
				}
			}
			res = append(res, flat)
		}
	}
	return res
}

// bounds returns the inclusive flat range contributed by year for key.
func (r *Resolver) bounds(year int, key model.DayKey) (int, int, bool) {
	w := r.halfWidth
	if key.IsLeapDay() && r.idx.cal.HasLeapDay() {
		if r.idx.cal.IsLeap(year) {
			c, ok := r.idx.Position(year, key)
			return c - w, c + w, ok
		}
		if r.onlyLeapYears {
			return 0, 0, false
		}
		// no Feb 29 in this year, the window is centred on Feb 28 and shifted
		// by one day so that it covers the days that follow it
		c, ok := r.idx.Position(year, model.LeapEve)
		return c - w + 1, c + w, ok
	}
	c, ok := r.idx.Position(year, key)
	return c - w, c + w, ok
}

// Rows returns the series rows of Window.
func (r *Resolver) Rows(key model.DayKey, sub Substitution) []int {
	window := r.Window(key, sub)
	rows := make([]int, len(window))
	for i, flat := range window {
		rows[i] = r.idx.Row(flat)
	}
	return rows
}

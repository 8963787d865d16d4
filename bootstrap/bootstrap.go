// Package bootstrap builds the year substitutions that keep a studied year out
// of its own percentile threshold.
//
// For every studied year that is also a reference year, one threshold is
// computed per other reference year: the studied year's data is replaced by
// the data of that substitute year, so the substitute contributes twice and
// the studied year not at all. Exceedances of the studied year are then
// averaged over all of those thresholds.
package bootstrap

import (
	"fmt"

	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/doy"
	"github.com/uyouii/doy-percentiles/model"
	"github.com/uyouii/doy-percentiles/utils"
)

// ShouldRun reports whether the studied period must be bootstrapped: it shares
// more than one year with the reference period and is not the reference
// period itself.
func ShouldRun(referenceYears, studiedYears []int) bool {
	overlap := utils.IntersectInts(referenceYears, studiedYears)
	return len(overlap) > 1 && !utils.SameInts(referenceYears, studiedYears)
}

// Substitution replaces the studied year of a reference period by a substitute
// year. It implements doy.Substitution.
type Substitution struct {
	Studied    int
	Substitute int

	remap map[int]int
}

func NewSubstitution(idx *doy.Index, studied, substitute int) (*Substitution, error) {
	years := idx.Years()
	if !utils.ContainsInt(years, studied) || !utils.ContainsInt(years, substitute) {
		return nil, fmt.Errorf("%w: years %d and %d must both be reference years",
			common.ErrorInsufficientReferencePeriod, studied, substitute)
	}
	if studied == substitute {
		return nil, fmt.Errorf("%w: year %d cannot substitute itself", common.ErrorInvalidValue, studied)
	}

	positions := idx.YearPositions(studied)
	remap := make(map[int]int, len(positions))
	for _, flat := range positions {
		key := idx.KeyOf(flat)
		target, ok := idx.Position(substitute, key)
		if !ok && key.IsLeapDay() {
			target, ok = idx.Position(substitute, model.LeapEve)
		}
		if !ok {
			target = -1
		}
		remap[flat] = target
	}

	return &Substitution{
		Studied:    studied,
		Substitute: substitute,
		remap:      remap,
	}, nil
}

func (s *Substitution) Map(flat int) (int, bool) {
	target, ok := s.remap[flat]
	if !ok {
		return flat, true
	}
	return target, target >= 0
}

func (s *Substitution) String() string {
	return fmt.Sprintf("%d<-%d", s.Studied, s.Substitute)
}

// Plan returns every substitution needed to bootstrap studiedYears, grouped by
// studied year. Studied years outside the reference period need none.
func Plan(idx *doy.Index, studiedYears []int) (map[int][]*Substitution, error) {
	referenceYears := idx.Years()
	if len(referenceYears) < 2 {
		return nil, fmt.Errorf("%w: bootstrapping needs at least two reference years, got %d",
			common.ErrorInsufficientReferencePeriod, len(referenceYears))
	}

	plan := map[int][]*Substitution{}
	for _, studied := range utils.IntersectInts(studiedYears, referenceYears) {
		for _, substitute := range referenceYears {
			if substitute == studied {
				continue
			}
			sub, err := NewSubstitution(idx, studied, substitute)
			if err != nil {
				return nil, err
			}
			plan[studied] = append(plan[studied], sub)
		}
	}
	return plan, nil
}

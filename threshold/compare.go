package threshold

import (
	"context"
	"fmt"
	"strings"

	"github.com/uyouii/doy-percentiles/calendar"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/model"
	"github.com/uyouii/doy-percentiles/utils"
	"go.uber.org/zap"
)

// Operator compares a studied value with its threshold.
type Operator struct {
	Name    string
	Aliases []string
	compare func(value, threshold float64) bool
}

var (
	Greater = &Operator{
		Name:    ">",
		Aliases: []string{"gt"},
		compare: func(v, t float64) bool { return v > t },
	}
	GreaterOrEqual = &Operator{
		Name:    ">=",
		Aliases: []string{"ge"},
		compare: func(v, t float64) bool { return v >= t },
	}
	Less = &Operator{
		Name:    "<",
		Aliases: []string{"lt"},
		compare: func(v, t float64) bool { return v < t },
	}
	LessOrEqual = &Operator{
		Name:    "<=",
		Aliases: []string{"le"},
		compare: func(v, t float64) bool { return v <= t },
	}
)

var operators = []*Operator{Greater, GreaterOrEqual, Less, LessOrEqual}

func LookupOperator(name string) (*Operator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range operators {
		if op.Name == name {
			return op, nil
		}
		for _, alias := range op.Aliases {
			if alias == name {
				return op, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", common.ErrorInvalidOperator, name)
}

func (o *Operator) Compare(value, threshold float64) bool {
	return o.compare(value, threshold)
}

func (o *Operator) String() string {
	return o.Name
}

// lookup returns the threshold grid used for a studied day. A leap day the
// threshold does not carry is compared with Feb 28.
func (t *Threshold) lookup(key model.DayKey, percentile int) *model.Grid {
	if g := t.GetPercentile(key, percentile); g != nil {
		return g
	}
	if key.IsLeapDay() {
		return t.GetPercentile(model.LeapEve, percentile)
	}
	return nil
}

// CountExceedances counts, per studied year and cell, the days whose value
// satisfies op against the threshold of the given percentile index. Years
// covered by bootstrapping get the mean count over every substitute
// threshold.
func CountExceedances(ctx context.Context, studied *model.Series, res *Result, op *Operator,
	percentile int) (map[int]*model.Grid, error) {
	logger := utils.GetLogger(ctx)

	years, err := checkStudied(studied, res, op, percentile)
	if err != nil {
		logger.Error("count exceedances failed", zap.Error(err))
		return nil, err
	}

	out := make(map[int]*model.Grid, len(years))
	for _, rows := range years {
		year := studied.Dates[rows[0]].Year
		out[year] = averageOver(studied, res.For(year), func(thr *Threshold, cell int) (float64, bool) {
			count, compared := 0, false
			for _, row := range rows {
				ok, valid := exceeds(studied, thr, op, percentile, row, cell)
				if !valid {
					continue
				}
				compared = true
				if ok {
					count++
				}
			}
			return float64(count), compared
		})
	}

	logger.Debug("count exceedances done", zap.Int("years", len(out)), zap.Stringer("operator", op))
	return out, nil
}

// exceeds reports whether the studied value at row satisfies op. valid is
// false when the value or its threshold is missing.
func exceeds(studied *model.Series, thr *Threshold, op *Operator, percentile, row, cell int) (bool, bool) {
	v, ok := studied.Value(row, cell)
	if !ok {
		return false, false
	}
	g := thr.lookup(studied.Dates[row].Key(), percentile)
	if g == nil {
		return false, false
	}
	t, ok := g.At(cell)
	if !ok {
		return false, false
	}
	return op.Compare(v, t), true
}

// perCell evaluates one threshold at one cell, ok is false when nothing could
// be evaluated.
type perCell func(thr *Threshold, cell int) (float64, bool)

func averageOver(studied *model.Series, thresholds []*Threshold, f perCell) *model.Grid {
	g := model.NewGrid(studied.Shape)
	for cell := 0; cell < g.Cells(); cell++ {
		sum, n := 0.0, 0
		for _, thr := range thresholds {
			v, ok := f(thr, cell)
			if !ok {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			g.SetMissing(cell)
			continue
		}
		g.Set(cell, sum/float64(n))
	}
	return g
}

// checkStudied validates the inputs and groups the studied rows by year.
func checkStudied(studied *model.Series, res *Result, op *Operator, percentile int) ([][]int, error) {
	if studied == nil || studied.Len() == 0 {
		return nil, fmt.Errorf("%w: empty studied series", common.ErrorInvalidSeries)
	}
	if res == nil || res.Threshold == nil {
		return nil, fmt.Errorf("%w: no threshold", common.ErrorInvalidValue)
	}
	if op == nil {
		return nil, fmt.Errorf("%w: nil operator", common.ErrorInvalidOperator)
	}
	if percentile < 0 || percentile >= len(res.Threshold.percentiles) {
		return nil, fmt.Errorf("%w: percentile index %d out of %d",
			common.ErrorInvalidPercentile, percentile, len(res.Threshold.percentiles))
	}
	cal, err := calendar.Lookup(studied.Calendar)
	if err != nil {
		return nil, err
	}
	if cal.Name() != res.Threshold.calendar {
		return nil, fmt.Errorf("%w: studied calendar %s, threshold calendar %s",
			common.ErrorInvalidCalendar, cal.Name(), res.Threshold.calendar)
	}
	if model.CellCount(studied.Shape) != model.CellCount(res.Threshold.shape) {
		return nil, fmt.Errorf("%w: studied shape %v, threshold shape %v",
			common.ErrorInvalidSeries, studied.Shape, res.Threshold.shape)
	}

	var years [][]int
	for row, d := range studied.Dates {
		if len(years) == 0 || studied.Dates[years[len(years)-1][0]].Year != d.Year {
			years = append(years, nil)
		}
		years[len(years)-1] = append(years[len(years)-1], row)
	}
	return years, nil
}

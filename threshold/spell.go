package threshold

import (
	"context"

	"github.com/uyouii/doy-percentiles/kernel"
	"github.com/uyouii/doy-percentiles/model"
	"github.com/uyouii/doy-percentiles/utils"
	"go.uber.org/zap"
)

// LongestSpell returns, per studied year and cell, the longest run of
// consecutive days satisfying op against the threshold. A missing value or
// threshold breaks the run. Bootstrapped years get the mean over every
// substitute threshold.
func LongestSpell(ctx context.Context, studied *model.Series, res *Result, op *Operator,
	percentile int, k kernel.RunKernel) (map[int]*model.Grid, error) {
	logger := utils.GetLogger(ctx)
	if k == nil {
		k = kernel.NewSequential()
	}

	years, err := checkStudied(studied, res, op, percentile)
	if err != nil {
		logger.Error("longest spell failed", zap.Error(err))
		return nil, err
	}

	out := make(map[int]*model.Grid, len(years))
	for _, rows := range years {
		year := studied.Dates[rows[0]].Year
		out[year] = averageOver(studied, res.For(year), func(thr *Threshold, cell int) (float64, bool) {
			compared := false
			longest := k.LongestRun(len(rows), func(i int) bool {
				ok, valid := exceeds(studied, thr, op, percentile, rows[i], cell)
				compared = compared || valid
				return ok
			})
			return float64(longest), compared
		})
	}

	logger.Debug("longest spell done", zap.Int("years", len(out)), zap.Stringer("operator", op))
	return out, nil
}

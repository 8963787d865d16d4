package threshold

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/uyouii/doy-percentiles/bootstrap"
	"github.com/uyouii/doy-percentiles/calendar"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/config"
	"github.com/uyouii/doy-percentiles/doy"
	"github.com/uyouii/doy-percentiles/model"
	"github.com/uyouii/doy-percentiles/quantile"
	"github.com/uyouii/doy-percentiles/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result of a day of year percentile computation.
//
// Bootstrap holds, for every studied year inside the reference period, the
// thresholds computed with that year replaced by each other reference year.
// It is empty when bootstrapping did not run.
type Result struct {
	Threshold *Threshold
	Bootstrap map[int]*BootstrapSet
}

type BootstrapSet struct {
	Studied     int
	Substitutes map[int]*Threshold
}

func (r *Result) Bootstrapped() bool {
	return len(r.Bootstrap) > 0
}

// For returns the thresholds a studied year must be compared against.
func (r *Result) For(year int) []*Threshold {
	set, ok := r.Bootstrap[year]
	if !ok {
		return []*Threshold{r.Threshold}
	}
	res := make([]*Threshold, 0, len(set.Substitutes))
	for _, substitute := range utils.UniqueInts(keysOf(set.Substitutes)) {
		res = append(res, set.Substitutes[substitute])
	}
	return res
}

func keysOf(m map[int]*Threshold) []int {
	res := make([]int, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	return res
}

type builder struct {
	series   *model.Series
	resolver *doy.Resolver
	calc     *quantile.Calculator
	meta     meta
	workers  int
}

// Compute builds the day of year percentile threshold of a reference period.
// Every configuration error is reported before any percentile is computed.
func Compute(ctx context.Context, series *model.Series, cfg *config.Config) (*Result, error) {
	logger := utils.GetLogger(ctx)
	begin := time.Now()

	b, idx, err := prepare(series, cfg)
	if err != nil {
		logger.Error("prepare percentile threshold failed", zap.Error(err))
		return nil, err
	}
	if cfg.OnlyLeapYears && !cfg.IgnoreFeb29th && idx.Calendar().HasLeapDay() && len(idx.LeapYears()) == 0 {
		err := fmt.Errorf("%w: only_leap_years is set but no reference year is a leap year",
			common.ErrorInsufficientReferencePeriod)
		logger.Error("prepare percentile threshold failed", zap.Error(err))
		return nil, err
	}

	var plan map[int][]*bootstrap.Substitution
	if cfg.Bootstrap {
		plan, err = planBootstrap(ctx, idx, cfg, b.calc.Interpolation())
		if err != nil {
			logger.Error("plan bootstrap failed", zap.Error(err))
			return nil, err
		}
	}

	logger.Info("begin compute percentile threshold",
		zap.String("calendar", idx.Calendar().Name()),
		zap.Int("years", len(idx.Years())),
		zap.Int("days", len(idx.Keys())),
		zap.Float64s("percentiles", cfg.Percentiles),
		zap.Int("windowWidth", cfg.WindowWidth),
		zap.String("interpolation", b.calc.Interpolation().Name),
		zap.Bool("bootstrap", plan != nil))

	plain, err := b.build(ctx, nil)
	if err != nil {
		logger.Error("compute percentile threshold failed", zap.Error(err))
		return nil, err
	}
	res := &Result{
		Threshold: plain,
		Bootstrap: map[int]*BootstrapSet{},
	}

	for _, studied := range utils.UniqueInts(planYears(plan)) {
		set := &BootstrapSet{
			Studied:     studied,
			Substitutes: map[int]*Threshold{},
		}
		for _, sub := range plan[studied] {
			thr, err := b.build(ctx, sub)
			if err != nil {
				logger.Error("compute bootstrapped threshold failed", zap.Stringer("substitution", sub), zap.Error(err))
				return nil, err
			}
			set.Substitutes[sub.Substitute] = thr
		}
		res.Bootstrap[studied] = set
		logger.Debug("bootstrapped year", zap.Int("year", studied), zap.Int("substitutes", len(set.Substitutes)))
	}

	logger.Info("compute percentile threshold done",
		zap.Int("bootstrappedYears", len(res.Bootstrap)),
		zap.Duration("cost", time.Since(begin)))
	return res, nil
}

// ComputePeriod computes percentiles over every value of the reference
// period. Period thresholds are never bootstrapped.
func ComputePeriod(ctx context.Context, series *model.Series, cfg *config.Config) (*PeriodThreshold, error) {
	logger := utils.GetLogger(ctx)

	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty reference period", common.ErrorInsufficientReferencePeriod)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", common.ErrorInvalidValue)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", zap.Error(err))
		return nil, err
	}
	if cfg.Bootstrap {
		logger.Info("bootstrap only applies to day of year thresholds, skipped")
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return nil, err
	}

	rows := make([]int, series.Len())
	for i := range rows {
		rows[i] = i
	}
	return &PeriodThreshold{
		Percentiles:   calc.Percentiles(),
		Interpolation: calc.Interpolation().Name,
		Bounds:        series.Bounds(),
		Values:        calc.Compute(series, rows),
	}, nil
}

func prepare(series *model.Series, cfg *config.Config) (*builder, *doy.Index, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: nil config", common.ErrorInvalidValue)
	}
	if series == nil || series.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: empty reference period", common.ErrorInsufficientReferencePeriod)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cal, err := calendar.Lookup(series.Calendar)
	if err != nil {
		return nil, nil, err
	}
	if err := doy.CheckWindowWidth(cfg.WindowWidth, cal.YearLength(cfg.IgnoreFeb29th)); err != nil {
		return nil, nil, err
	}
	calc, err := newCalculator(cfg)
	if err != nil {
		return nil, nil, err
	}

	idx, err := doy.NewIndex(cal, series.Dates, cfg.IgnoreFeb29th)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := doy.NewResolver(idx, cfg.WindowWidth, cfg.OnlyLeapYears)
	if err != nil {
		return nil, nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &builder{
		series:   series,
		resolver: resolver,
		calc:     calc,
		meta: meta{
			percentiles:   calc.Percentiles(),
			windowWidth:   cfg.WindowWidth,
			interpolation: calc.Interpolation().Name,
			shape:         series.Shape,
		},
		workers: workers,
	}, idx, nil
}

func newCalculator(cfg *config.Config) (*quantile.Calculator, error) {
	interp, err := quantile.Lookup(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	opts := []quantile.Option{}
	if cfg.WetDayThreshold != nil {
		opts = append(opts, quantile.WithWetDays(*cfg.WetDayThreshold))
	}
	return quantile.NewCalculator(interp, cfg.Percentiles, opts...)
}

// planBootstrap returns nil when the studied years do not call for
// bootstrapping.
func planBootstrap(ctx context.Context, idx *doy.Index, cfg *config.Config,
	interp *quantile.Interpolation) (map[int][]*bootstrap.Substitution, error) {
	logger := utils.GetLogger(ctx)

	if len(idx.Years()) < 2 {
		return nil, fmt.Errorf("%w: bootstrapping needs at least two reference years, got %d",
			common.ErrorInsufficientReferencePeriod, len(idx.Years()))
	}
	if !bootstrap.ShouldRun(idx.Years(), cfg.StudiedYears) {
		logger.Info("studied years do not need bootstrapping, skipped",
			zap.Ints("referenceYears", idx.Years()), zap.Ints("studiedYears", cfg.StudiedYears))
		return nil, nil
	}
	if interp != quantile.MedianUnbiased {
		return nil, fmt.Errorf("%w: bootstrapping requires %s, got %s",
			common.ErrorInvalidInterpolation, quantile.MedianUnbiased.Name, interp.Name)
	}
	return bootstrap.Plan(idx, cfg.StudiedYears)
}

func planYears(plan map[int][]*bootstrap.Substitution) []int {
	res := make([]int, 0, len(plan))
	for year := range plan {
		res = append(res, year)
	}
	return res
}

// build computes every calendar day in parallel. Each worker only writes the
// slot of its own day.
func (b *builder) build(ctx context.Context, sub *bootstrap.Substitution) (*Threshold, error) {
	logger := utils.GetLogger(ctx)
	thr := newThreshold(b.resolver.Index(), b.meta)

	var substitution doy.Substitution
	if sub != nil {
		substitution = sub
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, key := range thr.keys {
		i, key := i, key
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("compute calendar day recover panic error!", zap.Any("err", r),
						zap.Stringer("day", key), zap.String("panic info", utils.GetPanicInfo()))
					err = fmt.Errorf("%w: panic computing %v: %v", common.ErrorInvalidValue, key, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			rows := b.resolver.Rows(key, substitution)
			thr.values[i] = b.calc.Compute(b.series, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return thr, nil
}

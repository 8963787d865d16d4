package quantile

const (
	// DefaultWetDayThreshold is the smallest daily amount (mm/day) counted as a
	// wet day when only wet days are kept.
	DefaultWetDayThreshold = 1.0

	DefaultInterpolationName = "median_unbiased"

	MinPercentile = 0.0
	MaxPercentile = 100.0
)

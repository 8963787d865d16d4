package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	ErrorInvalidCalendar             = errors.New("invalid calendar")
	ErrorInvalidWindowWidth          = errors.New("invalid window width")
	ErrorInsufficientReferencePeriod = errors.New("insufficient reference period")
	ErrorInvalidPercentile           = errors.New("invalid percentile")
	ErrorInvalidInterpolation        = errors.New("invalid interpolation")
	ErrorInvalidSeries               = errors.New("invalid series")
	ErrorInvalidOperator             = errors.New("invalid operator")
)

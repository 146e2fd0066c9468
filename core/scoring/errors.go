package scoring

import "errors"

var (
	errSolarReference = errors.New("solar_reference_kw must be positive")
	errRateBand       = errors.New("rate_ceiling must exceed rate_floor")
)

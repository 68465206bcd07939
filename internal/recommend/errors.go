package recommend

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest     = errors.New("malformed recommendation request")
	ErrRecommendationFailed = errors.New("recommendation call failed")
)

// Error is the single failure surfaced for a recommendation request.
// Stage is "model call" or "parse".
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("recommendation call failed during %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrRecommendationFailed
}

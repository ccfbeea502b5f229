package strategy

import "errors"

var (
	// ErrStrategyNotFound is returned when a name has no registered strategy.
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrInvalidParameter indicates strategy tuning parameters are invalid.
	ErrInvalidParameter = errors.New("invalid parameter")
)

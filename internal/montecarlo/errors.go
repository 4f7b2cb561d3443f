package montecarlo

import "errors"

var (
	ErrInvalidTrials = errors.New("trials must be between 1 and the configured maximum")
	ErrMissingRules  = errors.New("scoring rules are required")
	ErrTimeout       = errors.New("simulation timed out before any trial completed")
)

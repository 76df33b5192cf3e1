package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrTransientFetch        = errors.New("transient fetch failure")
	ErrResolutionMiss        = errors.New("identity resolution miss")
	ErrValidation            = errors.New("validation failure")
	ErrIntegrity             = errors.New("referential integrity violation")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

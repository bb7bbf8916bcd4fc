package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidLens      = errors.New("invalid lens")
	ErrEmptyProblem     = errors.New("problem is empty")
	ErrCardLimitReached = errors.New("card limit reached")
	ErrProviderFailure  = errors.New("provider failure")
	ErrWrongStep        = errors.New("transition not allowed at this step")
	ErrSessionExpired   = errors.New("wizard session expired")
)

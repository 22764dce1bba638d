package domain

import "errors"

var (
	// ErrInsufficientData means a session has no recorded history yet.
	// Callers must render a neutral/empty state, not a zero score.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrValidation means the input itself is malformed (scores outside
	// [0,1], non-chronological turns). Upstream corruption fails fast
	// instead of being clamped away.
	ErrValidation = errors.New("validation failed")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrNoOpponentData  = errors.New("no opponent data")
	ErrNotFound        = errors.New("not found")
)

package ctxslot

import "errors"

var (
	ErrZeroToken    = errors.New("ctxslot: zero token")
	ErrForeignToken = errors.New("ctxslot: token belongs to another slot")
	ErrTokenUsed    = errors.New("ctxslot: token already reset")
)

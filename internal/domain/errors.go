package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateReview  = errors.New("service already reviewed by this client")
	ErrInvalidResetCode = errors.New("reset code invalid or expired")
	ErrEmailTaken       = errors.New("email already in use")
	ErrBadCredentials   = errors.New("bad credentials")
)

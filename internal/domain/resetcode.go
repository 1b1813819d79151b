package domain

import "time"

// ResetCode is a one-time password-reset entry keyed by its code value.
// Entries live only in the configured ResetCodeStore and are lost on
// process restart when the in-memory store is used (accepted behavior).
type ResetCode struct {
	Email    string
	Code     string
	IssuedAt time.Time
}

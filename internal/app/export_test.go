package app

import "time"

// Test hooks for pinning the clock.

func (s *PasswordResetService) WithNow(now func() time.Time) *PasswordResetService {
	s.now = now
	return s
}

func (s *ReviewService) WithNow(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

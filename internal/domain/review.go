package domain

import "time"

type Review struct {
	ID          int64
	ServiceID   int64
	ClientEmail string
	ClientName  string
	Provider    *string
	Rating      *float64 // 0.0–5.0; mandatory on admission, nullable in storage
	Comment     string
	ReviewDate  time.Time
	BookingFrom time.Time
	BookingTo   time.Time
	CreatedAt   time.Time
}

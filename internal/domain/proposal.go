package domain

import "time"

type ServiceProposal struct {
	ID          int64
	Name        string
	Description string
	Location    string // "lat,lon" (e.g. "36.81,10.17")
	Votes       int

	ProposedByID    *int64
	OwnerEmail      *string
	EndDate         *time.Time
	ReservationLink *string
	Delegation      *string
	Sector          *string
	Provider        *string
	Institution     *string
	Category        *string

	// Derived from the review set; written only by the rating recompute.
	AverageRating float64
	ReviewCount   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

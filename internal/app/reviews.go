package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"jend_services/internal/domain"
)

// ReviewInput carries the caller-supplied part of a review. Rating must
// already be validated to [0.0, 5.0] at the request boundary.
type ReviewInput struct {
	ClientEmail string
	Rating      float64
	Comment     string
	Provider    string
	BookingFrom *time.Time
	BookingTo   *time.Time
}

type ReviewService struct {
	reviews   domain.ReviewRepository
	proposals domain.ProposalRepository
	accounts  domain.AccountRepository
	now       func() time.Time
}

func NewReviewService(rr domain.ReviewRepository, pr domain.ProposalRepository, ar domain.AccountRepository) *ReviewService {
	return &ReviewService{reviews: rr, proposals: pr, accounts: ar, now: time.Now}
}

// AddReview persists a new review and synchronously recomputes the owning
// service's aggregate rating. A client may review a given service once.
func (s *ReviewService) AddReview(ctx context.Context, serviceID int64, in ReviewInput) (domain.Review, error) {
	dup, err := s.reviews.ExistsByServiceAndEmail(ctx, serviceID, in.ClientEmail)
	if err != nil {
		return domain.Review{}, err
	}
	if dup {
		return domain.Review{}, domain.ErrDuplicateReview
	}

	sp, err := s.proposals.FindByID(ctx, serviceID)
	if err != nil {
		return domain.Review{}, err
	}

	name, err := s.displayName(ctx, in.ClientEmail)
	if err != nil {
		return domain.Review{}, err
	}

	today := s.now()
	rating := in.Rating
	rv := domain.Review{
		ServiceID:   serviceID,
		ClientEmail: in.ClientEmail,
		ClientName:  name,
		Rating:      &rating,
		Comment:     in.Comment,
		ReviewDate:  today,
	}
	if in.Provider != "" {
		p := in.Provider
		rv.Provider = &p
	} else {
		n := sp.Name
		rv.Provider = &n
	}
	if in.BookingFrom != nil {
		rv.BookingFrom = *in.BookingFrom
	} else {
		rv.BookingFrom = today.AddDate(0, 0, -7)
	}
	if in.BookingTo != nil {
		rv.BookingTo = *in.BookingTo
	} else {
		rv.BookingTo = today
	}

	saved, err := s.reviews.Save(ctx, rv)
	if err != nil {
		return domain.Review{}, err
	}
	if err := s.recomputeRating(ctx, serviceID); err != nil {
		return domain.Review{}, err
	}

	log.Info().
		Int64("review_id", saved.ID).
		Int64("service_id", serviceID).
		Str("client", saved.ClientName).
		Float64("rating", in.Rating).
		Msg("review added")
	return saved, nil
}

// DeleteReview removes a review and recomputes the aggregate for the
// service that owned it, using the post-deletion review set.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteByID(ctx, reviewID); err != nil {
		return err
	}
	return s.recomputeRating(ctx, rv.ServiceID)
}

func (s *ReviewService) ListByService(ctx context.Context, serviceID int64) ([]domain.Review, error) {
	return s.reviews.FindByServiceID(ctx, serviceID)
}

func (s *ReviewService) ListByClient(ctx context.Context, email string) ([]domain.Review, error) {
	return s.reviews.FindByClientEmail(ctx, email)
}

func (s *ReviewService) HasReviewed(ctx context.Context, serviceID int64, email string) (bool, error) {
	return s.reviews.ExistsByServiceAndEmail(ctx, serviceID, email)
}

// displayName resolves the reviewer name shown alongside a review: the
// account name when one exists, otherwise the local part of the email.
func (s *ReviewService) displayName(ctx context.Context, email string) (string, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if err == nil && acc.Name != "" {
		return acc.Name, nil
	}
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i], nil
	}
	return email, nil
}

// recomputeRating refreshes the derived averageRating/reviewCount pair from
// the current review set. Ratings missing in storage are excluded from the
// mean; the count still reflects the full set.
func (s *ReviewService) recomputeRating(ctx context.Context, serviceID int64) error {
	sp, err := s.proposals.FindByID(ctx, serviceID)
	if err != nil {
		return err
	}
	rs, err := s.reviews.FindByServiceID(ctx, serviceID)
	if err != nil {
		return err
	}

	if len(rs) == 0 {
		sp.AverageRating = 0.0
		sp.ReviewCount = 0
	} else {
		var sum float64
		rated := 0
		for _, rv := range rs {
			if rv.Rating == nil {
				continue
			}
			sum += *rv.Rating
			rated++
		}
		if rated > 0 {
			sp.AverageRating = roundHalfUp(sum / float64(rated))
		} else {
			sp.AverageRating = 0.0
		}
		sp.ReviewCount = len(rs)
	}

	if _, err := s.proposals.Save(ctx, sp); err != nil {
		return err
	}
	log.Debug().
		Int64("service_id", serviceID).
		Float64("average", sp.AverageRating).
		Int("count", sp.ReviewCount).
		Msg("service rating recomputed")
	return nil
}

// roundHalfUp rounds to one decimal place, ties away from zero.
func roundHalfUp(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

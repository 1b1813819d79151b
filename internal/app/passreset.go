package app

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"jend_services/internal/domain"
)

// ResetCodeTTL is the fixed validity window of a reset code. No sliding
// extension: the clock starts at issuance.
const ResetCodeTTL = time.Hour

// PasswordResetService owns the reset-code ledger. Codes are single-use:
// active until consumed, expired, or overwritten by a colliding issue.
type PasswordResetService struct {
	codes    domain.ResetCodeStore
	accounts domain.AccountRepository
	hasher   domain.PasswordHasher
	mailer   domain.CodeMailer
	now      func() time.Time
}

func NewPasswordResetService(codes domain.ResetCodeStore, accounts domain.AccountRepository, hasher domain.PasswordHasher, mailer domain.CodeMailer) *PasswordResetService {
	return &PasswordResetService{codes: codes, accounts: accounts, hasher: hasher, mailer: mailer, now: time.Now}
}

// Issue generates a 6-digit code for the account behind email, stores it
// keyed by the code value and returns it. Expired entries are swept
// opportunistically. A code collision overwrites the earlier entry; with a
// one-hour window over a million-code space that trade-off is accepted.
func (s *PasswordResetService) Issue(ctx context.Context, email string) (string, error) {
	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		return "", err
	}

	code, err := sixDigitCode()
	if err != nil {
		return "", err
	}
	if err := s.codes.Put(ctx, domain.ResetCode{Email: email, Code: code, IssuedAt: s.now()}); err != nil {
		return "", err
	}
	if err := s.codes.SweepExpired(ctx, ResetCodeTTL); err != nil {
		log.Warn().Err(err).Msg("reset code sweep failed")
	}

	if s.mailer != nil {
		// Best effort: a failed delivery must not invalidate the code.
		if err := s.mailer.SendResetCode(ctx, email, code); err != nil {
			log.Warn().Str("email", email).Err(err).Msg("reset code mail delivery failed")
		}
	}

	log.Info().Str("email", email).Msg("reset code issued")
	return code, nil
}

// Verify reports whether (email, code) names an active ledger entry.
// Read-only: a valid code stays usable until consumed or expired.
func (s *PasswordResetService) Verify(ctx context.Context, email, code string) error {
	rc, ok, err := s.codes.Get(ctx, code)
	if err != nil {
		return err
	}
	if !ok || rc.Email != email || s.now().Sub(rc.IssuedAt) >= ResetCodeTTL {
		return domain.ErrInvalidResetCode
	}
	return nil
}

// Consume re-checks validity, updates the account password and removes the
// entry. On any failure the ledger is left untouched.
func (s *PasswordResetService) Consume(ctx context.Context, email, code, newPassword string) error {
	if err := s.Verify(ctx, email, code); err != nil {
		return err
	}
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, acc.ID, hashed); err != nil {
		return err
	}
	if err := s.codes.Del(ctx, code); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("password reset completed")
	return nil
}

func sixDigitCode() (string, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

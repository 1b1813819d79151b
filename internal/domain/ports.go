package domain

import (
	"context"
	"time"
)

type AccountRepository interface {
	Create(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	FindByID(ctx context.Context, id int64) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ProposalRepository interface {
	FindAll(ctx context.Context) ([]ServiceProposal, error)
	FindByID(ctx context.Context, id int64) (ServiceProposal, error)
	Save(ctx context.Context, sp ServiceProposal) (ServiceProposal, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	FindByServiceID(ctx context.Context, serviceID int64) ([]Review, error)
	FindByClientEmail(ctx context.Context, email string) ([]Review, error)
	FindByID(ctx context.Context, id int64) (Review, error)
	Save(ctx context.Context, r Review) (Review, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByServiceAndEmail(ctx context.Context, serviceID int64, email string) (bool, error)
}

// ResetCodeStore is the ledger's backing key-value store, keyed by code.
// Implementations must be safe for concurrent issue/verify/consume/sweep.
type ResetCodeStore interface {
	Put(ctx context.Context, rc ResetCode) error
	Get(ctx context.Context, code string) (ResetCode, bool, error)
	Del(ctx context.Context, code string) error
	SweepExpired(ctx context.Context, ttl time.Duration) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// CodeMailer delivers a reset code to its recipient. Optional collaborator;
// a nil mailer means codes are only surfaced through the dev response.
type CodeMailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}

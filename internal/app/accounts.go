package app

import (
	"context"
	"errors"

	"jend_services/internal/domain"
)

type AccountService struct {
	accounts domain.AccountRepository
	hasher   domain.PasswordHasher
}

func NewAccountService(ar domain.AccountRepository, h domain.PasswordHasher) *AccountService {
	return &AccountService{accounts: ar, hasher: h}
}

func (s *AccountService) Create(ctx context.Context, name, email, password string) (domain.Account, error) {
	taken, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, err
	}
	if taken {
		return domain.Account{}, domain.ErrEmailTaken
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Account{}, err
	}
	return s.accounts.Create(ctx, domain.Account{Name: name, Email: email, Password: hashed})
}

// Update changes name/email; the password only when a non-blank one is
// supplied. Email moves require the new address to be free.
func (s *AccountService) Update(ctx context.Context, id int64, name, email, password string) (domain.Account, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if acc.Email != email {
		taken, err := s.accounts.ExistsByEmail(ctx, email)
		if err != nil {
			return domain.Account{}, err
		}
		if taken {
			return domain.Account{}, domain.ErrEmailTaken
		}
	}
	acc.Name = name
	acc.Email = email
	if password != "" {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return domain.Account{}, err
		}
		acc.Password = hashed
	}
	return s.accounts.Update(ctx, acc)
}

func (s *AccountService) UpdatePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(oldPassword, acc.Password)
	if err != nil || !ok {
		return domain.ErrBadCredentials
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, id, hashed)
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.accounts.FindByEmail(ctx, email)
}

// Authenticate checks login credentials. Unknown email and wrong password
// both map to ErrBadCredentials so the response doesn't leak which it was.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.Account, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, domain.ErrBadCredentials
		}
		return domain.Account{}, err
	}
	ok, err := s.hasher.Verify(password, acc.Password)
	if err != nil || !ok {
		return domain.Account{}, domain.ErrBadCredentials
	}
	return acc, nil
}

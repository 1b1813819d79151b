package app_test

import (
	"context"
	"time"

	"jend_services/internal/domain"
)

// ---- fakes ----

type fakeAccounts struct {
	byID   map[int64]domain.Account
	nextID int64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[int64]domain.Account{}}
}

func (f *fakeAccounts) add(name, email, password string) domain.Account {
	a, _ := f.Create(context.Background(), domain.Account{Name: name, Email: email, Password: password})
	return a
}

func (f *fakeAccounts) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	f.nextID++
	a.ID = f.nextID
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAccounts) Update(ctx context.Context, a domain.Account) (domain.Account, error) {
	if _, ok := f.byID[a.ID]; !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Password = hashed
	f.byID[id] = a
	return nil
}

func (f *fakeAccounts) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (f *fakeAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

type fakeProposals struct {
	byID   map[int64]domain.ServiceProposal
	nextID int64
}

func newFakeProposals() *fakeProposals {
	return &fakeProposals{byID: map[int64]domain.ServiceProposal{}}
}

func (f *fakeProposals) add(name string) domain.ServiceProposal {
	sp, _ := f.Save(context.Background(), domain.ServiceProposal{Name: name, Description: "d", Location: "36.81,10.17"})
	return sp
}

func (f *fakeProposals) FindAll(ctx context.Context) ([]domain.ServiceProposal, error) {
	var out []domain.ServiceProposal
	for _, sp := range f.byID {
		out = append(out, sp)
	}
	return out, nil
}

func (f *fakeProposals) FindByID(ctx context.Context, id int64) (domain.ServiceProposal, error) {
	sp, ok := f.byID[id]
	if !ok {
		return domain.ServiceProposal{}, domain.ErrNotFound
	}
	return sp, nil
}

func (f *fakeProposals) Save(ctx context.Context, sp domain.ServiceProposal) (domain.ServiceProposal, error) {
	if sp.ID == 0 {
		f.nextID++
		sp.ID = f.nextID
	}
	f.byID[sp.ID] = sp
	return sp, nil
}

func (f *fakeProposals) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeReviews struct {
	byID   map[int64]domain.Review
	nextID int64
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byID: map[int64]domain.Review{}}
}

func (f *fakeReviews) FindByServiceID(ctx context.Context, serviceID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range f.byID {
		if rv.ServiceID == serviceID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviews) FindByClientEmail(ctx context.Context, email string) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range f.byID {
		if rv.ClientEmail == email {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviews) FindByID(ctx context.Context, id int64) (domain.Review, error) {
	rv, ok := f.byID[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (f *fakeReviews) Save(ctx context.Context, rv domain.Review) (domain.Review, error) {
	if rv.ID == 0 {
		f.nextID++
		rv.ID = f.nextID
	}
	f.byID[rv.ID] = rv
	return rv, nil
}

func (f *fakeReviews) DeleteByID(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviews) ExistsByServiceAndEmail(ctx context.Context, serviceID int64, email string) (bool, error) {
	for _, rv := range f.byID {
		if rv.ServiceID == serviceID && rv.ClientEmail == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (fakeHasher) Verify(pw, encoded string) (bool, error) {
	return encoded == "hashed:"+pw, nil
}

type fakeMailer struct {
	sent []string // "to:code"
}

func (m *fakeMailer) SendResetCode(ctx context.Context, to, code string) error {
	m.sent = append(m.sent, to+":"+code)
	return nil
}

// ---- tiny helpers ----

func ptr[T any](v T) *T { return &v }

func dateEq(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

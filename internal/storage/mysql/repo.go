package mysql

import (
	"context"
	"database/sql"
	"time"

	"jend_services/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
func f64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// ----------------------------------------------------------------------------
// Accounts
// ----------------------------------------------------------------------------

type AccountRepo struct{ db *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	res, err := r.db.ExecContext(ctx, insertAccountSQL, a.Name, a.Email, a.Password)
	if err != nil {
		return domain.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Account{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepo) Update(ctx context.Context, a domain.Account) (domain.Account, error) {
	if _, err := r.db.ExecContext(ctx, updateAccountSQL, a.Name, a.Email, a.Password, a.ID); err != nil {
		return domain.Account{}, err
	}
	return r.FindByID(ctx, a.ID)
}

func (r *AccountRepo) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	res, err := r.db.ExecContext(ctx, updateAccountPasswordSQL, hashed, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for an unchanged
		// password; only the former is an error.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, getAccountByIDSQL, id))
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, getAccountByEmailSQL, email))
}

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, existsAccountByEmailSQL, email).Scan(&exists)
	return exists, err
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return a, nil
}

// ----------------------------------------------------------------------------
// Service proposals
// ----------------------------------------------------------------------------

type ProposalRepo struct{ db *sql.DB }

func NewProposalRepo(db *sql.DB) *ProposalRepo { return &ProposalRepo{db: db} }

func (r *ProposalRepo) FindAll(ctx context.Context) ([]domain.ServiceProposal, error) {
	rows, err := r.db.QueryContext(ctx, listProposalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceProposal
	for rows.Next() {
		sp, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *ProposalRepo) FindByID(ctx context.Context, id int64) (domain.ServiceProposal, error) {
	sp, err := scanProposal(r.db.QueryRowContext(ctx, getProposalSQL, id))
	if err == sql.ErrNoRows {
		return domain.ServiceProposal{}, domain.ErrNotFound
	}
	return sp, err
}

// Save inserts when the proposal has no ID yet, otherwise rewrites the row.
func (r *ProposalRepo) Save(ctx context.Context, sp domain.ServiceProposal) (domain.ServiceProposal, error) {
	if sp.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertProposalSQL,
			sp.Name, sp.Description, sp.Location, sp.Votes,
			valInt64(sp.ProposedByID), valStr(sp.OwnerEmail), valTime(sp.EndDate), valStr(sp.ReservationLink),
			valStr(sp.Delegation), valStr(sp.Sector), valStr(sp.Provider), valStr(sp.Institution), valStr(sp.Category),
			sp.AverageRating, sp.ReviewCount,
		)
		if err != nil {
			return domain.ServiceProposal{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.ServiceProposal{}, err
		}
		return r.FindByID(ctx, id)
	}

	if _, err := r.db.ExecContext(ctx, updateProposalSQL,
		sp.Name, sp.Description, sp.Location, sp.Votes,
		valInt64(sp.ProposedByID), valStr(sp.OwnerEmail), valTime(sp.EndDate), valStr(sp.ReservationLink),
		valStr(sp.Delegation), valStr(sp.Sector), valStr(sp.Provider), valStr(sp.Institution), valStr(sp.Category),
		sp.AverageRating, sp.ReviewCount,
		sp.ID,
	); err != nil {
		return domain.ServiceProposal{}, err
	}
	return r.FindByID(ctx, sp.ID)
}

func (r *ProposalRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteProposalSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (domain.ServiceProposal, error) {
	var sp domain.ServiceProposal
	var proposedBy sql.NullInt64
	var ownerEmail, resLink, delegation, sector, provider, institution, category sql.NullString
	var endDate sql.NullTime

	if err := row.Scan(
		&sp.ID, &sp.Name, &sp.Description, &sp.Location, &sp.Votes,
		&proposedBy, &ownerEmail, &endDate, &resLink,
		&delegation, &sector, &provider, &institution, &category,
		&sp.AverageRating, &sp.ReviewCount, &sp.CreatedAt, &sp.UpdatedAt,
	); err != nil {
		return domain.ServiceProposal{}, err
	}

	sp.ProposedByID = int64Ptr(proposedBy)
	sp.OwnerEmail = strPtr(ownerEmail)
	sp.EndDate = timePtr(endDate)
	sp.ReservationLink = strPtr(resLink)
	sp.Delegation = strPtr(delegation)
	sp.Sector = strPtr(sector)
	sp.Provider = strPtr(provider)
	sp.Institution = strPtr(institution)
	sp.Category = strPtr(category)
	return sp, nil
}

// ----------------------------------------------------------------------------
// Reviews
// ----------------------------------------------------------------------------

type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Save(ctx context.Context, rv domain.Review) (domain.Review, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ServiceID, rv.ClientEmail, rv.ClientName, valStr(rv.Provider),
		valF64(rv.Rating), rv.Comment, rv.ReviewDate, rv.BookingFrom, rv.BookingTo,
	)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *ReviewRepo) FindByID(ctx context.Context, id int64) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *ReviewRepo) FindByServiceID(ctx context.Context, serviceID int64) ([]domain.Review, error) {
	return r.list(ctx, listReviewsByServiceSQL, serviceID)
}

func (r *ReviewRepo) FindByClientEmail(ctx context.Context, email string) ([]domain.Review, error) {
	return r.list(ctx, listReviewsByClientSQL, email)
}

func (r *ReviewRepo) list(ctx context.Context, query string, arg any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) ExistsByServiceAndEmail(ctx context.Context, serviceID int64, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, existsReviewSQL, serviceID, email).Scan(&exists)
	return exists, err
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rv domain.Review
	var provider sql.NullString
	var rating sql.NullFloat64

	if err := row.Scan(
		&rv.ID, &rv.ServiceID, &rv.ClientEmail, &rv.ClientName, &provider,
		&rating, &rv.Comment, &rv.ReviewDate, &rv.BookingFrom, &rv.BookingTo, &rv.CreatedAt,
	); err != nil {
		return domain.Review{}, err
	}

	rv.Provider = strPtr(provider)
	rv.Rating = f64Ptr(rating)
	return rv, nil
}

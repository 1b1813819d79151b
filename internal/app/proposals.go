package app

import (
	"context"
	"time"

	"jend_services/internal/domain"
)

type ProposalInput struct {
	Name            string
	Description     string
	Location        string
	OwnerEmail      *string
	EndDate         *time.Time
	ReservationLink *string
	Delegation      *string
	Sector          *string
	Provider        *string
	Institution     *string
	Category        *string
}

type ProposalService struct {
	proposals domain.ProposalRepository
}

func NewProposalService(pr domain.ProposalRepository) *ProposalService {
	return &ProposalService{proposals: pr}
}

func (s *ProposalService) FindAll(ctx context.Context) ([]domain.ServiceProposal, error) {
	return s.proposals.FindAll(ctx)
}

func (s *ProposalService) FindByID(ctx context.Context, id int64) (domain.ServiceProposal, error) {
	return s.proposals.FindByID(ctx, id)
}

func (s *ProposalService) Create(ctx context.Context, in ProposalInput, proposedBy domain.Account) (domain.ServiceProposal, error) {
	sp := domain.ServiceProposal{
		Name:            in.Name,
		Description:     in.Description,
		Location:        in.Location,
		EndDate:         in.EndDate,
		ReservationLink: in.ReservationLink,
		Delegation:      in.Delegation,
		Sector:          in.Sector,
		Provider:        in.Provider,
		Institution:     in.Institution,
		Category:        in.Category,
	}
	uid := proposedBy.ID
	sp.ProposedByID = &uid
	if in.OwnerEmail != nil {
		sp.OwnerEmail = in.OwnerEmail
	} else {
		e := proposedBy.Email
		sp.OwnerEmail = &e
	}
	return s.proposals.Save(ctx, sp)
}

func (s *ProposalService) Update(ctx context.Context, id int64, in ProposalInput) (domain.ServiceProposal, error) {
	sp, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return domain.ServiceProposal{}, err
	}
	sp.Name = in.Name
	sp.Description = in.Description
	sp.Location = in.Location
	sp.OwnerEmail = in.OwnerEmail
	sp.EndDate = in.EndDate
	sp.ReservationLink = in.ReservationLink
	sp.Delegation = in.Delegation
	sp.Sector = in.Sector
	sp.Provider = in.Provider
	sp.Institution = in.Institution
	sp.Category = in.Category
	return s.proposals.Save(ctx, sp)
}

func (s *ProposalService) Delete(ctx context.Context, id int64) error {
	return s.proposals.Delete(ctx, id)
}

func (s *ProposalService) Vote(ctx context.Context, id int64) (domain.ServiceProposal, error) {
	sp, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return domain.ServiceProposal{}, err
	}
	sp.Votes++
	return s.proposals.Save(ctx, sp)
}

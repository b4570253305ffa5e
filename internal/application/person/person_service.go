package person

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PersonService manages shareholders, directors and employees
type PersonService struct {
	personRepo  person.PersonRepository
	companyRepo company.CompanyRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewPersonService creates a new person service
func NewPersonService(
	personRepo person.PersonRepository,
	companyRepo company.CompanyRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PersonService {
	return &PersonService{
		personRepo:  personRepo,
		companyRepo: companyRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create adds a person to the company
func (s *PersonService) Create(ctx context.Context, actor access.Actor, req PersonRequest) (*PersonResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	p, err := person.NewPerson(actor.CompanyID, actor.UserID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, actor.CompanyID, nil, p.SharesHeld); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, p)

	s.logger.Info("Person created",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("person_id", p.ID.String()))
	resp := ToPersonResponse(p)
	return &resp, nil
}

// Get returns one person
func (s *PersonService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*PersonResponse, error) {
	p, err := s.personRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPersonResponse(p)
	return &resp, nil
}

// List lists persons, optionally by role
func (s *PersonService) List(ctx context.Context, actor access.Actor, req ListPersonsRequest) ([]PersonResponse, int64, error) {
	filter := person.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Role: person.Role(req.Role),
	}
	persons, total, err := s.personRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PersonResponse, len(persons))
	for i := range persons {
		out[i] = ToPersonResponse(&persons[i])
	}
	return out, total, nil
}

// Update replaces a person's details
func (s *PersonService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req PersonRequest) (*PersonResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	p, err := s.personRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, actor.CompanyID, &p.ID, p.SharesHeld); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, p)
	resp := ToPersonResponse(p)
	return &resp, nil
}

// UpdateShares changes a person's shareholding within the authorized share capital
func (s *PersonService) UpdateShares(ctx context.Context, actor access.Actor, id uuid.UUID, req UpdateSharesRequest) (*PersonResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	p, err := s.personRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := p.SetShares(req.SharesHeld, req.ShareClass); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, actor.CompanyID, &p.ID, p.SharesHeld); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, p)

	s.logger.Info("Shares updated",
		zap.String("person_id", p.ID.String()),
		zap.Int64("shares_held", p.SharesHeld))
	resp := ToPersonResponse(p)
	return &resp, nil
}

// Terminate ends a person's employment
func (s *PersonService) Terminate(ctx context.Context, actor access.Actor, id uuid.UUID) (*PersonResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	p, err := s.personRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Terminate(); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPersonResponse(p)
	return &resp, nil
}

// Delete removes a person. Shareholders must have their shares cleared first
// so the register stays consistent.
func (s *PersonService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	p, err := s.personRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if p.SharesHeld > 0 {
		return shared.InvalidState("Clear the person's shares before deleting them")
	}
	return s.personRepo.Delete(ctx, actor.CompanyID, id)
}

func (s *PersonService) checkCapacity(ctx context.Context, companyID uuid.UUID, self *uuid.UUID, held int64) error {
	if held == 0 {
		return nil
	}
	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if c.AuthorizedShares == 0 {
		return nil
	}
	others, err := s.personRepo.SumShares(ctx, companyID, self)
	if err != nil {
		return err
	}
	return person.CheckShareCapacity(c.AuthorizedShares, others+held)
}

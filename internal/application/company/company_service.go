package company

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/identity"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const memberAccessTTL = 5 * time.Minute

// ShareLedger reports the shares already issued to the company's persons
type ShareLedger interface {
	SumShares(ctx context.Context, companyID uuid.UUID, excludeID *uuid.UUID) (int64, error)
}

// CompanyService manages companies and their memberships
type CompanyService struct {
	companyRepo    company.CompanyRepository
	membershipRepo company.MembershipRepository
	userRepo       identity.UserRepository
	shares         ShareLedger
	txScope        TransactionScope
	cache          cache.Store
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

// NewCompanyService creates a new company service. cache may be nil.
func NewCompanyService(
	companyRepo company.CompanyRepository,
	membershipRepo company.MembershipRepository,
	userRepo identity.UserRepository,
	shares ShareLedger,
	txScope TransactionScope,
	cache cache.Store,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo:    companyRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		shares:         shares,
		txScope:        txScope,
		cache:          cache,
		publisher:      publisher,
		logger:         logger,
	}
}

// Create registers a company and makes the creator its OWNER
func (s *CompanyService) Create(ctx context.Context, userID uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	c, err := company.NewCompany(userID, req.toProfile())
	if err != nil {
		return nil, err
	}
	if err := s.ensureTINAvailable(ctx, c.TIN, uuid.Nil); err != nil {
		return nil, err
	}
	owner, err := company.NewMembership(c.ID, userID, company.RoleOwner, nil)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.CompanyRepo().Save(ctx, c); err != nil {
			return err
		}
		return repos.MembershipRepo().Save(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, c)

	s.logger.Info("Company created",
		zap.String("company_id", c.ID.String()),
		zap.String("user_id", userID.String()))
	resp := ToCompanyResponse(c)
	resp.MyRole = string(company.RoleOwner)
	return &resp, nil
}

func (s *CompanyService) ensureTINAvailable(ctx context.Context, tin string, self uuid.UUID) error {
	existing, err := s.companyRepo.FindByTIN(ctx, tin)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A company with this TIN is already registered")
	}
	return nil
}

// ListMine lists the companies the user belongs to
func (s *CompanyService) ListMine(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]CompanyResponse, int64, error) {
	companies, total, err := s.companyRepo.FindForUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		resp := ToCompanyResponse(&companies[i])
		if m, err := s.membershipRepo.Find(ctx, companies[i].ID, userID); err == nil {
			resp.MyRole = string(m.Role)
		}
		out = append(out, resp)
	}
	return out, total, nil
}

// Get returns the actor's active company
func (s *CompanyService) Get(ctx context.Context, actor access.Actor) (*CompanyResponse, error) {
	c, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	resp.MyRole = string(actor.Role)
	return &resp, nil
}

// Update replaces the company profile. Requires OWNER or ADMIN.
func (s *CompanyService) Update(ctx context.Context, actor access.Actor, req CompanyRequest) (*CompanyResponse, error) {
	if !actor.IsPrivileged() {
		return nil, shared.Forbidden("Only an owner or admin can edit the company profile")
	}
	c, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.ensureTINAvailable(ctx, c.TIN, c.ID); err != nil {
		return nil, err
	}
	if err := s.checkAuthorizedShares(ctx, c); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	resp.MyRole = string(actor.Role)
	return &resp, nil
}

// checkAuthorizedShares refuses a cap below the shares already held. Zero
// means the company sets no cap.
func (s *CompanyService) checkAuthorizedShares(ctx context.Context, c *company.Company) error {
	if c.AuthorizedShares == 0 {
		return nil
	}
	issued, err := s.shares.SumShares(ctx, c.ID, nil)
	if err != nil {
		return err
	}
	if person.CheckShareCapacity(c.AuthorizedShares, issued) != nil {
		return shared.InvalidState("Authorized shares cannot be lower than the shares already held").
			WithDetails(map[string]any{"authorized": c.AuthorizedShares, "issued": issued})
	}
	return nil
}

// SetStatus marks the company ACTIVE or DORMANT
func (s *CompanyService) SetStatus(ctx context.Context, actor access.Actor, req SetStatusRequest) (*CompanyResponse, error) {
	if !actor.IsPrivileged() {
		return nil, shared.Forbidden("Only an owner or admin can change the company status")
	}
	c, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := c.SetStatus(company.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.forgetCompany(ctx, c.ID)
	resp := ToCompanyResponse(c)
	resp.MyRole = string(actor.Role)
	return &resp, nil
}

// Delete deregisters the company. Only an OWNER may do this.
func (s *CompanyService) Delete(ctx context.Context, actor access.Actor) error {
	if err := actor.Require(company.ActionDeleteCompany); err != nil {
		return err
	}
	c, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return err
	}
	if err := c.Deregister(); err != nil {
		return err
	}
	if err := s.companyRepo.Save(ctx, c); err != nil {
		return err
	}
	s.forgetCompany(ctx, c.ID)
	access.PublishEvents(ctx, s.publisher, s.logger, c)

	s.logger.Info("Company deregistered", zap.String("company_id", c.ID.String()))
	return nil
}

// ListMembers lists the company's members with their profiles
func (s *CompanyService) ListMembers(ctx context.Context, actor access.Actor) ([]MemberResponse, error) {
	members, err := s.membershipRepo.FindByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]identity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		u := byID[m.UserID]
		out = append(out, MemberResponse{
			UserID:    m.UserID,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      string(m.Role),
			InvitedBy: m.InvitedBy,
			JoinedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

// AddMember grants an existing user a role in the company. Only an OWNER can add another OWNER.
func (s *CompanyService) AddMember(ctx context.Context, actor access.Actor, req AddMemberRequest) (*MemberResponse, error) {
	if err := actor.Require(company.ActionManageMembers); err != nil {
		return nil, err
	}
	role := company.Role(req.Role)
	if role == company.RoleOwner && actor.Role != company.RoleOwner {
		return nil, shared.Forbidden("Only an owner can add another owner")
	}
	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("User").WithDetails(map[string]any{"email": email})
		}
		return nil, err
	}
	if _, err := s.membershipRepo.Find(ctx, actor.CompanyID, user.ID); err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "User is already a member of this company")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	m, err := company.NewMembership(actor.CompanyID, user.ID, role, actor.CreatorID())
	if err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Member added",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("member_id", user.ID.String()),
		zap.String("role", req.Role))
	return &MemberResponse{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(m.Role),
		InvitedBy: m.InvitedBy,
		JoinedAt:  m.CreatedAt,
	}, nil
}

// ChangeMemberRole changes a member's role, keeping at least one OWNER
func (s *CompanyService) ChangeMemberRole(ctx context.Context, actor access.Actor, userID uuid.UUID, req ChangeRoleRequest) (*MemberResponse, error) {
	if err := actor.Require(company.ActionManageMembers); err != nil {
		return nil, err
	}
	m, err := s.membershipRepo.Find(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	role := company.Role(req.Role)
	if (m.Role == company.RoleOwner || role == company.RoleOwner) && actor.Role != company.RoleOwner {
		return nil, shared.Forbidden("Only an owner can grant or revoke the owner role")
	}
	owners, err := s.membershipRepo.CountByRole(ctx, actor.CompanyID, company.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := m.ChangeRole(role, owners); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.forgetMember(ctx, actor.CompanyID, userID)

	return &MemberResponse{UserID: m.UserID, Role: string(m.Role), InvitedBy: m.InvitedBy, JoinedAt: m.CreatedAt}, nil
}

// RemoveMember removes a member. Members may always remove themselves, the last OWNER excepted.
func (s *CompanyService) RemoveMember(ctx context.Context, actor access.Actor, userID uuid.UUID) error {
	if userID != actor.UserID {
		if err := actor.Require(company.ActionManageMembers); err != nil {
			return err
		}
	}
	m, err := s.membershipRepo.Find(ctx, actor.CompanyID, userID)
	if err != nil {
		return err
	}
	if m.Role == company.RoleOwner && actor.Role != company.RoleOwner {
		return shared.Forbidden("Only an owner can remove an owner")
	}
	owners, err := s.membershipRepo.CountByRole(ctx, actor.CompanyID, company.RoleOwner)
	if err != nil {
		return err
	}
	if err := m.CanBeRemoved(owners); err != nil {
		return err
	}
	if err := s.membershipRepo.Delete(ctx, actor.CompanyID, userID); err != nil {
		return err
	}
	s.forgetMember(ctx, actor.CompanyID, userID)

	s.logger.Info("Member removed",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("member_id", userID.String()))
	return nil
}

// ResolveAccess returns the user's role in the company. A user without a
// membership gets FORBIDDEN; a deregistered company reads as not found.
func (s *CompanyService) ResolveAccess(ctx context.Context, companyID, userID uuid.UUID) (*MemberAccess, error) {
	key := memberKey(companyID, userID)
	if s.cache != nil {
		var cached MemberAccess
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return checkAccess(&cached)
		} else if err != nil {
			s.logger.Warn("Membership cache read failed", zap.Error(err))
		}
	}

	m, err := s.membershipRepo.Find(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Forbidden("You are not a member of this company")
		}
		return nil, err
	}
	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	result := &MemberAccess{CompanyID: companyID, UserID: userID, Role: m.Role, CompanyStatus: c.Status}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, memberAccessTTL); err != nil {
			s.logger.Warn("Membership cache write failed", zap.Error(err))
		}
	}
	return checkAccess(result)
}

func checkAccess(a *MemberAccess) (*MemberAccess, error) {
	if a.CompanyStatus == company.StatusDeregistered {
		return nil, shared.NotFound("Company")
	}
	return a, nil
}

func memberKey(companyID, userID uuid.UUID) string {
	return fmt.Sprintf("membership:%s:%s", companyID, userID)
}

func (s *CompanyService) forgetMember(ctx context.Context, companyID, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, memberKey(companyID, userID)); err != nil {
		s.logger.Warn("Membership cache invalidation failed", zap.Error(err))
	}
}

// forgetCompany drops the cached access of every member after a status change
func (s *CompanyService) forgetCompany(ctx context.Context, companyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	members, err := s.membershipRepo.FindByCompany(ctx, companyID)
	if err != nil {
		s.logger.Warn("Failed to load members for cache invalidation", zap.Error(err))
		return
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = memberKey(companyID, m.UserID)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Membership cache invalidation failed", zap.Error(err))
	}
}

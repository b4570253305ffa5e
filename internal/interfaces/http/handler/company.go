package handler

import (
	"github.com/gin-gonic/gin"
	companyapp "github.com/rwbiz/backend/internal/application/company"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// CompanyHandler handles company registration, profile and membership endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *companyapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *companyapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// ListQuery represents plain paging and search query parameters
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
}

func (q ListQuery) toFilter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}
}

// CreateCompany godoc
// @ID           createCompany
// @Summary      Register a company
// @Description  Create a company. The caller becomes its OWNER.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body companyapp.CompanyRequest true "Company profile"
// @Success      201 {object} APIResponse[companyapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req companyapp.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Company created", company)
}

// ListMyCompanies godoc
// @ID           listMyCompanies
// @Summary      List my companies
// @Description  List the companies the caller is a member of, with the caller's role
// @Tags         companies
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or TIN"
// @Success      200 {object} APIResponse[[]companyapp.CompanyResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) ListMyCompanies(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var query ListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	companies, total, err := h.companyService.ListMine(c.Request.Context(), userID, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Companies retrieved", companies, total, query.Page, query.PageSize)
}

// GetCompany godoc
// @ID           getCompany
// @Summary      Get the current company
// @Description  Get the profile of the company named by X-Company-ID
// @Tags         companies
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[companyapp.CompanyResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Company retrieved", company)
}

// UpdateCompany godoc
// @ID           updateCompany
// @Summary      Update the current company
// @Description  Replace the company profile. Requires OWNER or ADMIN.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body companyapp.CompanyRequest true "Company profile"
// @Success      200 {object} APIResponse[companyapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req companyapp.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Company updated", company)
}

// SetCompanyStatus godoc
// @ID           setCompanyStatus
// @Summary      Change company status
// @Description  Move the company between ACTIVE and DORMANT. Requires OWNER.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body companyapp.SetStatusRequest true "New status"
// @Success      200 {object} APIResponse[companyapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/status [patch]
func (h *CompanyHandler) SetCompanyStatus(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req companyapp.SetStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.SetStatus(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Company status updated", company)
}

// DeleteCompany godoc
// @ID           deleteCompany
// @Summary      Deregister the current company
// @Description  Mark the company deregistered. Its records are kept for audit. Requires OWNER.
// @Tags         companies
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), a); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListMembers godoc
// @ID           listCompanyMembers
// @Summary      List members
// @Description  List the users with access to the company
// @Tags         companies
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[[]companyapp.MemberResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/members [get]
func (h *CompanyHandler) ListMembers(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	members, err := h.companyService.ListMembers(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Members retrieved", members)
}

// AddMember godoc
// @ID           addCompanyMember
// @Summary      Add a member
// @Description  Grant an existing user a role in the company. Only an OWNER may add another OWNER.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body companyapp.AddMemberRequest true "Member"
// @Success      201 {object} APIResponse[companyapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/members [post]
func (h *CompanyHandler) AddMember(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req companyapp.AddMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.companyService.AddMember(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Member added", member)
}

// ChangeMemberRole godoc
// @ID           changeCompanyMemberRole
// @Summary      Change a member's role
// @Description  The last OWNER cannot be demoted
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body companyapp.ChangeRoleRequest true "Role"
// @Success      200 {object} APIResponse[companyapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/members/{userId} [put]
func (h *CompanyHandler) ChangeMemberRole(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	userID, ok := h.pathUUID(c, "userId", "user")
	if !ok {
		return
	}
	var req companyapp.ChangeRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.companyService.ChangeMemberRole(c.Request.Context(), a, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Member role updated", member)
}

// RemoveMember godoc
// @ID           removeCompanyMember
// @Summary      Remove a member
// @Description  Revoke a user's access. The last OWNER cannot be removed.
// @Tags         companies
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        userId path string true "User ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/members/{userId} [delete]
func (h *CompanyHandler) RemoveMember(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	userID, ok := h.pathUUID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.companyService.RemoveMember(c.Request.Context(), a, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	dividendapp "github.com/rwbiz/backend/internal/application/dividend"
)

// DividendHandler handles dividend declaration and distribution endpoints
type DividendHandler struct {
	BaseHandler
	dividendService *dividendapp.DividendService
}

// NewDividendHandler creates a new DividendHandler
func NewDividendHandler(dividendService *dividendapp.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// Create godoc
// @ID           createDividendDeclaration
// @Summary      Draft a dividend declaration
// @Tags         dividends
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body dividendapp.DeclarationRequest true "Declaration"
// @Success      201 {object} APIResponse[dividendapp.DeclarationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends [post]
func (h *DividendHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req dividendapp.DeclarationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.dividendService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Dividend declaration created", d)
}

// List godoc
// @ID           listDividendDeclarations
// @Summary      List dividend declarations
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status" Enums(DRAFT, DECLARED, DISTRIBUTED, CANCELLED)
// @Param        fiscal_year query int false "Fiscal year"
// @Success      200 {object} APIResponse[[]dividendapp.DeclarationResponse]
// @Security     BearerAuth
// @Router       /dividends [get]
func (h *DividendHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req dividendapp.ListDeclarationsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.dividendService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Dividend declarations retrieved", items, total, req.Page, req.PageSize)
}

// Get godoc
// @ID           getDividendDeclaration
// @Summary      Get a dividend declaration
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      200 {object} APIResponse[dividendapp.DeclarationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id} [get]
func (h *DividendHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	d, err := h.dividendService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend declaration retrieved", d)
}

// Update godoc
// @ID           updateDividendDeclaration
// @Summary      Update a draft declaration
// @Tags         dividends
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Param        request body dividendapp.DeclarationRequest true "Declaration"
// @Success      200 {object} APIResponse[dividendapp.DeclarationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id} [put]
func (h *DividendHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}
	var req dividendapp.DeclarationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.dividendService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend declaration updated", d)
}

// Delete godoc
// @ID           deleteDividendDeclaration
// @Summary      Delete a draft declaration
// @Tags         dividends
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id} [delete]
func (h *DividendHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	if err := h.dividendService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Declare godoc
// @ID           declareDividend
// @Summary      Declare a dividend
// @Description  Move a draft to DECLARED. Requires OWNER or ADMIN.
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      200 {object} APIResponse[dividendapp.DeclarationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id}/declare [post]
func (h *DividendHandler) Declare(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	d, err := h.dividendService.Declare(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend declared", d)
}

// Preview godoc
// @ID           previewDividendDistribution
// @Summary      Preview the distribution
// @Description  Compute the per-shareholder allocation without saving it
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      200 {object} APIResponse[dividendapp.DistributionSummary]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id}/preview [get]
func (h *DividendHandler) Preview(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	summary, err := h.dividendService.Preview(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Distribution preview calculated", summary)
}

// Distribute godoc
// @ID           distributeDividend
// @Summary      Distribute a declared dividend
// @Description  Allocate the declared amount pro rata to shares held, with withholding tax
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      200 {object} APIResponse[dividendapp.DistributionSummary]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id}/distribute [post]
func (h *DividendHandler) Distribute(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	summary, err := h.dividendService.Distribute(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend distributed", summary)
}

// Cancel godoc
// @ID           cancelDividendDeclaration
// @Summary      Cancel a declaration
// @Description  Distributed declarations cannot be cancelled
// @Tags         dividends
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Param        request body dividendapp.CancelRequest false "Reason"
// @Success      200 {object} APIResponse[dividendapp.DeclarationResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id}/cancel [post]
func (h *DividendHandler) Cancel(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}
	var req dividendapp.CancelRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	d, err := h.dividendService.Cancel(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend declaration cancelled", d)
}

// Distributions godoc
// @ID           listDividendDistributions
// @Summary      List a declaration's distributions
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Declaration ID" format(uuid)
// @Success      200 {object} APIResponse[dividendapp.DistributionSummary]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/{id}/distributions [get]
func (h *DividendHandler) Distributions(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "declaration")
	if !ok {
		return
	}

	summary, err := h.dividendService.Distributions(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Distributions retrieved", summary)
}

// PersonDistributions godoc
// @ID           listPersonDividendDistributions
// @Summary      List a shareholder's dividends
// @Tags         dividends
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[[]dividendapp.AllocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /persons/{id}/dividends [get]
func (h *DividendHandler) PersonDistributions(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "person")
	if !ok {
		return
	}

	items, err := h.dividendService.DistributionsForPerson(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Distributions retrieved", items)
}

// MarkDistributionPaid godoc
// @ID           markDividendDistributionPaid
// @Summary      Mark a distribution paid
// @Tags         dividends
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body dividendapp.MarkPaidRequest true "Payment"
// @Success      200 {object} APIResponse[dividendapp.AllocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dividends/distributions/{id}/pay [post]
func (h *DividendHandler) MarkDistributionPaid(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "distribution")
	if !ok {
		return
	}
	var req dividendapp.MarkPaidRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.dividendService.MarkDistributionPaid(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Distribution marked paid", item)
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	capitalapp "github.com/rwbiz/backend/internal/application/capital"
)

// CapitalHandler handles locked capital and early withdrawal endpoints
type CapitalHandler struct {
	BaseHandler
	capitalService *capitalapp.CapitalService
}

// NewCapitalHandler creates a new CapitalHandler
func NewCapitalHandler(capitalService *capitalapp.CapitalService) *CapitalHandler {
	return &CapitalHandler{
		capitalService: capitalService,
	}
}

// Create godoc
// @ID           createLockedCapital
// @Summary      Lock capital
// @Description  Record an investor's capital locked for a fixed period at an annual interest rate
// @Tags         capital
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body capitalapp.LockedCapitalRequest true "Lock terms"
// @Success      201 {object} APIResponse[capitalapp.LockedCapitalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital [post]
func (h *CapitalHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req capitalapp.LockedCapitalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lc, err := h.capitalService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Capital locked", lc)
}

// List godoc
// @ID           listLockedCapital
// @Summary      List locked capital
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status" Enums(LOCKED, UNLOCKED, EARLY_WITHDRAWAL_REQUESTED, WITHDRAWN)
// @Param        investor_id query string false "Investor ID" format(uuid)
// @Success      200 {object} APIResponse[[]capitalapp.LockedCapitalResponse]
// @Security     BearerAuth
// @Router       /capital [get]
func (h *CapitalHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req capitalapp.ListLockedCapitalRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.capitalService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Locked capital retrieved", items, total, req.Page, req.PageSize)
}

// Summary godoc
// @ID           getCapitalSummary
// @Summary      Capital summary
// @Description  Totals by status and by investor, and the locks unlocking within 90 days
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[capitalapp.SummaryResponse]
// @Security     BearerAuth
// @Router       /capital/summary [get]
func (h *CapitalHandler) Summary(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	summary, err := h.capitalService.Summary(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Capital summary retrieved", summary)
}

// Get godoc
// @ID           getLockedCapital
// @Summary      Get locked capital
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Success      200 {object} APIResponse[capitalapp.LockedCapitalResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id} [get]
func (h *CapitalHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}

	lc, err := h.capitalService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Locked capital retrieved", lc)
}

// Update godoc
// @ID           updateLockedCapital
// @Summary      Update locked capital
// @Description  Only LOCKED records can be edited
// @Tags         capital
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Param        request body capitalapp.LockedCapitalRequest true "Lock terms"
// @Success      200 {object} APIResponse[capitalapp.LockedCapitalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id} [put]
func (h *CapitalHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}
	var req capitalapp.LockedCapitalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lc, err := h.capitalService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Locked capital updated", lc)
}

// Delete godoc
// @ID           deleteLockedCapital
// @Summary      Delete locked capital
// @Tags         capital
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id} [delete]
func (h *CapitalHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}

	if err := h.capitalService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Unlock godoc
// @ID           unlockLockedCapital
// @Summary      Unlock capital
// @Description  Release a lock whose unlock date has passed
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Success      200 {object} APIResponse[capitalapp.LockedCapitalResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id}/unlock [post]
func (h *CapitalHandler) Unlock(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}

	lc, err := h.capitalService.Unlock(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Capital unlocked", lc)
}

// ROI godoc
// @ID           getLockedCapitalROI
// @Summary      Return on a lock
// @Description  Simple-interest return figures as of a date (default today)
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Param        as_of query string false "Valuation date" format(date)
// @Success      200 {object} APIResponse[capitalapp.ROIResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id}/roi [get]
func (h *CapitalHandler) ROI(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}
	asOf, ok := h.queryDate(c, "as_of", time.Now().UTC())
	if !ok {
		return
	}

	roi, err := h.capitalService.ROI(c.Request.Context(), a, id, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "ROI calculated", roi)
}

// RequestWithdrawal godoc
// @ID           requestEarlyWithdrawal
// @Summary      Request early withdrawal
// @Description  Ask to release a lock before its unlock date. One pending request per lock.
// @Tags         capital
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Locked capital ID" format(uuid)
// @Param        request body capitalapp.WithdrawalRequest true "Reason"
// @Success      201 {object} APIResponse[capitalapp.WithdrawalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/{id}/withdrawals [post]
func (h *CapitalHandler) RequestWithdrawal(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "locked capital")
	if !ok {
		return
	}
	var req capitalapp.WithdrawalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	w, err := h.capitalService.RequestEarlyWithdrawal(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Withdrawal requested", w)
}

// ListWithdrawals godoc
// @ID           listEarlyWithdrawals
// @Summary      List withdrawal requests
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status" Enums(PENDING, APPROVED, REJECTED)
// @Param        locked_capital_id query string false "Locked capital ID" format(uuid)
// @Success      200 {object} APIResponse[[]capitalapp.WithdrawalResponse]
// @Security     BearerAuth
// @Router       /capital/withdrawals [get]
func (h *CapitalHandler) ListWithdrawals(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req capitalapp.ListWithdrawalsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.capitalService.ListWithdrawals(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Withdrawal requests retrieved", items, total, req.Page, req.PageSize)
}

// GetWithdrawal godoc
// @ID           getEarlyWithdrawal
// @Summary      Get a withdrawal request
// @Tags         capital
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Success      200 {object} APIResponse[capitalapp.WithdrawalResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/withdrawals/{id} [get]
func (h *CapitalHandler) GetWithdrawal(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "withdrawal")
	if !ok {
		return
	}

	w, err := h.capitalService.GetWithdrawal(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Withdrawal request retrieved", w)
}

// ReviewWithdrawal godoc
// @ID           reviewEarlyWithdrawal
// @Summary      Review a withdrawal request
// @Description  Approve or reject a pending request. Requires OWNER or ADMIN.
// @Tags         capital
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Withdrawal ID" format(uuid)
// @Param        request body capitalapp.ReviewWithdrawalRequest true "Decision"
// @Success      200 {object} APIResponse[capitalapp.WithdrawalResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /capital/withdrawals/{id}/review [post]
func (h *CapitalHandler) ReviewWithdrawal(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "withdrawal")
	if !ok {
		return
	}
	var req capitalapp.ReviewWithdrawalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	w, err := h.capitalService.ReviewWithdrawal(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Withdrawal request reviewed", w)
}

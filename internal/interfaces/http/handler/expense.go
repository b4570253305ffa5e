package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	expenseapp "github.com/rwbiz/backend/internal/application/expense"
)

// ExpenseHandler handles the expense ledger endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *expenseapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *expenseapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// Categories godoc
// @ID           listExpenseCategories
// @Summary      Expense categories
// @Description  RRA expense categories and whether each is deductible for CIT
// @Tags         expenses
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[[]expense.CategoryInfo]
// @Security     BearerAuth
// @Router       /expenses/categories [get]
func (h *ExpenseHandler) Categories(c *gin.Context) {
	h.Success(c, "Expense categories retrieved", h.expenseService.Categories())
}

// Create godoc
// @ID           createExpense
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body expenseapp.ExpenseRequest true "Expense"
// @Success      201 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req expenseapp.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	e, err := h.expenseService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Expense recorded", e)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Description or supplier"
// @Param        category query string false "Category"
// @Param        status query string false "Status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} APIResponse[[]expenseapp.ExpenseResponse]
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req expenseapp.ListExpensesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.expenseService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Expenses retrieved", items, total, req.Page, req.PageSize)
}

// Summary godoc
// @ID           summarizeExpenses
// @Summary      Expense totals per category
// @Tags         expenses
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        from query string true "From date" format(date)
// @Param        to query string true "To date" format(date)
// @Param        status query string false "Status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Success      200 {object} APIResponse[expenseapp.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req expenseapp.SummaryRequest
	if !h.bindQuery(c, &req) {
		return
	}

	summary, err := h.expenseService.Summary(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Expense summary retrieved", summary)
}

// Get godoc
// @ID           getExpense
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "expense")
	if !ok {
		return
	}

	e, err := h.expenseService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Expense retrieved", e)
}

// Update godoc
// @ID           updateExpense
// @Summary      Update a draft expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body expenseapp.ExpenseRequest true "Expense"
// @Success      200 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "expense")
	if !ok {
		return
	}
	var req expenseapp.ExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	e, err := h.expenseService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Expense updated", e)
}

// Submit godoc
// @ID           submitExpense
// @Summary      Submit an expense for approval
// @Tags         expenses
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/submit [post]
func (h *ExpenseHandler) Submit(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "expense")
	if !ok {
		return
	}

	e, err := h.expenseService.Submit(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Expense submitted", e)
}

// Approve godoc
// @ID           approveExpense
// @Summary      Approve a submitted expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body expenseapp.ReviewRequest false "Notes"
// @Success      200 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.review(c, "Expense approved", h.expenseService.Approve)
}

// Reject godoc
// @ID           rejectExpense
// @Summary      Reject a submitted expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body expenseapp.ReviewRequest false "Notes"
// @Success      200 {object} APIResponse[expenseapp.ExpenseResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/reject [post]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.review(c, "Expense rejected", h.expenseService.Reject)
}

// Delete godoc
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "expense")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type expenseReview func(context.Context, access.Actor, uuid.UUID, expenseapp.ReviewRequest) (*expenseapp.ExpenseResponse, error)

func (h *ExpenseHandler) review(c *gin.Context, message string, fn expenseReview) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "expense")
	if !ok {
		return
	}
	var req expenseapp.ReviewRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	e, err := fn(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, message, e)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	payrollapp "github.com/rwbiz/backend/internal/application/payroll"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
)

// PayrollHandler handles payroll calculation and monthly run endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
	}
}

// Calculate godoc
// @ID           calculatePayroll
// @Summary      Preview deductions on a gross salary
// @Description  PAYE bands, RSSB pension and maternity, and CBHI computed for one gross amount
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body payrollapp.CalculateRequest true "Gross salary"
// @Success      200 {object} APIResponse[payrollapp.BreakdownResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/calculate [post]
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var req payrollapp.CalculateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	breakdown, err := h.payrollService.Calculate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Payroll calculated", breakdown)
}

// CreateRun godoc
// @ID           createPayrollRun
// @Summary      Open a payroll run
// @Description  Compute payslips for every active employee. One run per month.
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body payrollapp.CreateRunRequest true "Period"
// @Success      201 {object} APIResponse[payrollapp.RunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs [post]
func (h *PayrollHandler) CreateRun(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req payrollapp.CreateRunRequest
	if !h.bindJSON(c, &req) {
		return
	}

	run, err := h.payrollService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Payroll run created", run)
}

// ListRuns godoc
// @ID           listPayrollRuns
// @Summary      List payroll runs
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        year query int false "Year"
// @Param        status query string false "Status" Enums(DRAFT, APPROVED, PAID)
// @Success      200 {object} APIResponse[[]payrollapp.RunResponse]
// @Security     BearerAuth
// @Router       /payroll/runs [get]
func (h *PayrollHandler) ListRuns(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req payrollapp.ListRunsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	runs, total, err := h.payrollService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Payroll runs retrieved", runs, total, req.Page, req.PageSize)
}

// GetRun godoc
// @ID           getPayrollRun
// @Summary      Get a payroll run
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Run ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.RunResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs/{id} [get]
func (h *PayrollHandler) GetRun(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "payroll run")
	if !ok {
		return
	}

	run, err := h.payrollService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Payroll run retrieved", run)
}

// GetRunByPeriod godoc
// @ID           getPayrollRunByPeriod
// @Summary      Get the payroll run of a month
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year path int true "Year"
// @Param        month path int true "Month"
// @Success      200 {object} APIResponse[payrollapp.RunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/periods/{year}/{month} [get]
func (h *PayrollHandler) GetRunByPeriod(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid month")
		return
	}

	run, err := h.payrollService.GetByPeriod(c.Request.Context(), a, year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Payroll run retrieved", run)
}

// RecalculateRun godoc
// @ID           recalculatePayrollRun
// @Summary      Recalculate a draft run
// @Description  Rebuild payslips from the current employee records
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Run ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.RunResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs/{id}/recalculate [post]
func (h *PayrollHandler) RecalculateRun(c *gin.Context) {
	h.transition(c, "Payroll run recalculated", h.payrollService.Recalculate)
}

// ApproveRun godoc
// @ID           approvePayrollRun
// @Summary      Approve a payroll run
// @Description  Requires OWNER or ADMIN
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Run ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.RunResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs/{id}/approve [post]
func (h *PayrollHandler) ApproveRun(c *gin.Context) {
	h.transition(c, "Payroll run approved", h.payrollService.Approve)
}

// MarkRunPaid godoc
// @ID           markPayrollRunPaid
// @Summary      Mark a payroll run paid
// @Tags         payroll
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Run ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.RunResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs/{id}/pay [post]
func (h *PayrollHandler) MarkRunPaid(c *gin.Context) {
	h.transition(c, "Payroll run marked paid", h.payrollService.MarkPaid)
}

// DeleteRun godoc
// @ID           deletePayrollRun
// @Summary      Delete a draft run
// @Tags         payroll
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Run ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/runs/{id} [delete]
func (h *PayrollHandler) DeleteRun(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "payroll run")
	if !ok {
		return
	}

	if err := h.payrollService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type runTransition func(context.Context, access.Actor, uuid.UUID) (*payrollapp.RunResponse, error)

func (h *PayrollHandler) transition(c *gin.Context, message string, fn runTransition) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "payroll run")
	if !ok {
		return
	}

	run, err := fn(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, message, run)
}

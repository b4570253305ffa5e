package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/rwbiz/backend/internal/application/report"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
)

// ReportHandler serves the dashboard, statutory registers and exports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Company dashboard
// @Description  Capital, dividends, receivables, tax and expense cards. Cached for a short time.
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[reportapp.DashboardResponse]
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	d, err := h.reportService.Dashboard(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dashboard retrieved", d)
}

// Shareholders godoc
// @ID           getShareholderRegister
// @Summary      Shareholder register
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[reportapp.ShareholderRegisterResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/shareholders [get]
func (h *ReportHandler) Shareholders(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	r, err := h.reportService.ShareholderRegister(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Shareholder register retrieved", r)
}

// Capital godoc
// @ID           getCapitalReport
// @Summary      Locked capital report
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[reportapp.CapitalReportResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/capital [get]
func (h *ReportHandler) Capital(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	r, err := h.reportService.CapitalReport(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Capital report retrieved", r)
}

// Dividends godoc
// @ID           getDividendReport
// @Summary      Dividend report of a year
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year query int false "Fiscal year, defaults to the current year"
// @Success      200 {object} APIResponse[reportapp.DividendReportResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/dividends [get]
func (h *ReportHandler) Dividends(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}

	r, err := h.reportService.DividendReport(c.Request.Context(), a, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Dividend report retrieved", r)
}

// Payroll godoc
// @ID           getPayrollReport
// @Summary      Payroll report of a month
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year query int false "Year, defaults to the current year"
// @Param        month query int false "Month, defaults to the current month"
// @Success      200 {object} APIResponse[reportapp.PayrollReportResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/payroll [get]
func (h *ReportHandler) Payroll(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	now := time.Now().UTC()
	year, ok := h.queryInt(c, "year", now.Year())
	if !ok {
		return
	}
	month, ok := h.queryInt(c, "month", int(now.Month()))
	if !ok {
		return
	}
	if month < 1 || month > 12 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Month must be between 1 and 12")
		return
	}

	r, err := h.reportService.PayrollReport(c.Request.Context(), a, year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Payroll report retrieved", r)
}

// Tax godoc
// @ID           getTaxSummary
// @Summary      Tax summary of a year
// @Tags         reports
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year query int false "Year, defaults to the current year"
// @Success      200 {object} APIResponse[reportapp.TaxSummaryResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/tax [get]
func (h *ReportHandler) Tax(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}

	r, err := h.reportService.TaxSummary(c.Request.Context(), a, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax summary retrieved", r)
}

// Export godoc
// @ID           exportReport
// @Summary      Export a report
// @Description  Download a report as PDF or XLSX
// @Tags         reports
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        kind path string true "Report" Enums(shareholders, capital, dividends, payroll, tax)
// @Param        format query string true "File format" Enums(pdf, xlsx)
// @Param        year query int false "Year"
// @Param        month query int false "Month, payroll only"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{kind}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	kind := reportapp.Kind(c.Param("kind"))
	switch kind {
	case reportapp.KindShareholders, reportapp.KindCapital, reportapp.KindDividends, reportapp.KindPayroll, reportapp.KindTax:
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown report: "+string(kind))
		return
	}
	var req reportapp.ExportRequest
	if !h.bindQuery(c, &req) {
		return
	}

	file, err := h.reportService.Export(c.Request.Context(), a, kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Attachment(c, file.Filename, file.ContentType, file.Content)
}

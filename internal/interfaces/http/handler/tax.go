package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	taxapp "github.com/rwbiz/backend/internal/application/tax"
)

// TaxHandler handles RRA tax filing endpoints
type TaxHandler struct {
	BaseHandler
	taxService *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

// Compute godoc
// @ID           computeTaxFiling
// @Summary      Compute a tax return
// @Description  Build a draft VAT, PAYE, CIT or QIT return from the books of the period
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body taxapp.ComputeRequest true "Tax type and period"
// @Success      201 {object} APIResponse[taxapp.FilingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings [post]
func (h *TaxHandler) Compute(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req taxapp.ComputeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	filing, err := h.taxService.Compute(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Tax return computed", filing)
}

// List godoc
// @ID           listTaxFilings
// @Summary      List tax returns
// @Tags         tax
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        type query string false "Tax type" Enums(VAT, PAYE, CIT, QIT)
// @Param        status query string false "Status" Enums(DRAFT, FILED, PAID, OVERDUE)
// @Param        year query int false "Year"
// @Success      200 {object} APIResponse[[]taxapp.FilingResponse]
// @Security     BearerAuth
// @Router       /tax/filings [get]
func (h *TaxHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req taxapp.ListFilingsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.taxService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Tax returns retrieved", items, total, req.Page, req.PageSize)
}

// Get godoc
// @ID           getTaxFiling
// @Summary      Get a tax return
// @Tags         tax
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Filing ID" format(uuid)
// @Success      200 {object} APIResponse[taxapp.FilingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings/{id} [get]
func (h *TaxHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "filing")
	if !ok {
		return
	}

	filing, err := h.taxService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax return retrieved", filing)
}

// Recompute godoc
// @ID           recomputeTaxFiling
// @Summary      Recompute a draft return
// @Tags         tax
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Filing ID" format(uuid)
// @Success      200 {object} APIResponse[taxapp.FilingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings/{id}/recompute [post]
func (h *TaxHandler) Recompute(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "filing")
	if !ok {
		return
	}

	filing, err := h.taxService.Recompute(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax return recomputed", filing)
}

// File godoc
// @ID           fileTaxFiling
// @Summary      Mark a return filed with RRA
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Filing ID" format(uuid)
// @Param        request body taxapp.FileRequest false "RRA reference"
// @Success      200 {object} APIResponse[taxapp.FilingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings/{id}/file [post]
func (h *TaxHandler) File(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "filing")
	if !ok {
		return
	}
	var req taxapp.FileRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	filing, err := h.taxService.File(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax return filed", filing)
}

// MarkPaid godoc
// @ID           payTaxFiling
// @Summary      Mark a return paid
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Filing ID" format(uuid)
// @Param        request body taxapp.PayRequest false "Payment reference"
// @Success      200 {object} APIResponse[taxapp.FilingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings/{id}/pay [post]
func (h *TaxHandler) MarkPaid(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "filing")
	if !ok {
		return
	}
	var req taxapp.PayRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	filing, err := h.taxService.MarkPaid(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax return marked paid", filing)
}

// Delete godoc
// @ID           deleteTaxFiling
// @Summary      Delete a draft return
// @Tags         tax
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Filing ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tax/filings/{id} [delete]
func (h *TaxHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "filing")
	if !ok {
		return
	}

	if err := h.taxService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Calendar godoc
// @ID           taxCalendar
// @Summary      Tax calendar of a year
// @Description  Every filing period of the year with its due date and the matching return, if any
// @Tags         tax
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year query int false "Year, defaults to the current year"
// @Success      200 {object} APIResponse[[]taxapp.CalendarEntry]
// @Security     BearerAuth
// @Router       /tax/calendar [get]
func (h *TaxHandler) Calendar(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}

	entries, err := h.taxService.Calendar(c.Request.Context(), a, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Tax calendar retrieved", entries)
}

package handler

import (
	"github.com/gin-gonic/gin"
	currencyapp "github.com/rwbiz/backend/internal/application/currency"
)

// CurrencyHandler handles exchange rate endpoints
type CurrencyHandler struct {
	BaseHandler
	currencyService *currencyapp.CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencyService *currencyapp.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
	}
}

// CreateRate godoc
// @ID           createExchangeRate
// @Summary      Record an exchange rate
// @Tags         currency
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body currencyapp.RateRequest true "Rate"
// @Success      201 {object} APIResponse[currencyapp.RateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /currency/rates [post]
func (h *CurrencyHandler) CreateRate(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req currencyapp.RateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rate, err := h.currencyService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Exchange rate recorded", rate)
}

// ListRates godoc
// @ID           listExchangeRates
// @Summary      List exchange rates
// @Tags         currency
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        base query string false "Base currency"
// @Param        quote query string false "Quote currency"
// @Success      200 {object} APIResponse[[]currencyapp.RateResponse]
// @Security     BearerAuth
// @Router       /currency/rates [get]
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req currencyapp.ListRatesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.currencyService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Exchange rates retrieved", items, total, req.Page, req.PageSize)
}

// GetRate godoc
// @ID           getExchangeRate
// @Summary      Get an exchange rate
// @Tags         currency
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Rate ID" format(uuid)
// @Success      200 {object} APIResponse[currencyapp.RateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /currency/rates/{id} [get]
func (h *CurrencyHandler) GetRate(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "rate")
	if !ok {
		return
	}

	rate, err := h.currencyService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Exchange rate retrieved", rate)
}

// DeleteRate godoc
// @ID           deleteExchangeRate
// @Summary      Delete an exchange rate
// @Tags         currency
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Rate ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /currency/rates/{id} [delete]
func (h *CurrencyHandler) DeleteRate(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "rate")
	if !ok {
		return
	}

	if err := h.currencyService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Convert godoc
// @ID           convertCurrency
// @Summary      Convert an amount
// @Description  Uses the latest rate effective on or before the date, inverting the pair when only the reverse is known
// @Tags         currency
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        amount query string true "Amount"
// @Param        from query string true "Source currency"
// @Param        to query string true "Target currency"
// @Param        date query string false "As-of date" format(date)
// @Success      200 {object} APIResponse[currency.Conversion]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /currency/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req currencyapp.ConvertRequest
	if !h.bindQuery(c, &req) {
		return
	}

	conv, err := h.currencyService.Convert(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Amount converted", conv)
}

package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rwbiz/backend/internal/application/billing"
)

// BillingHandler handles invoice and receipt endpoints
type BillingHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(invoiceService *billingapp.InvoiceService) *BillingHandler {
	return &BillingHandler{
		invoiceService: invoiceService,
	}
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Draft an invoice
// @Description  Line totals and VAT are computed server side. Numbers are assigned on issue.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body billingapp.InvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req billingapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Invoice created", inv)
}

// ListInvoices godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search number or customer"
// @Param        status query string false "Status" Enums(DRAFT, ISSUED, PARTIALLY_PAID, PAID, OVERDUE, CANCELLED)
// @Param        from query string false "Issued from" format(date)
// @Param        to query string false "Issued to" format(date)
// @Success      200 {object} APIResponse[[]billingapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req billingapp.ListInvoicesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.invoiceService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Invoices retrieved", items, total, req.Page, req.PageSize)
}

// Receivables godoc
// @ID           getReceivables
// @Summary      Outstanding receivables
// @Description  Open balances grouped by currency with an ageing split
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.ReceivablesResponse]
// @Security     BearerAuth
// @Router       /invoices/receivables [get]
func (h *BillingHandler) Receivables(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	rec, err := h.invoiceService.Receivables(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Receivables retrieved", rec)
}

// GetInvoice godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Invoice retrieved", inv)
}

// UpdateInvoice godoc
// @ID           updateInvoice
// @Summary      Update a draft invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.InvoiceRequest true "Invoice"
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *BillingHandler) UpdateInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}
	var req billingapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Invoice updated", inv)
}

// IssueInvoice godoc
// @ID           issueInvoice
// @Summary      Issue an invoice
// @Description  Assign the next number of the year and open the invoice for payment
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/issue [post]
func (h *BillingHandler) IssueInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Issue(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Invoice issued", inv)
}

// CancelInvoice godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice
// @Description  Invoices with recorded payments cannot be cancelled
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [post]
func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Cancel(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Invoice cancelled", inv)
}

// DeleteInvoice godoc
// @ID           deleteInvoice
// @Summary      Delete a draft invoice
// @Tags         billing
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *BillingHandler) DeleteInvoice(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ExportInvoicePDF godoc
// @ID           exportInvoicePdf
// @Summary      Download an invoice as PDF
// @Tags         billing
// @Produce      application/pdf
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *BillingHandler) ExportInvoicePDF(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}

	pdf, filename, err := h.invoiceService.ExportPDF(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Attachment(c, filename, "application/pdf", pdf)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment
// @Description  Issue a receipt against the invoice. Overpayment is refused.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.ReceiptRequest true "Payment"
// @Success      201 {object} APIResponse[billingapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "invoice")
	if !ok {
		return
	}
	var req billingapp.ReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.invoiceService.RecordPayment(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Payment recorded", payment)
}

// ListReceipts godoc
// @ID           listReceipts
// @Summary      List receipts
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        invoice_id query string false "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[[]billingapp.ReceiptResponse]
// @Security     BearerAuth
// @Router       /receipts [get]
func (h *BillingHandler) ListReceipts(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req billingapp.ListReceiptsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.invoiceService.ListReceipts(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Receipts retrieved", items, total, req.Page, req.PageSize)
}

// GetReceipt godoc
// @ID           getReceipt
// @Summary      Get a receipt
// @Tags         billing
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id} [get]
func (h *BillingHandler) GetReceipt(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "receipt")
	if !ok {
		return
	}

	rc, err := h.invoiceService.GetReceipt(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Receipt retrieved", rc)
}

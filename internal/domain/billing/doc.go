// Package billing provides the sales invoicing model of a company.
//
// Key aggregates:
//   - Invoice: a numbered sales invoice with VAT computed per line
//   - Receipt: money received against an issued invoice
//
// Invoice and receipt numbers follow PREFIX-YYYYMM-##### and are sequenced
// per company and month. Paying an invoice always goes through NewReceipt so
// the invoice balance and the receipt are written together.
//
// The billing domain integrates with:
//   - Tax domain: output VAT and CIT revenue are read from issued invoices
//   - Report domain: receivables and overdue invoices feed the dashboard
package billing

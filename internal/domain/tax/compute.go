package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rates holds tax rates as fractions
type Rates struct {
	VAT decimal.Decimal
	CIT decimal.Decimal
	// QITShare is the share of the prior year's CIT payable per installment
	QITShare decimal.Decimal
}

// DefaultRates returns the standard Rwandan rates
func DefaultRates() Rates {
	return Rates{
		VAT:      decimal.RequireFromString("0.18"),
		CIT:      decimal.RequireFromString("0.30"),
		QITShare: decimal.RequireFromString("0.25"),
	}
}

// Result is the outcome of a tax computation
type Result struct {
	Taxable decimal.Decimal
	Tax     decimal.Decimal
	Credits decimal.Decimal
	Notes   string
}

// VATInputs are the period's output and input VAT
type VATInputs struct {
	OutputVAT decimal.Decimal
	InputVAT  decimal.Decimal
	Sales     decimal.Decimal
}

// ComputeVAT nets output VAT against input VAT. A negative amount due is a credit.
func ComputeVAT(in VATInputs) Result {
	return Result{
		Taxable: in.Sales,
		Tax:     in.OutputVAT,
		Credits: in.InputVAT,
		Notes:   fmt.Sprintf("Output VAT %s, input VAT %s", in.OutputVAT.String(), in.InputVAT.String()),
	}
}

// ComputePAYE reports the PAYE withheld by the month's payroll
func ComputePAYE(gross, paye decimal.Decimal) Result {
	return Result{Taxable: gross, Tax: paye, Credits: decimal.Zero}
}

// CITInputs are the fiscal year figures for corporate income tax
type CITInputs struct {
	Revenue            decimal.Decimal
	DeductibleExpenses decimal.Decimal
	Depreciation       decimal.Decimal
	QITPaid            decimal.Decimal
}

// ComputeCIT taxes the year's profit, crediting QIT installments already paid
func ComputeCIT(in CITInputs, rates Rates) Result {
	taxable := in.Revenue.Sub(in.DeductibleExpenses).Sub(in.Depreciation)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	return Result{
		Taxable: taxable,
		Tax:     taxable.Mul(rates.CIT),
		Credits: in.QITPaid,
		Notes: fmt.Sprintf("Revenue %s, deductible expenses %s, depreciation %s",
			in.Revenue.String(), in.DeductibleExpenses.String(), in.Depreciation.String()),
	}
}

// ComputeQIT returns one installment based on the prior year's CIT. When no
// prior CIT exists the installment is zero.
func ComputeQIT(priorCIT *decimal.Decimal, rates Rates) Result {
	if priorCIT == nil {
		return Result{Taxable: decimal.Zero, Tax: decimal.Zero, Credits: decimal.Zero, Notes: "No prior year CIT filing"}
	}
	return Result{
		Taxable: *priorCIT,
		Tax:     priorCIT.Mul(rates.QITShare),
		Credits: decimal.Zero,
	}
}

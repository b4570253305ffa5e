package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names an exportable report
type Kind string

const (
	KindShareholders Kind = "shareholders"
	KindCapital      Kind = "capital"
	KindDividends    Kind = "dividends"
	KindPayroll      Kind = "payroll"
	KindTax          Kind = "tax"
)

// Format is an export file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// DashboardResponse is the company overview
type DashboardResponse struct {
	CompanyID        uuid.UUID        `json:"company_id"`
	Currency         string           `json:"currency"`
	GeneratedAt      time.Time        `json:"generated_at"`
	Persons          map[string]int64 `json:"persons"`
	Employees        int              `json:"employees"`
	Documents        int64            `json:"documents"`
	UpcomingMeetings int64            `json:"upcoming_meetings"`
	Capital          CapitalCard      `json:"capital"`
	Dividends        DividendCard     `json:"dividends"`
	Receivables      ReceivablesCard  `json:"receivables"`
	Tax              TaxCard          `json:"tax"`
	Expenses         ExpenseCard      `json:"expenses"`
}

// CurrencyTotal is an amount in one currency
type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Count    int64           `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// UpcomingUnlock is a lock maturing soon
type UpcomingUnlock struct {
	ID         uuid.UUID       `json:"id"`
	InvestorID uuid.UUID       `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	UnlockDate time.Time       `json:"unlock_date"`
}

// CapitalCard summarises locked capital
type CapitalCard struct {
	Locked      []CurrencyTotal  `json:"locked"`
	NextUnlocks []UpcomingUnlock `json:"next_unlocks"`
}

// DividendCard summarises dividends declared this year
type DividendCard struct {
	Year        int             `json:"year"`
	DeclaredYTD decimal.Decimal `json:"declared_ytd"`
}

// ReceivablesCard summarises money owed by clients
type ReceivablesCard struct {
	Outstanding  decimal.Decimal `json:"outstanding"`
	OverdueCount int64           `json:"overdue_count"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
}

// TaxCard summarises unpaid filings
type TaxCard struct {
	OpenFilings int64      `json:"open_filings"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// ExpenseCard summarises approved expenses of the current month
type ExpenseCard struct {
	Month string          `json:"month" example:"2025-06"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ShareholderRow is one line of the cap table
type ShareholderRow struct {
	PersonID      uuid.UUID       `json:"person_id"`
	FullName      string          `json:"full_name"`
	NationalID    string          `json:"national_id,omitempty"`
	ShareClass    string          `json:"share_class,omitempty"`
	Shares        int64           `json:"shares"`
	Percentage    decimal.Decimal `json:"percentage"`
	LockedCapital decimal.Decimal `json:"locked_capital"`
}

// ShareholderRegisterResponse is the company cap table
type ShareholderRegisterResponse struct {
	CompanyName      string           `json:"company_name"`
	Currency         string           `json:"currency"`
	AuthorizedShares int64            `json:"authorized_shares"`
	IssuedShares     int64            `json:"issued_shares"`
	UnissuedShares   int64            `json:"unissued_shares"`
	TotalLocked      decimal.Decimal  `json:"total_locked"`
	Shareholders     []ShareholderRow `json:"shareholders"`
}

// CapitalRow is one lock in the capital report
type CapitalRow struct {
	ID                 uuid.UUID       `json:"id"`
	InvestorID         uuid.UUID       `json:"investor_id"`
	InvestorName       string          `json:"investor_name"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	LockDate           time.Time       `json:"lock_date"`
	UnlockDate         time.Time       `json:"unlock_date"`
	LockPeriodMonths   int             `json:"lock_period_months"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	Status             string          `json:"status"`
	ExpectedReturn     decimal.Decimal `json:"expected_return"`
	AccruedInterest    decimal.Decimal `json:"accrued_interest"`
}

// CapitalReportResponse lists every lock with totals per status
type CapitalReportResponse struct {
	AsOf   time.Time     `json:"as_of"`
	Totals []StatusTotal `json:"totals"`
	Rows   []CapitalRow  `json:"rows"`
}

// StatusTotal is the sum of locks in one status and currency
type StatusTotal struct {
	Status   string          `json:"status"`
	Currency string          `json:"currency"`
	Count    int64           `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// DividendRow is one shareholder's payout in a declaration
type DividendRow struct {
	DeclarationID   uuid.UUID       `json:"declaration_id"`
	DeclarationDate time.Time       `json:"declaration_date"`
	PersonID        uuid.UUID       `json:"person_id"`
	PersonName      string          `json:"person_name"`
	Shares          int64           `json:"shares"`
	Percentage      decimal.Decimal `json:"percentage"`
	Gross           decimal.Decimal `json:"gross"`
	WithholdingTax  decimal.Decimal `json:"withholding_tax"`
	Net             decimal.Decimal `json:"net"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
}

// DividendReportResponse covers the declarations of a fiscal year
type DividendReportResponse struct {
	FiscalYear     int             `json:"fiscal_year"`
	Declarations   int             `json:"declarations"`
	DeclaredTotal  decimal.Decimal `json:"declared_total"`
	GrossTotal     decimal.Decimal `json:"gross_total"`
	WithholdingTax decimal.Decimal `json:"withholding_tax"`
	NetTotal       decimal.Decimal `json:"net_total"`
	Rows           []DividendRow   `json:"rows"`
}

// PayrollRow is one payslip of the payroll report
type PayrollRow struct {
	PersonID     uuid.UUID       `json:"person_id"`
	FullName     string          `json:"full_name"`
	RSSBNumber   string          `json:"rssb_number,omitempty"`
	Gross        decimal.Decimal `json:"gross"`
	PAYE         decimal.Decimal `json:"paye"`
	RSSBEmployee decimal.Decimal `json:"rssb_employee"`
	RSSBEmployer decimal.Decimal `json:"rssb_employer"`
	CBHI         decimal.Decimal `json:"cbhi"`
	Net          decimal.Decimal `json:"net"`
	EmployerCost decimal.Decimal `json:"employer_cost"`
}

// PayrollReportResponse is the payroll of one month
type PayrollReportResponse struct {
	RunID  uuid.UUID    `json:"run_id"`
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Status string       `json:"status"`
	Totals PayrollRow   `json:"totals"`
	Rows   []PayrollRow `json:"rows"`
}

// TaxRow is one filing of the tax summary
type TaxRow struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	DueDate       time.Time       `json:"due_date"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Status        string          `json:"status"`
}

// TaxTypeTotal sums the filings of one tax type
type TaxTypeTotal struct {
	Type      string          `json:"type"`
	Filings   int             `json:"filings"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	AmountDue decimal.Decimal `json:"amount_due"`
	Paid      decimal.Decimal `json:"paid"`
}

// TaxSummaryResponse covers the filings of a year
type TaxSummaryResponse struct {
	Year   int            `json:"year"`
	Totals []TaxTypeTotal `json:"totals"`
	Rows   []TaxRow       `json:"rows"`
}

// ExportRequest selects a report and a file format
type ExportRequest struct {
	Format Format `form:"format" binding:"required,oneof=pdf xlsx" example:"xlsx"`
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2200" example:"2025"`
	Month  int    `form:"month" binding:"omitempty,min=1,max=12" example:"6"`
}

// File is a rendered export
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

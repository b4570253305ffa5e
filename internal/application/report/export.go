package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TemplateReport is the print template shared by all tabular reports
const TemplateReport = "report"

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ColumnKind tells writers how to format a cell
type ColumnKind string

const (
	ColumnText    ColumnKind = "text"
	ColumnInteger ColumnKind = "integer"
	ColumnMoney   ColumnKind = "money"
	ColumnPercent ColumnKind = "percent"
	ColumnDate    ColumnKind = "date"
)

// Column is a table header
type Column struct {
	Header string     `json:"header"`
	Kind   ColumnKind `json:"kind"`
}

// Table is the export-neutral shape of a report. Cells hold strings,
// int64, decimal.Decimal or time.Time according to the column kind.
type Table struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Columns  []Column `json:"columns"`
	Rows     [][]any  `json:"rows"`
	// Footer is an optional totals row
	Footer []any `json:"footer,omitempty"`
}

// Printer renders a named HTML template with data to PDF
type Printer interface {
	RenderPDF(ctx context.Context, template, title string, data any) ([]byte, error)
}

// SheetWriter writes a table to an XLSX workbook
type SheetWriter interface {
	WriteTable(t Table) ([]byte, error)
}

// Export renders a report as a downloadable file
func (s *ReportService) Export(ctx context.Context, actor access.Actor, kind Kind, req ExportRequest) (*File, error) {
	table, err := s.table(ctx, actor, kind, req)
	if err != nil {
		return nil, err
	}

	stamp := s.now().Format("20060102")
	var file *File
	switch req.Format {
	case FormatPDF:
		if s.printer == nil {
			return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "PDF export is not configured")
		}
		content, err := s.printer.RenderPDF(ctx, TemplateReport, table.Title, table)
		if err != nil {
			return nil, fmt.Errorf("render %s report: %w", kind, err)
		}
		file = &File{Filename: fmt.Sprintf("%s-%s.pdf", kind, stamp), ContentType: contentTypePDF, Content: content}
	case FormatXLSX:
		if s.sheets == nil {
			return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Spreadsheet export is not configured")
		}
		content, err := s.sheets.WriteTable(*table)
		if err != nil {
			return nil, fmt.Errorf("write %s workbook: %w", kind, err)
		}
		file = &File{Filename: fmt.Sprintf("%s-%s.xlsx", kind, stamp), ContentType: contentTypeXLSX, Content: content}
	default:
		return nil, shared.InvalidInput("Format must be pdf or xlsx")
	}

	logger.Enrich(ctx, s.logger).Info("Report exported",
		zap.String("report", string(kind)),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("bytes", len(file.Content)),
	)
	return file, nil
}

func (s *ReportService) table(ctx context.Context, actor access.Actor, kind Kind, req ExportRequest) (*Table, error) {
	year := req.Year
	if year == 0 {
		year = s.now().Year()
	}
	switch kind {
	case KindShareholders:
		r, err := s.ShareholderRegister(ctx, actor)
		if err != nil {
			return nil, err
		}
		return shareholderTable(r), nil
	case KindCapital:
		r, err := s.CapitalReport(ctx, actor)
		if err != nil {
			return nil, err
		}
		return capitalTable(r), nil
	case KindDividends:
		r, err := s.DividendReport(ctx, actor, year)
		if err != nil {
			return nil, err
		}
		return dividendTable(r), nil
	case KindPayroll:
		month := req.Month
		if month == 0 {
			month = int(s.now().Month())
		}
		r, err := s.PayrollReport(ctx, actor, year, month)
		if err != nil {
			return nil, err
		}
		return payrollTable(r), nil
	case KindTax:
		r, err := s.TaxSummary(ctx, actor, year)
		if err != nil {
			return nil, err
		}
		return taxTable(r), nil
	default:
		return nil, shared.NotFound("Report")
	}
}

func shareholderTable(r *ShareholderRegisterResponse) *Table {
	t := &Table{
		Title:    "Shareholder register",
		Subtitle: fmt.Sprintf("%s, %d of %d authorized shares issued", r.CompanyName, r.IssuedShares, r.AuthorizedShares),
		Columns: []Column{
			{"Shareholder", ColumnText},
			{"National ID", ColumnText},
			{"Class", ColumnText},
			{"Shares", ColumnInteger},
			{"Ownership %", ColumnPercent},
			{"Locked capital", ColumnMoney},
		},
	}
	for _, h := range r.Shareholders {
		t.Rows = append(t.Rows, []any{h.FullName, h.NationalID, h.ShareClass, h.Shares, h.Percentage, h.LockedCapital})
	}
	t.Footer = []any{"Total", "", "", r.IssuedShares, nil, r.TotalLocked}
	return t
}

func capitalTable(r *CapitalReportResponse) *Table {
	t := &Table{
		Title:    "Locked capital",
		Subtitle: "As of " + r.AsOf.Format("2 January 2006"),
		Columns: []Column{
			{"Investor", ColumnText},
			{"Amount", ColumnMoney},
			{"Currency", ColumnText},
			{"Locked", ColumnDate},
			{"Unlocks", ColumnDate},
			{"Months", ColumnInteger},
			{"Rate %", ColumnPercent},
			{"Expected return", ColumnMoney},
			{"Accrued", ColumnMoney},
			{"Status", ColumnText},
		},
	}
	for _, c := range r.Rows {
		t.Rows = append(t.Rows, []any{
			c.InvestorName, c.Amount, c.Currency, c.LockDate, c.UnlockDate,
			int64(c.LockPeriodMonths), c.AnnualInterestRate, c.ExpectedReturn, c.AccruedInterest, c.Status,
		})
	}
	return t
}

func dividendTable(r *DividendReportResponse) *Table {
	t := &Table{
		Title:    "Dividends",
		Subtitle: fmt.Sprintf("Fiscal year %d, %d declarations", r.FiscalYear, r.Declarations),
		Columns: []Column{
			{"Declared", ColumnDate},
			{"Shareholder", ColumnText},
			{"Shares", ColumnInteger},
			{"Ownership %", ColumnPercent},
			{"Gross", ColumnMoney},
			{"Withholding tax", ColumnMoney},
			{"Net", ColumnMoney},
			{"Status", ColumnText},
		},
	}
	for _, d := range r.Rows {
		t.Rows = append(t.Rows, []any{d.DeclarationDate, d.PersonName, d.Shares, d.Percentage, d.Gross, d.WithholdingTax, d.Net, d.Status})
	}
	t.Footer = []any{nil, "Total", nil, nil, r.GrossTotal, r.WithholdingTax, r.NetTotal, ""}
	return t
}

func payrollTable(r *PayrollReportResponse) *Table {
	period := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	t := &Table{
		Title:    "Payroll",
		Subtitle: fmt.Sprintf("%s (%s)", period.Format("January 2006"), r.Status),
		Columns: []Column{
			{"Employee", ColumnText},
			{"RSSB number", ColumnText},
			{"Gross", ColumnMoney},
			{"PAYE", ColumnMoney},
			{"RSSB employee", ColumnMoney},
			{"RSSB employer", ColumnMoney},
			{"CBHI", ColumnMoney},
			{"Net pay", ColumnMoney},
			{"Employer cost", ColumnMoney},
		},
	}
	row := func(p PayrollRow) []any {
		return []any{p.FullName, p.RSSBNumber, p.Gross, p.PAYE, p.RSSBEmployee, p.RSSBEmployer, p.CBHI, p.Net, p.EmployerCost}
	}
	for _, p := range r.Rows {
		t.Rows = append(t.Rows, row(p))
	}
	t.Footer = row(r.Totals)
	return t
}

func taxTable(r *TaxSummaryResponse) *Table {
	t := &Table{
		Title:    "Tax summary",
		Subtitle: fmt.Sprintf("Year %d", r.Year),
		Columns: []Column{
			{"Type", ColumnText},
			{"Period start", ColumnDate},
			{"Period end", ColumnDate},
			{"Due", ColumnDate},
			{"Taxable", ColumnMoney},
			{"Tax", ColumnMoney},
			{"Amount due", ColumnMoney},
			{"Status", ColumnText},
		},
	}
	for _, f := range r.Rows {
		t.Rows = append(t.Rows, []any{f.Type, f.PeriodStart, f.PeriodEnd, f.DueDate, f.TaxableAmount, f.TaxAmount, f.AmountDue, f.Status})
	}
	return t
}

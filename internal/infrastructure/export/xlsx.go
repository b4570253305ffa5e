// Package export writes report tables to spreadsheet workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/rwbiz/backend/internal/application/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Report"
	headerRow = 4
)

var (
	fmtInteger = "#,##0"
	fmtMoney   = "#,##0.00"
	fmtPercent = "0.00"
	fmtDate    = "yyyy-mm-dd"
)

// XLSXWriter renders report tables with excelize
type XLSXWriter struct {
	// MinColumnWidth is the narrowest a column is laid out
	MinColumnWidth float64
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{MinColumnWidth: 12}
}

type styles struct {
	title, header, footer int
	byKind                map[report.ColumnKind]int
	footerByKind          map[report.ColumnKind]int
}

// WriteTable lays out the title, a bold header row, the data rows and an
// optional totals row, and returns the encoded workbook
func (w *XLSXWriter) WriteTable(t report.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f, integralMoney(t))
	if err != nil {
		return nil, err
	}

	if err := setCell(f, 1, 1, t.Title, st.title); err != nil {
		return nil, err
	}
	if t.Subtitle != "" {
		if err := setCell(f, 1, 2, t.Subtitle, 0); err != nil {
			return nil, err
		}
	}

	widths := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		if err := setCell(f, i+1, headerRow, c.Header, st.header); err != nil {
			return nil, err
		}
		widths[i] = max(w.MinColumnWidth, float64(len(c.Header))+2)
	}

	row := headerRow + 1
	for _, cells := range t.Rows {
		if err := w.writeRow(f, t.Columns, cells, row, st.byKind, widths); err != nil {
			return nil, err
		}
		row++
	}
	if len(t.Footer) > 0 {
		if err := w.writeRow(f, t.Columns, t.Footer, row, st.footerByKind, widths); err != nil {
			return nil, err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *XLSXWriter) writeRow(f *excelize.File, cols []report.Column, cells []any, row int, byKind map[report.ColumnKind]int, widths []float64) error {
	for i, v := range cells {
		if i >= len(cols) || v == nil {
			continue
		}
		value := cellValue(v)
		if err := setCell(f, i+1, row, value, byKind[cols[i].Kind]); err != nil {
			return err
		}
		if s, ok := value.(string); ok {
			widths[i] = max(widths[i], float64(len(s))+2)
		}
	}
	return nil
}

func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x
	case *time.Time:
		if x == nil {
			return ""
		}
		return *x
	default:
		return v
	}
}

func setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

// integralMoney reports whether every money cell is a whole number, as in
// RWF books, so the sheet can drop the decimals
func integralMoney(t report.Table) bool {
	rows := append([][]any{}, t.Rows...)
	if len(t.Footer) > 0 {
		rows = append(rows, t.Footer)
	}
	for _, r := range rows {
		for i, v := range r {
			if i >= len(t.Columns) || t.Columns[i].Kind != report.ColumnMoney {
				continue
			}
			if d, ok := v.(decimal.Decimal); ok && !d.Equal(d.Truncate(0)) {
				return false
			}
		}
	}
	return true
}

func newStyles(f *excelize.File, wholeMoney bool) (*styles, error) {
	money := fmtMoney
	if wholeMoney {
		money = fmtInteger
	}
	formats := map[report.ColumnKind]*string{
		report.ColumnInteger: &fmtInteger,
		report.ColumnMoney:   &money,
		report.ColumnPercent: &fmtPercent,
		report.ColumnDate:    &fmtDate,
	}

	st := &styles{
		byKind:       make(map[report.ColumnKind]int),
		footerByKind: make(map[report.ColumnKind]int),
	}
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1F4E78"}},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	}); err != nil {
		return nil, err
	}
	if st.footer, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
	}); err != nil {
		return nil, err
	}
	st.footerByKind[report.ColumnText] = st.footer

	for kind, code := range formats {
		if st.byKind[kind], err = f.NewStyle(&excelize.Style{CustomNumFmt: code}); err != nil {
			return nil, err
		}
		if st.footerByKind[kind], err = f.NewStyle(&excelize.Style{
			CustomNumFmt: code,
			Font:         &excelize.Font{Bold: true},
			Border:       []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
		}); err != nil {
			return nil, err
		}
	}
	return st, nil
}

var _ report.SheetWriter = (*XLSXWriter)(nil)

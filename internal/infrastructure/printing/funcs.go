package printing

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func builtinFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMoney":    formatMoney,
		"formatAmount":   formatAmount,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatMonth":    formatMonth,
		"formatDecimal":  formatDecimal,
		"formatInt":      formatInt,
		"formatPercent":  formatPercent,
		"formatCell":     formatCell,
		"statusText":     statusText,
		"truncate":       truncate,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
		"trim":           strings.TrimSpace,
		"default":        defaultFunc,
		"add":            add,
		"sub":            sub,
		"mul":            mul,
		"lt":             ltFunc,
		"gt":             gtFunc,
	}
}

var (
	englishNumbers = message.NewPrinter(language.English)
	englishTitle   = cases.Title(language.English)
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// formatMoney: 1180000 RWF -> "RWF 1,180,000"
func formatMoney(v any, currency string) string {
	return strings.ToUpper(currency) + " " + formatAmount(v, currency)
}

// formatAmount rounds to the currency's minor unit, two places when no
// currency is given
func formatAmount(v any, currency string) string {
	places := int32(2)
	if currency != "" {
		places = valueobject.Currency(strings.ToUpper(currency)).MinorUnits()
	}
	return groupDigits(toDecimal(v), places)
}

func groupDigits(d decimal.Decimal, places int32) string {
	fixed := d.Abs().StringFixed(places)
	whole, frac, hasFrac := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// beyond int64, leave ungrouped
		return d.StringFixed(places)
	}
	out := englishNumbers.Sprintf("%d", n)
	if hasFrac {
		out += "." + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

func formatDate(v any) string {
	if t := toTime(v); !t.IsZero() {
		return t.Format(dateLayout)
	}
	return ""
}

func formatDateTime(v any) string {
	if t := toTime(v); !t.IsZero() {
		return t.Format(dateTimeLayout)
	}
	return ""
}

// formatMonth: 2025, 6 -> "June 2025"
func formatMonth(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func formatDecimal(v any, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

func formatInt(v any) string { return groupDigits(toDecimal(v), 0) }

// formatPercent takes a value already scaled to 100, trailing zeros dropped
func formatPercent(v any, precision int) string {
	return toDecimal(v).Round(int32(precision)).String() + "%"
}

// formatCell renders a report cell by its column kind. Whole money amounts
// print without decimals.
func formatCell(v any, kind any) string {
	if v == nil {
		return ""
	}
	switch fmt.Sprint(kind) {
	case "money":
		amount := toDecimal(v)
		if amount.IsInteger() {
			return groupDigits(amount, 0)
		}
		return groupDigits(amount, 2)
	case "integer":
		return formatInt(v)
	case "percent":
		return formatPercent(v, 2)
	case "date":
		return formatDate(v)
	}
	return fmt.Sprint(v)
}

// truncate cuts s to n runes, the last one an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	switch {
	case len(r) <= n:
		return s
	case n <= 1:
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func titleCase(s string) string { return englishTitle.String(s) }

// statusText: PARTIALLY_PAID -> "Partially paid"
func statusText(status string) string {
	if status == "" {
		return ""
	}
	s := strings.ToLower(strings.ReplaceAll(status, "_", " "))
	return strings.ToUpper(s[:1]) + s[1:]
}

func ltFunc(a, b any) bool { return toDecimal(a).LessThan(toDecimal(b)) }
func gtFunc(a, b any) bool { return toDecimal(a).GreaterThan(toDecimal(b)) }

func add(a, b any) decimal.Decimal { return toDecimal(a).Add(toDecimal(b)) }
func sub(a, b any) decimal.Decimal { return toDecimal(a).Sub(toDecimal(b)) }
func mul(a, b any) decimal.Decimal { return toDecimal(a).Mul(toDecimal(b)) }

// defaultFunc substitutes def for nil and the empty string only, zero
// numbers are shown as is
func defaultFunc(val, def any) any {
	if val == nil || val == "" {
		return def
	}
	return val
}

// toDecimal reads numbers and numeric strings, anything else is zero
func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x != nil {
			return *x
		}
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		if d, err := decimal.NewFromString(x); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// toTime accepts times and RFC 3339 or ISO date strings
func toTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x != nil {
			return *x
		}
	case string:
		for _, layout := range []string{time.RFC3339, dateLayout} {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

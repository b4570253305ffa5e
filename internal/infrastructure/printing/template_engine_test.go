package printing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTemplateEngine_GetFuncMap(t *testing.T) {
	engine := NewTemplateEngine()
	funcMap := engine.GetFuncMap()

	for _, name := range []string{"formatMoney", "formatAmount", "formatDate", "formatPercent", "formatCell", "statusText", "add", "gt"} {
		assert.NotNil(t, funcMap[name], name)
	}

	// the copy must not leak into the engine
	delete(funcMap, "formatMoney")
	assert.NotNil(t, engine.GetFuncMap()["formatMoney"])
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	engine := NewTemplateEngine(WithFuncs(map[string]any{
		"shout": func(s string) string { return s + "!" },
	}))

	out, err := engine.RenderString(context.Background(), "t", `{{shout .}}`, "Murakoze")
	require.NoError(t, err)
	assert.Equal(t, "Murakoze!", out)
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	out, err := engine.RenderString(ctx, "greeting", `<p>Hello, {{.Name}}!</p>`, map[string]any{"Name": "Kigali"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello, Kigali!</p>", out)

	out, err = engine.RenderString(ctx, "escape", `<p>{{.}}</p>`, "<script>")
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;script&gt;</p>", out)
}

func TestTemplateEngine_RenderString_Errors(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	_, err := engine.RenderString(ctx, "empty", "  ", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString(ctx, "broken", "{{.Name", nil)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = engine.RenderString(ctx, "missing", "{{.Name.First}}", struct{ Name string }{"x"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   any
		currency string
		expected string
	}{
		{"rwf has no minor unit", d("1180000"), "RWF", "RWF 1,180,000"},
		{"rwf rounds", d("999.6"), "rwf", "RWF 1,000"},
		{"usd keeps cents", d("1234.5"), "USD", "USD 1,234.50"},
		{"negative", d("-2500"), "RWF", "RWF -2,500"},
		{"small", 42, "RWF", "RWF 42"},
		{"string input", "15000.25", "EUR", "EUR 15,000.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(tt.amount, tt.currency))
		})
	}
}

func TestFormatAmount_DefaultsToTwoPlaces(t *testing.T) {
	assert.Equal(t, "12.00", formatAmount(d("12"), ""))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-10", formatDate(ts))
	assert.Equal(t, "2025-06-10", formatDate(&ts))
	assert.Equal(t, "2025-06-10", formatDate("2025-06-10"))
	assert.Empty(t, formatDate(time.Time{}))
	assert.Empty(t, formatDate((*time.Time)(nil)))
	assert.Equal(t, "2025-06-10 14:30", formatDateTime(ts))
	assert.Equal(t, "June 2025", formatMonth(2025, 6))
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "3.14", formatDecimal(d("3.14159"), 2))
	assert.Equal(t, "1,000", formatInt(int64(1000)))
	assert.Equal(t, "18%", formatPercent(d("18"), 0))
	assert.Equal(t, "12.35%", formatPercent(d("12.345"), 2))
	assert.Equal(t, "60%", formatPercent(d("60.00"), 2))
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		kind     string
		expected string
	}{
		{"nil", nil, "money", ""},
		{"whole money", d("5000000"), "money", "5,000,000"},
		{"fractional money", d("1234.5"), "money", "1,234.50"},
		{"integer", int64(600), "integer", "600"},
		{"percent", d("33.3333"), "percent", "33.33%"},
		{"date", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "date", "2024-01-15"},
		{"zero date", time.Time{}, "date", ""},
		{"text", "Alice Uwase", "text", "Alice Uwase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.value, tt.kind))
		})
	}
}

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "Kigal…", truncate("Kigali Coffee Ltd", 6))
	assert.Equal(t, "Kigali", truncate("Kigali", 6))
	assert.Equal(t, "Kigali Coffee", titleCase("kigali coffee"))
	assert.Equal(t, "Partially paid", statusText("PARTIALLY_PAID"))
	assert.Equal(t, "Early withdrawal requested", statusText("EARLY_WITHDRAWAL_REQUESTED"))
	assert.Empty(t, statusText(""))
}

func TestArithmeticAndComparison(t *testing.T) {
	assert.True(t, add(d("1.5"), 2).Equal(d("3.5")))
	assert.True(t, sub(d("10"), d("2.5")).Equal(d("7.5")))
	assert.True(t, mul(d("2"), "0.18").Equal(d("0.36")))
	assert.True(t, gtFunc(d("0.01"), 0))
	assert.False(t, gtFunc(decimal.Zero, 0))
	assert.True(t, ltFunc(1, d("1.5")))
}

func TestDefaultFunc(t *testing.T) {
	assert.Equal(t, "n/a", defaultFunc("", "n/a"))
	assert.Equal(t, "n/a", defaultFunc(nil, "n/a"))
	assert.Equal(t, "value", defaultFunc("value", "n/a"))
	assert.Equal(t, 0, defaultFunc(0, "n/a"))
}

func TestToDecimal(t *testing.T) {
	p := d("7.5")
	assert.True(t, toDecimal(&p).Equal(p))
	assert.True(t, toDecimal((*decimal.Decimal)(nil)).IsZero())
	assert.True(t, toDecimal(int32(3)).Equal(d("3")))
	assert.True(t, toDecimal(2.25).Equal(d("2.25")))
	assert.True(t, toDecimal("not a number").IsZero())
	assert.True(t, toDecimal(struct{}{}).IsZero())
}

func TestToTime(t *testing.T) {
	assert.True(t, time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC).Equal(toTime("2025-06-10T08:00:00Z")))
	assert.True(t, toTime("10/06/2025").IsZero())
	assert.True(t, toTime(42).IsZero())
}

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestSortSpec_Resolve(t *testing.T) {
	spec := sortable("full_name", false, "shares_held", "hire_date")

	tests := []struct {
		name      string
		orderBy   string
		orderDir  string
		wantField string
		wantDesc  bool
	}{
		{"defaults", "", "", "full_name", false},
		{"default column keeps its direction", "full_name", "", "full_name", false},
		{"explicit desc on default", "full_name", "desc", "full_name", true},
		{"other column defaults to desc", "shares_held", "", "shares_held", true},
		{"explicit asc", "hire_date", "ASC", "hire_date", false},
		{"trimmed input", "  hire_date ", " asc ", "hire_date", false},
		{"audit column", "created_at", "asc", "created_at", false},
		{"unknown column", "password_hash", "asc", "full_name", false},
		{"case sensitive", "FULL_NAME", "", "full_name", false},
		{"garbage direction", "shares_held", "sideways", "shares_held", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, desc := spec.resolve(tt.orderBy, tt.orderDir)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestSortSpec_RejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE persons;--",
		"shares_held' OR '1'='1",
		"id UNION SELECT password_hash FROM users",
		"CASE WHEN 1=1 THEN id ELSE full_name END",
		"id\n; DELETE FROM companies",
		"full_name users",
	}
	for _, p := range payloads {
		col := personSort.orderBy(p, p)
		assert.Equal(t, "full_name", col.Column.Name, "payload %q", p)
		assert.True(t, col.Desc, "payload %q", p)
	}
}

func TestSortSpec_OrderByClause(t *testing.T) {
	assert.Equal(t,
		clause.OrderByColumn{Column: clause.Column{Name: "due_date"}, Desc: true},
		filingSort.orderBy("", ""))
	assert.Equal(t,
		clause.OrderByColumn{Column: clause.Column{Name: "name"}},
		companySort.orderBy("", ""))
}

func TestSortableOnly_ExcludesAuditColumns(t *testing.T) {
	assert.True(t, activitySort.allows("occurred_at"))
	assert.False(t, activitySort.allows("id"))
	assert.False(t, activitySort.allows("updated_at"))

	assert.True(t, notificationSort.allows("priority"))
	assert.True(t, notificationSort.allows("created_at"))
}

func TestListingSpecs_DefaultIsSortable(t *testing.T) {
	specs := map[string]sortSpec{
		"company": companySort, "person": personSort, "capital": capitalSort,
		"withdrawal": withdrawalSort, "declaration": declarationSort, "document": documentSort,
		"meeting": meetingSort, "invoice": invoiceSort, "receipt": receiptSort,
		"payroll": payrollRunSort, "filing": filingSort, "expense": expenseSort,
		"asset": assetSort, "rate": rateSort,
	}
	for name, spec := range specs {
		assert.True(t, spec.allows(spec.defaultField), name)
		for _, col := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, spec.allows(col), "%s should sort by %s", name, col)
		}
	}
}

package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortSpec describes how one listing may be ordered. Requested columns
// outside the whitelist fall back to the default column, so user input never
// reaches the ORDER BY clause unchecked.
type sortSpec struct {
	columns      map[string]struct{}
	defaultField string
	defaultDesc  bool
}

// sortable builds a spec whose whitelist holds the audit columns every table
// carries plus extra
func sortable(defaultField string, defaultDesc bool, extra ...string) sortSpec {
	return sortableOnly(defaultField, defaultDesc, append([]string{"id", "created_at", "updated_at"}, extra...)...)
}

// sortableOnly builds a spec restricted to exactly the given columns
func sortableOnly(defaultField string, defaultDesc bool, cols ...string) sortSpec {
	set := make(map[string]struct{}, len(cols)+1)
	for _, c := range cols {
		set[c] = struct{}{}
	}
	set[defaultField] = struct{}{}
	return sortSpec{columns: set, defaultField: defaultField, defaultDesc: defaultDesc}
}

// allows reports whether the column may be sorted on. Matching is exact and
// case sensitive.
func (s sortSpec) allows(column string) bool {
	_, ok := s.columns[column]
	return ok
}

// resolve returns the column and direction for a requested ordering. An
// empty direction keeps the default direction when the default column is
// used, and is otherwise descending.
func (s sortSpec) resolve(orderBy, orderDir string) (string, bool) {
	field := strings.TrimSpace(orderBy)
	if !s.allows(field) {
		field = s.defaultField
	}
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return field, false
	case "DESC":
		return field, true
	case "":
		if field == s.defaultField {
			return field, s.defaultDesc
		}
	}
	return field, true
}

// orderBy returns the ORDER BY column for the request, quoted by gorm
func (s sortSpec) orderBy(orderBy, orderDir string) clause.OrderByColumn {
	field, desc := s.resolve(orderBy, orderDir)
	return clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc}
}

var (
	companySort      = sortable("name", false, "tin", "status")
	personSort       = sortable("full_name", false, "shares_held", "hire_date", "position")
	capitalSort      = sortable("unlock_date", false, "amount", "lock_date", "status")
	withdrawalSort   = sortable("requested_at", true, "status", "payout_amount")
	declarationSort  = sortable("declaration_date", true, "fiscal_year", "total_amount", "status")
	documentSort     = sortable("created_at", true, "title", "file_name", "size_bytes", "expiry_date", "status")
	activitySort     = sortableOnly("occurred_at", true)
	meetingSort      = sortable("scheduled_at", true, "title", "type", "status")
	notificationSort = sortableOnly("created_at", true, "priority")
	invoiceSort      = sortable("issue_date", true, "number", "customer_name", "due_date", "total", "status")
	receiptSort      = sortable("paid_at", true, "number", "amount")
	payrollRunSort   = sortable("year", true, "month", "status")
	filingSort       = sortable("due_date", true, "type", "period_start", "status", "amount_due")
	expenseSort      = sortable("expense_date", true, "amount", "category", "status")
	assetSort        = sortable("acquisition_date", true, "name", "cost", "asset_class", "status")
	rateSort         = sortable("effective_date", true, "base_currency", "quote_currency")
)

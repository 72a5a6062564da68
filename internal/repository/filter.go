package repository

import (
	"fmt"
	"strings"

	"github.com/SKuytov/SVP/internal/contracts"
)

// whereBuilder accumulates AND-ed predicates with positional ($n) arguments
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// arg appends a value and returns its placeholder
func (w *whereBuilder) arg(v interface{}) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// add appends a predicate; %s verbs are replaced by fresh placeholders for vals
func (w *whereBuilder) add(format string, vals ...interface{}) {
	placeholders := make([]interface{}, len(vals))
	for i, v := range vals {
		placeholders[i] = w.arg(v)
	}
	w.clauses = append(w.clauses, fmt.Sprintf(format, placeholders...))
}

// raw appends a predicate without arguments
func (w *whereBuilder) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// sql renders "WHERE a AND b" (empty when there are no predicates)
func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// supplierWhere compiles the typed filter into a WHERE clause over alias s
// ⭐ SSOT: SupplierFilter → SQL 변환은 여기서만
func supplierWhere(f contracts.SupplierFilter) *whereBuilder {
	w := &whereBuilder{}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		w.add("(s.name ILIKE %s OR s.product_categories::text ILIKE %s OR s.business_sector ILIKE %s)",
			pattern, pattern, pattern)
	}
	if f.RiskCategory != nil {
		w.add("s.risk_category = %s", string(*f.RiskCategory))
	}
	if f.Status != nil {
		w.add("s.status = %s", string(*f.Status))
	}
	if f.ComplianceMin != nil {
		w.add("s.iso_compliance_score >= %s", *f.ComplianceMin)
	}
	if f.AuditOverdue {
		w.raw("s.next_audit_due < CURRENT_DATE")
	}
	if f.CreatedFrom != nil {
		w.add("s.created_at >= %s", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add("s.created_at <= %s", *f.CreatedTo)
	}
	return w
}

// supplierOrder renders the ORDER BY clause. The column is re-checked against
// the whitelist because it is interpolated.
func supplierOrder(f contracts.SupplierFilter) string {
	column := "name"
	switch f.SortBy {
	case "name", "risk_category", "iso_compliance_score", "next_audit_due", "status":
		column = f.SortBy
	}

	order := contracts.SortAsc
	if f.Order == contracts.SortDesc {
		order = contracts.SortDesc
	}
	return fmt.Sprintf("ORDER BY s.%s %s, s.id ASC", column, order)
}

// supplierPage renders LIMIT/OFFSET as placeholders on w
func supplierPage(w *whereBuilder, f contracts.SupplierFilter) string {
	limit := f.Limit
	if limit <= 0 {
		limit = contracts.DefaultSupplierLimit
	}
	if limit > contracts.MaxSupplierLimit {
		limit = contracts.MaxSupplierLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf("LIMIT %s OFFSET %s", w.arg(limit), w.arg(offset))
}

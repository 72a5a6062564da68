package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplierFilter_Defaults(t *testing.T) {
	f := NewSupplierFilter()

	assert.Equal(t, "name", f.SortBy)
	assert.Equal(t, SortAsc, f.Order)
	assert.Equal(t, DefaultSupplierLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Nil(t, f.RiskCategory)
	assert.Nil(t, f.Status)
}

func TestSupplierFilter_AllClearsSelectors(t *testing.T) {
	f := NewSupplierFilter().
		WithRiskCategory("A").
		WithStatus("Active")
	require.NotNil(t, f.RiskCategory)
	require.NotNil(t, f.Status)
	assert.Equal(t, RiskCategoryA, *f.RiskCategory)
	assert.Equal(t, SupplierActive, *f.Status)

	f = f.WithRiskCategory("all").WithStatus("all")
	assert.Nil(t, f.RiskCategory)
	assert.Nil(t, f.Status)
}

func TestSupplierFilter_WithSort(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		order     SortOrder
		wantCol   string
		wantOrder SortOrder
	}{
		{"whitelisted", "iso_compliance_score", SortDesc, "iso_compliance_score", SortDesc},
		{"whitelisted asc", "next_audit_due", SortAsc, "next_audit_due", SortAsc},
		{"injection falls back", "name; DROP TABLE suppliers", SortDesc, "name", SortAsc},
		{"unknown column", "annual_spend_eur", SortDesc, "name", SortAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSupplierFilter().WithSort(tt.column, tt.order)
			assert.Equal(t, tt.wantCol, f.SortBy)
			assert.Equal(t, tt.wantOrder, f.Order)
		})
	}
}

func TestSupplierFilter_WithPage(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults on zero", 0, 0, 50, 0},
		{"custom", 20, 40, 20, 40},
		{"clamped limit", 10000, 0, MaxSupplierLimit, 0},
		{"negative offset", 10, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSupplierFilter().WithPage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, f.Limit)
			assert.Equal(t, tt.wantOffset, f.Offset)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortAsc, ParseSortOrder("sideways"))
}

func TestCertificateFilter(t *testing.T) {
	f := NewCertificateFilter()
	assert.Equal(t, 90, f.DaysAhead)

	f = f.WithDaysAhead(-3).WithDocumentType("all").WithSupplier(7)
	assert.Equal(t, 90, f.DaysAhead)
	assert.Equal(t, "", f.DocumentType)
	require.NotNil(t, f.SupplierID)
	assert.Equal(t, int64(7), *f.SupplierID)
}

func TestRiskCategory_Valid(t *testing.T) {
	assert.True(t, RiskCategoryA.Valid())
	assert.True(t, RiskCategory("C").Valid())
	assert.False(t, RiskCategory("D").Valid())
	assert.False(t, RiskCategory("").Valid())
}

func TestSupplierUpdate_IsEmpty(t *testing.T) {
	u := &SupplierUpdate{}
	assert.True(t, u.IsEmpty())

	name := "Acme"
	u.Name = &name
	assert.False(t, u.IsEmpty())
}

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, GranularityWeek, ParseGranularity("week"))
	assert.Equal(t, GranularityMonth, ParseGranularity(""))
	assert.Equal(t, GranularityMonth, ParseGranularity("decade"))
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/pkg/database"
)

// SupplierRepository implements contracts.SupplierRepository
// ⭐ SSOT: 공급사 저장/조회는 여기서만
type SupplierRepository struct {
	pool *pgxpool.Pool
}

var _ contracts.SupplierRepository = (*SupplierRepository)(nil)

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

// supplierColumns is the shared projection of a supplier row (alias s)
const supplierColumns = `
	s.id, s.name, s.legal_name, s.supplier_type, s.product_categories, s.business_sector,
	s.risk_category, s.iso_compliance_score, s.annual_spend_eur::float8,
	s.business_critical, s.preferred_supplier, s.next_audit_due, s.audit_frequency_months,
	s.status,
	s.delivery_score, s.price_score, s.quality_score, s.reliability_score,
	s.technical_knowledge_score, s.equipment_efficiency_score, s.equipment_compatibility_score,
	s.address_city, s.address_country, COALESCE(s.created_by, 0), s.created_at, s.updated_at`

// supplierDest returns the scan targets matching supplierColumns
func supplierDest(s *contracts.SupplierRecord) []interface{} {
	return []interface{}{
		&s.ID, &s.Name, &s.LegalName, &s.SupplierType, &s.ProductCategories, &s.BusinessSector,
		&s.RiskCategory, &s.ComplianceScore, &s.AnnualSpend,
		&s.BusinessCritical, &s.PreferredSupplier, &s.NextAuditDue, &s.AuditFrequencyMonths,
		&s.Status,
		&s.Capability.Delivery, &s.Capability.Price, &s.Capability.Quality, &s.Capability.Reliability,
		&s.Capability.Technical, &s.Capability.Efficiency, &s.Capability.Compatibility,
		&s.City, &s.Country, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	}
}

// supplierAggregates are the list counters; they need supplierAggregateJoins
const supplierAggregates = `
	COALESCE(d.cnt, 0),
	COALESCE(ca.cnt, 0),
	(s.next_audit_due - CURRENT_DATE)`

// 서브쿼리 집계 (JOIN 행 증식 방지)
const supplierAggregateJoins = `
	LEFT JOIN (
		SELECT supplier_id, COUNT(*) AS cnt FROM documents
		WHERE status = 'Valid' GROUP BY supplier_id
	) d ON d.supplier_id = s.id
	LEFT JOIN (
		SELECT supplier_id, COUNT(*) AS cnt FROM corrective_actions
		WHERE status IN ('Assigned', 'In_Progress') GROUP BY supplier_id
	) ca ON ca.supplier_id = s.id`

const supplierListBase = `SELECT ` + supplierColumns + `,` + supplierAggregates + `
	FROM suppliers s` + supplierAggregateJoins

func scanSupplierListRow(row pgx.CollectableRow) (contracts.SupplierRecord, error) {
	var s contracts.SupplierRecord
	dest := append(supplierDest(&s), &s.DocumentCount, &s.OpenCapaCount, &s.DaysUntilAudit)
	err := row.Scan(dest...)
	return s, err
}

// List returns suppliers matching the typed filter
func (r *SupplierRepository) List(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierRecord, error) {
	w := supplierWhere(filter)
	query := strings.Join([]string{supplierListBase, w.sql(), supplierOrder(filter), supplierPage(w, filter)}, "\n")

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}

	suppliers, err := pgx.CollectRows(rows, scanSupplierListRow)
	if err != nil {
		return nil, fmt.Errorf("failed to scan suppliers: %w", err)
	}
	return suppliers, nil
}

// Get returns one supplier with list aggregates (contracts.ErrNotFound when missing)
func (r *SupplierRepository) Get(ctx context.Context, id int64) (*contracts.SupplierRecord, error) {
	rows, err := r.pool.Query(ctx, supplierListBase+"\nWHERE s.id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier %d: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSupplierListRow)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("supplier %d: %w", id, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan supplier %d: %w", id, err)
	}
	return &s, nil
}

// GetDetail returns the supplier page: counts, contacts, recent documents,
// recent assessments and active CAPAs. Derived classifications are left to the caller.
func (r *SupplierRepository) GetDetail(ctx context.Context, id int64) (*contracts.SupplierDetail, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &contracts.SupplierDetail{SupplierView: contracts.SupplierView{SupplierRecord: *rec}}

	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM assessments WHERE supplier_id = $1),
			(SELECT COUNT(*) FROM corrective_actions WHERE supplier_id = $1),
			(SELECT COUNT(*) FROM supplier_standards WHERE supplier_id = $1)
	`, id).Scan(&detail.AssessmentCount, &detail.CapaCount, &detail.CertificationCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count supplier %d relations: %w", id, err)
	}

	if detail.Contacts, err = r.contacts(ctx, id); err != nil {
		return nil, err
	}
	if detail.RecentDocuments, err = r.recentDocuments(ctx, id); err != nil {
		return nil, err
	}
	if detail.RecentAssessments, err = r.recentAssessments(ctx, id); err != nil {
		return nil, err
	}
	if detail.ActiveCAPAs, err = r.activeCAPAs(ctx, id); err != nil {
		return nil, err
	}

	return detail, nil
}

func (r *SupplierRepository) contacts(ctx context.Context, id int64) ([]contracts.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, is_primary
		FROM contacts
		WHERE supplier_id = $1
		ORDER BY is_primary DESC, name ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.Contact, error) {
		var c contracts.Contact
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.IsPrimary)
		return c, err
	})
}

func (r *SupplierRepository) recentDocuments(ctx context.Context, id int64) ([]contracts.DocumentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, supplier_id, name, type, status, issue_date, expiry_date, COALESCE(file_size, 0)
		FROM documents
		WHERE supplier_id = $1
		ORDER BY upload_date DESC
		LIMIT 10
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.DocumentRecord, error) {
		var d contracts.DocumentRecord
		err := row.Scan(&d.ID, &d.SupplierID, &d.Name, &d.Type, &d.Status, &d.IssueDate, &d.ExpiryDate, &d.FileSize)
		return d, err
	})
}

func (r *SupplierRepository) recentAssessments(ctx context.Context, id int64) ([]contracts.AssessmentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.supplier_id, a.assessment_type, a.status,
			a.scheduled_date, a.completed_date, a.compliance_percentage,
			COALESCE(a.assessment_result, ''), a.actual_duration_hours,
			COALESCE(st.name, '')
		FROM assessments a
		LEFT JOIN standards st ON a.standard_id = st.id
		WHERE a.supplier_id = $1
		ORDER BY a.scheduled_date DESC NULLS LAST
		LIMIT 5
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.AssessmentRecord, error) {
		var a contracts.AssessmentRecord
		err := row.Scan(&a.ID, &a.SupplierID, &a.AssessmentType, &a.Status,
			&a.ScheduledDate, &a.CompletedDate, &a.CompliancePercentage,
			&a.Result, &a.DurationHours, &a.StandardName)
		return a, err
	})
}

func (r *SupplierRepository) activeCAPAs(ctx context.Context, id int64) ([]contracts.CorrectiveAction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, supplier_id, title, status, priority, due_date
		FROM corrective_actions
		WHERE supplier_id = $1 AND status IN ('Assigned', 'In_Progress')
		ORDER BY CASE priority WHEN 'Critical' THEN 0 WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END,
			due_date ASC NULLS LAST
		LIMIT 10
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrective actions: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.CorrectiveAction, error) {
		var c contracts.CorrectiveAction
		err := row.Scan(&c.ID, &c.SupplierID, &c.Title, &c.Status, &c.Priority, &c.DueDate)
		return c, err
	})
}

// Create inserts a supplier (and optional primary contact) in one transaction
func (r *SupplierRepository) Create(ctx context.Context, s *contracts.SupplierRecord, contact *contracts.Contact) (int64, error) {
	categories := s.ProductCategories
	if categories == nil {
		categories = []string{}
	}

	var id int64
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
		INSERT INTO suppliers (
			name, legal_name, supplier_type, product_categories, business_sector,
			risk_category, iso_compliance_score,
			delivery_score, price_score, quality_score, reliability_score,
			technical_knowledge_score, equipment_efficiency_score, equipment_compatibility_score,
			annual_spend_eur, business_critical, preferred_supplier,
			next_audit_due, audit_frequency_months, status,
			address_city, address_country, created_by
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, $20,
			$21, $22, NULLIF($23, 0)
		)
		RETURNING id
	`,
			s.Name, s.LegalName, s.SupplierType, categories, s.BusinessSector,
			string(s.RiskCategory), s.ComplianceScore,
			s.Capability.Delivery, s.Capability.Price, s.Capability.Quality, s.Capability.Reliability,
			s.Capability.Technical, s.Capability.Efficiency, s.Capability.Compatibility,
			s.AnnualSpend, s.BusinessCritical, s.PreferredSupplier,
			s.NextAuditDue, s.AuditFrequencyMonths, string(s.Status),
			s.City, s.Country, s.CreatedBy,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert supplier: %w", err)
		}

		if contact != nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO contacts (supplier_id, name, email, phone, is_primary)
				VALUES ($1, $2, $3, $4, TRUE)
			`, id, contact.Name, contact.Email, contact.Phone)
			if err != nil {
				return fmt.Errorf("failed to insert primary contact: %w", err)
			}
		}

		return recordScore(ctx, tx, id, s.ComplianceScore)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// supplierUpdateSet renders the SET list of a partial update; nil fields are skipped
func supplierUpdateSet(w *whereBuilder, u *contracts.SupplierUpdate) []string {
	var sets []string
	set := func(column string, v interface{}) {
		sets = append(sets, column+" = "+w.arg(v))
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.LegalName != nil {
		set("legal_name", *u.LegalName)
	}
	if u.SupplierType != nil {
		set("supplier_type", *u.SupplierType)
	}
	if u.ProductCategories != nil {
		set("product_categories", u.ProductCategories)
	}
	if u.BusinessSector != nil {
		set("business_sector", *u.BusinessSector)
	}
	if u.RiskCategory != nil {
		set("risk_category", string(*u.RiskCategory))
	}
	if u.ComplianceScore != nil {
		set("iso_compliance_score", *u.ComplianceScore)
	}
	if u.DeliveryScore != nil {
		set("delivery_score", *u.DeliveryScore)
	}
	if u.PriceScore != nil {
		set("price_score", *u.PriceScore)
	}
	if u.QualityScore != nil {
		set("quality_score", *u.QualityScore)
	}
	if u.ReliabilityScore != nil {
		set("reliability_score", *u.ReliabilityScore)
	}
	if u.AnnualSpend != nil {
		set("annual_spend_eur", *u.AnnualSpend)
	}
	if u.BusinessCritical != nil {
		set("business_critical", *u.BusinessCritical)
	}
	if u.PreferredSupplier != nil {
		set("preferred_supplier", *u.PreferredSupplier)
	}
	if u.Status != nil {
		set("status", string(*u.Status))
	}
	if u.City != nil {
		set("address_city", *u.City)
	}
	if u.Country != nil {
		set("address_country", *u.Country)
	}
	return sets
}

// Update applies a partial update; a score change is appended to the score history
func (r *SupplierRepository) Update(ctx context.Context, id int64, u *contracts.SupplierUpdate) error {
	if u == nil || u.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", contracts.ErrInvalidInput)
	}

	w := &whereBuilder{}
	sets := supplierUpdateSet(w, u)
	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE suppliers SET %s WHERE id = %s", strings.Join(sets, ", "), w.arg(id))

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, w.args...)
		if err != nil {
			return fmt.Errorf("failed to update supplier %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("supplier %d: %w", id, contracts.ErrNotFound)
		}

		if u.ComplianceScore != nil {
			return recordScore(ctx, tx, id, *u.ComplianceScore)
		}
		return nil
	})
}

// SetStatus changes the lifecycle status (soft delete = Terminated)
func (r *SupplierRepository) SetStatus(ctx context.Context, id int64, status contracts.SupplierStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE suppliers SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set supplier %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d: %w", id, contracts.ErrNotFound)
	}
	return nil
}

func recordScore(ctx context.Context, tx pgx.Tx, supplierID int64, score float64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO supplier_score_history (supplier_id, score) VALUES ($1, $2)
	`, supplierID, score)
	if err != nil {
		return fmt.Errorf("failed to record score history: %w", err)
	}
	return nil
}

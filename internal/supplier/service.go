package supplier

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/risk"
	"github.com/SKuytov/SVP/internal/scoring"
	"github.com/SKuytov/SVP/internal/validation"
)

const resourceSupplier = "supplier"

// CreateInput is the body of a supplier creation request
type CreateInput struct {
	Name               string   `json:"name" validate:"required,max=255"`
	LegalName          string   `json:"legal_name" validate:"max=255"`
	SupplierType       string   `json:"supplier_type" validate:"max=50"`
	ProductCategories  []string `json:"product_categories" validate:"dive,max=100"`
	BusinessSector     string   `json:"business_sector" validate:"max=255"`
	RiskCategory       string   `json:"risk_category" validate:"required,oneof=A B C"`
	ComplianceScore    float64  `json:"iso_compliance_score" validate:"gte=0,lte=100"`
	DeliveryScore      float64  `json:"delivery_score" validate:"gte=0,lte=100"`
	PriceScore         float64  `json:"price_score" validate:"gte=0,lte=100"`
	QualityScore       float64  `json:"quality_score" validate:"gte=0,lte=100"`
	ReliabilityScore   float64  `json:"reliability_score" validate:"gte=0,lte=100"`
	TechnicalScore     float64  `json:"technical_knowledge_score" validate:"gte=0,lte=100"`
	EfficiencyScore    float64  `json:"equipment_efficiency_score" validate:"gte=0,lte=100"`
	CompatibilityScore float64  `json:"equipment_compatibility_score" validate:"gte=0,lte=100"`
	AnnualSpend        float64  `json:"annual_spend_eur" validate:"gte=0"`
	BusinessCritical   bool     `json:"business_critical"`
	PreferredSupplier  bool     `json:"preferred_supplier"`
	City               string   `json:"address_city" validate:"max=100"`
	Country            string   `json:"address_country" validate:"max=100"`
	ContactName        string   `json:"contact_name" validate:"max=255"`
	ContactEmail       string   `json:"contact_email" validate:"omitempty,email,max=255"`
	ContactPhone       string   `json:"contact_phone" validate:"max=50"`
}

// Service is the supplier registry use case layer
// ⭐ SSOT: 공급사 생성/수정/삭제 + 활동 로그는 여기서만
type Service struct {
	repo     contracts.SupplierRepository
	activity contracts.ActivityRecorder
	engine   *risk.Engine
	validate *validation.Validator
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a supplier service
func NewService(repo contracts.SupplierRepository, activity contracts.ActivityRecorder, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		activity: activity,
		engine:   risk.NewEngine(),
		validate: validation.New(),
		now:      time.Now,
		logger:   log.With().Str("component", "supplier").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns suppliers matching the filter, enriched with classifications
func (s *Service) List(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierView, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	today := s.now()
	views := make([]contracts.SupplierView, len(records))
	for i, r := range records {
		views[i] = s.View(r, today)
	}
	return views, nil
}

// Get returns the full supplier page
func (s *Service) Get(ctx context.Context, id int64) (*contracts.SupplierDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}
	detail.SupplierView = s.View(detail.SupplierRecord, s.now())
	return detail, nil
}

// Create validates and stores a new supplier. The next audit is scheduled from
// the risk category; the primary contact is created when a name is given.
func (s *Service) Create(ctx context.Context, actor contracts.Identity, in CreateInput) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, err
	}

	category := contracts.RiskCategory(in.RiskCategory)
	nextAudit := scoring.NextAuditDue(category, s.now())

	supplierType := in.SupplierType
	if supplierType == "" {
		supplierType = "Direct"
	}

	rec := &contracts.SupplierRecord{
		Name:              in.Name,
		LegalName:         in.LegalName,
		SupplierType:      supplierType,
		ProductCategories: in.ProductCategories,
		BusinessSector:    in.BusinessSector,
		RiskCategory:      category,
		ComplianceScore:   in.ComplianceScore,
		AnnualSpend:       in.AnnualSpend,
		BusinessCritical:  in.BusinessCritical,
		PreferredSupplier: in.PreferredSupplier,
		NextAuditDue:      &nextAudit,
		Status:            contracts.SupplierActive,
		Capability: contracts.CapabilityScores{
			Delivery:      in.DeliveryScore,
			Price:         in.PriceScore,
			Quality:       in.QualityScore,
			Reliability:   in.ReliabilityScore,
			Technical:     in.TechnicalScore,
			Efficiency:    in.EfficiencyScore,
			Compatibility: in.CompatibilityScore,
		},
		AuditFrequencyMonths: scoring.AuditFrequencyMonths(category),
		City:                 in.City,
		Country:              in.Country,
		CreatedBy:            actor.UserID,
	}

	var contact *contracts.Contact
	if in.ContactName != "" {
		contact = &contracts.Contact{
			Name:      in.ContactName,
			Email:     in.ContactEmail,
			Phone:     in.ContactPhone,
			IsPrimary: true,
		}
	}

	id, err := s.repo.Create(ctx, rec, contact)
	if err != nil {
		return 0, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.record(ctx, actor, contracts.ActionCreate, id, nil, in)
	return id, nil
}

// Update applies a partial update and logs old/new values
func (s *Service) Update(ctx context.Context, actor contracts.Identity, id int64, upd *contracts.SupplierUpdate) error {
	if upd == nil || upd.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", contracts.ErrInvalidInput)
	}
	if err := s.validate.Struct(upd); err != nil {
		return err
	}

	old, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load supplier %d: %w", id, err)
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		return fmt.Errorf("failed to update supplier %d: %w", id, err)
	}

	s.record(ctx, actor, contracts.ActionUpdate, id, old, upd)
	return nil
}

// Delete soft-deletes a supplier (status Terminated)
func (s *Service) Delete(ctx context.Context, actor contracts.Identity, id int64) error {
	old, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load supplier %d: %w", id, err)
	}

	if err := s.repo.SetStatus(ctx, id, contracts.SupplierTerminated); err != nil {
		return fmt.Errorf("failed to deactivate supplier %d: %w", id, err)
	}

	s.record(ctx, actor, contracts.ActionDelete, id, old, nil)
	return nil
}

// View derives the strict classifications and composite score of a record
func (s *Service) View(r contracts.SupplierRecord, today time.Time) contracts.SupplierView {
	days := r.DaysUntilAudit
	if days == nil {
		days = scoring.DaysUntil(r.NextAuditDue, today)
		r.DaysUntilAudit = days
	}

	v := contracts.SupplierView{
		SupplierRecord:   r,
		RiskLevel:        string(scoring.ClassifyRisk(r.RiskCategory, r.ComplianceScore, scoring.IsAuditOverdue(days))),
		ComplianceStatus: string(scoring.ComplianceStatusStrict(r.ComplianceScore)),
		CompositeScore:   s.engine.CompositeScore(r.Capability, r.RiskCategory),
	}
	if days != nil {
		v.AuditStatus = string(scoring.ClassifyAudit(*days))
	}
	return v
}

// record writes the activity entry; a logging failure never fails the mutation
func (s *Service) record(ctx context.Context, actor contracts.Identity, action string, id int64, oldValues, newValues interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(ctx, actor, action, resourceSupplier, &id, oldValues, newValues); err != nil {
		s.logger.Warn().Err(err).
			Str("action", action).
			Int64("supplier_id", id).
			Msg("Failed to record activity")
	}
}

package supplier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/validation"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory contracts.SupplierRepository
type fakeRepo struct {
	records   map[int64]contracts.SupplierRecord
	contacts  map[int64]*contracts.Contact
	nextID    int64
	updates   []*contracts.SupplierUpdate
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[int64]contracts.SupplierRecord{}, contacts: map[int64]*contracts.Contact{}}
}

func (f *fakeRepo) List(_ context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierRecord, error) {
	out := make([]contracts.SupplierRecord, 0, len(f.records))
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.records[id]; ok {
			if filter.RiskCategory != nil && r.RiskCategory != *filter.RiskCategory {
				continue
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*contracts.SupplierRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRepo) GetDetail(ctx context.Context, id int64) (*contracts.SupplierDetail, error) {
	r, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &contracts.SupplierDetail{SupplierView: contracts.SupplierView{SupplierRecord: *r}}, nil
}

func (f *fakeRepo) Create(_ context.Context, s *contracts.SupplierRecord, c *contracts.Contact) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	s.ID = f.nextID
	f.records[s.ID] = *s
	f.contacts[s.ID] = c
	return s.ID, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, u *contracts.SupplierUpdate) error {
	r, ok := f.records[id]
	if !ok {
		return contracts.ErrNotFound
	}
	if u.ComplianceScore != nil {
		r.ComplianceScore = *u.ComplianceScore
	}
	f.records[id] = r
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id int64, status contracts.SupplierStatus) error {
	r, ok := f.records[id]
	if !ok {
		return contracts.ErrNotFound
	}
	r.Status = status
	f.records[id] = r
	return nil
}

type logged struct {
	actor      contracts.Identity
	action     string
	resource   string
	resourceID int64
	oldValues  interface{}
	newValues  interface{}
}

type fakeRecorder struct {
	entries []logged
	err     error
}

func (f *fakeRecorder) Log(_ context.Context, actor contracts.Identity, action, resource string, resourceID *int64, oldValues, newValues interface{}) error {
	f.entries = append(f.entries, logged{actor, action, resource, *resourceID, oldValues, newValues})
	return f.err
}

func newTestService() (*Service, *fakeRepo, *fakeRecorder) {
	repo := newFakeRepo()
	rec := &fakeRecorder{}
	return NewService(repo, rec, WithClock(func() time.Time { return fixedNow })), repo, rec
}

var alice = contracts.Identity{UserID: 42, Email: "alice@example.com", Role: "manager"}

func TestService_Create(t *testing.T) {
	t.Run("schedules audit by category", func(t *testing.T) {
		tests := []struct {
			category string
			months   int
			due      time.Time
		}{
			{"A", 6, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
			{"B", 12, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
			{"C", 24, time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)},
		}
		for _, tt := range tests {
			t.Run(tt.category, func(t *testing.T) {
				svc, repo, _ := newTestService()
				id, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: tt.category})
				require.NoError(t, err)

				r := repo.records[id]
				assert.Equal(t, tt.months, r.AuditFrequencyMonths)
				require.NotNil(t, r.NextAuditDue)
				assert.Equal(t, tt.due, *r.NextAuditDue)
				assert.Equal(t, contracts.SupplierActive, r.Status)
				assert.Equal(t, "Direct", r.SupplierType)
				assert.Equal(t, int64(42), r.CreatedBy)
			})
		}
	})

	t.Run("primary contact and activity", func(t *testing.T) {
		svc, repo, rec := newTestService()
		in := CreateInput{Name: "Acme", RiskCategory: "B", ContactName: "Ivan", ContactEmail: "ivan@example.com"}
		id, err := svc.Create(context.Background(), alice, in)
		require.NoError(t, err)

		require.NotNil(t, repo.contacts[id])
		assert.True(t, repo.contacts[id].IsPrimary)

		require.Len(t, rec.entries, 1)
		e := rec.entries[0]
		assert.Equal(t, alice, e.actor)
		assert.Equal(t, contracts.ActionCreate, e.action)
		assert.Equal(t, "supplier", e.resource)
		assert.Equal(t, id, e.resourceID)
		assert.Nil(t, e.oldValues)
		assert.Equal(t, in, e.newValues)
	})

	t.Run("no contact without name", func(t *testing.T) {
		svc, repo, _ := newTestService()
		id, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: "C", ContactEmail: "x@example.com"})
		require.NoError(t, err)
		assert.Nil(t, repo.contacts[id])
	})

	t.Run("validation", func(t *testing.T) {
		svc, repo, rec := newTestService()
		_, err := svc.Create(context.Background(), alice, CreateInput{RiskCategory: "D", ComplianceScore: 120, ContactEmail: "nope"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrInvalidInput))
		assert.Equal(t, map[string]string{
			"name":                 "required",
			"risk_category":        "oneof",
			"iso_compliance_score": "lte",
			"contact_email":        "email",
		}, validation.Fields(err))
		assert.Empty(t, repo.records)
		assert.Empty(t, rec.entries)
	})

	t.Run("activity failure does not fail create", func(t *testing.T) {
		svc, _, rec := newTestService()
		rec.err = errors.New("log down")
		_, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: "A"})
		assert.NoError(t, err)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.createErr = errors.New("db down")
		_, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: "A"})
		assert.ErrorContains(t, err, "failed to create supplier: db down")
	})
}

func TestService_Update(t *testing.T) {
	svc, repo, rec := newTestService()
	id, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: "B", ComplianceScore: 70})
	require.NoError(t, err)

	t.Run("logs old and new values", func(t *testing.T) {
		score := 88.0
		upd := &contracts.SupplierUpdate{ComplianceScore: &score}
		require.NoError(t, svc.Update(context.Background(), alice, id, upd))

		assert.Equal(t, 88.0, repo.records[id].ComplianceScore)
		last := rec.entries[len(rec.entries)-1]
		assert.Equal(t, contracts.ActionUpdate, last.action)
		old, ok := last.oldValues.(*contracts.SupplierRecord)
		require.True(t, ok)
		assert.Equal(t, 70.0, old.ComplianceScore)
		assert.Equal(t, upd, last.newValues)
	})

	t.Run("empty update", func(t *testing.T) {
		err := svc.Update(context.Background(), alice, id, &contracts.SupplierUpdate{})
		assert.True(t, errors.Is(err, contracts.ErrInvalidInput))
	})

	t.Run("invalid field", func(t *testing.T) {
		bad := contracts.RiskCategory("Z")
		err := svc.Update(context.Background(), alice, id, &contracts.SupplierUpdate{RiskCategory: &bad})
		assert.True(t, errors.Is(err, contracts.ErrInvalidInput))
		assert.Equal(t, "oneof", validation.Fields(err)["risk_category"])
	})

	t.Run("missing supplier", func(t *testing.T) {
		name := "x"
		err := svc.Update(context.Background(), alice, 999, &contracts.SupplierUpdate{Name: &name})
		assert.True(t, errors.Is(err, contracts.ErrNotFound))
	})
}

func TestService_Delete(t *testing.T) {
	svc, repo, rec := newTestService()
	id, err := svc.Create(context.Background(), alice, CreateInput{Name: "Acme", RiskCategory: "C"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), alice, id))
	assert.Equal(t, contracts.SupplierTerminated, repo.records[id].Status)

	last := rec.entries[len(rec.entries)-1]
	assert.Equal(t, contracts.ActionDelete, last.action)
	assert.Nil(t, last.newValues)

	err = svc.Delete(context.Background(), alice, 999)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestService_View(t *testing.T) {
	svc, _, _ := newTestService()

	past := fixedNow.AddDate(0, 0, -3)
	soon := fixedNow.AddDate(0, 0, 20)

	tests := []struct {
		name       string
		rec        contracts.SupplierRecord
		risk       string
		compliance string
		audit      string
	}{
		{
			name:       "category A forces high",
			rec:        contracts.SupplierRecord{RiskCategory: "A", ComplianceScore: 99, NextAuditDue: &soon},
			risk:       "High",
			compliance: "Excellent",
			audit:      "Due Soon",
		},
		{
			name:       "overdue audit forces high",
			rec:        contracts.SupplierRecord{RiskCategory: "C", ComplianceScore: 90, NextAuditDue: &past},
			risk:       "High",
			compliance: "Good",
			audit:      "Overdue",
		},
		{
			name:       "strict table",
			rec:        contracts.SupplierRecord{RiskCategory: "C", ComplianceScore: 80},
			risk:       "Low",
			compliance: "Acceptable",
			audit:      "",
		},
		{
			name:       "B is medium",
			rec:        contracts.SupplierRecord{RiskCategory: "B", ComplianceScore: 86},
			risk:       "Medium",
			compliance: "Good",
		},
		{
			name:       "low score dominates category",
			rec:        contracts.SupplierRecord{RiskCategory: "B", ComplianceScore: 59.9},
			risk:       "High",
			compliance: "Critical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := svc.View(tt.rec, fixedNow)
			assert.Equal(t, tt.risk, v.RiskLevel)
			assert.Equal(t, tt.compliance, v.ComplianceStatus)
			assert.Equal(t, tt.audit, v.AuditStatus)
		})
	}

	t.Run("composite score", func(t *testing.T) {
		rec := contracts.SupplierRecord{
			RiskCategory: "B",
			Capability: contracts.CapabilityScores{
				Delivery: 100, Price: 100, Quality: 100, Reliability: 100,
				Technical: 100, Efficiency: 100, Compatibility: 100,
			},
		}
		assert.InDelta(t, 95.0, svc.View(rec, fixedNow).CompositeScore, 1e-9)
	})
}

func TestService_ListAndGet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, CreateInput{Name: "Alpha", RiskCategory: "A", ComplianceScore: 90})
	require.NoError(t, err)
	id, err := svc.Create(ctx, alice, CreateInput{Name: "Gamma", RiskCategory: "C", ComplianceScore: 96})
	require.NoError(t, err)

	views, err := svc.List(ctx, contracts.NewSupplierFilter().WithRiskCategory("C"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Low", views[0].RiskLevel)
	assert.Equal(t, "Scheduled", views[0].AuditStatus)
	require.NotNil(t, views[0].DaysUntilAudit)
	assert.Equal(t, 730, *views[0].DaysUntilAudit)

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Excellent", detail.ComplianceStatus)

	_, err = svc.Get(ctx, 999)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

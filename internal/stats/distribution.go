package stats

import (
	"fmt"
	"sort"

	"github.com/SKuytov/SVP/internal/contracts"
)

// =============================================================================
// Buckets
// =============================================================================

// Bucket is a per-group count and average of a driving metric
type Bucket struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// GroupAverage groups values by key and sorts buckets by average descending.
// Ties keep key order so output is stable for the same input.
func GroupAverage(keys []string, values []float64) []Bucket {
	type acc struct {
		sum, min, max float64
		n             int
	}
	groups := make(map[string]*acc)
	order := make([]string, 0)

	for i, k := range keys {
		if i >= len(values) {
			break
		}
		v := values[i]
		g, ok := groups[k]
		if !ok {
			g = &acc{min: v, max: v}
			groups[k] = g
			order = append(order, k)
		}
		g.sum += v
		g.n++
		if v < g.min {
			g.min = v
		}
		if v > g.max {
			g.max = v
		}
	}

	buckets := make([]Bucket, 0, len(order))
	for _, k := range order {
		g := groups[k]
		buckets = append(buckets, Bucket{
			Key:     k,
			Count:   g.n,
			Average: Round(g.sum/float64(g.n), 2),
			Min:     g.min,
			Max:     g.max,
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Average != buckets[j].Average {
			return buckets[i].Average > buckets[j].Average
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// =============================================================================
// Performance distribution
// =============================================================================

// PerformanceBand labels a performance index range
type PerformanceBand struct {
	Band  string `json:"band"`
	Count int    `json:"count"`
}

// PerformanceDistribution is the bucketed view of ranked suppliers
type PerformanceDistribution struct {
	ByCategory []Bucket          `json:"by_category"`
	ByBand     []PerformanceBand `json:"by_band"`
}

// performanceBands are lower bounds on the performance index
var performanceBands = []struct {
	label string
	min   float64
}{
	{"outstanding", 85},
	{"strong", 70},
	{"average", 50},
	{"weak", 0},
}

// Distribution groups rows by risk category (average performance index)
// and counts them per performance band.
func Distribution(rows []contracts.SupplierPerformanceRow) PerformanceDistribution {
	keys := make([]string, len(rows))
	values := make([]float64, len(rows))
	bandCounts := make([]int, len(performanceBands))

	for i, r := range rows {
		keys[i] = string(r.RiskCategory)
		values[i] = r.PerformanceIndex
		bandCounts[bandIndex(r.PerformanceIndex)]++
	}

	bands := make([]PerformanceBand, len(performanceBands))
	for i, b := range performanceBands {
		bands[i] = PerformanceBand{Band: b.label, Count: bandCounts[i]}
	}

	return PerformanceDistribution{
		ByCategory: GroupAverage(keys, values),
		ByBand:     bands,
	}
}

func bandIndex(index float64) int {
	for i, b := range performanceBands {
		if index >= b.min {
			return i
		}
	}
	// 음수 지수도 마지막 구간으로
	return len(performanceBands) - 1
}

// =============================================================================
// Risk scores & mitigation priorities
// =============================================================================

// SupplierRiskScore is the multi-factor risk score of one supplier (0~100)
type SupplierRiskScore struct {
	SupplierID   int64                  `json:"supplier_id"`
	Name         string                 `json:"name"`
	RiskCategory contracts.RiskCategory `json:"risk_category"`
	RiskScore    float64                `json:"risk_score"`
}

// RiskScoreSummary is the output of RiskScores
type RiskScoreSummary struct {
	Suppliers  []SupplierRiskScore `json:"suppliers"`
	ByCategory []Bucket            `json:"by_category"`
}

// categoryRiskWeight 카테고리 기본 위험 가중치
var categoryRiskWeight = map[contracts.RiskCategory]float64{
	contracts.RiskCategoryA: 30,
	contracts.RiskCategoryB: 15,
	contracts.RiskCategoryC: 0,
}

// RiskScore combines compliance gap, category and open issues into 0~100.
// Higher is riskier.
func RiskScore(r contracts.RiskFactorRecord) float64 {
	score := (100-Clamp(r.ComplianceScore, 0, 100))*0.4 +
		categoryRiskWeight[r.RiskCategory] +
		float64(r.OpenCapas)*5 +
		float64(r.ExpiredDocs)*5 +
		float64(r.ExpiringDocs)*2 +
		float64(r.CriticalFindings)*10

	if r.DaysUntilAudit != nil && *r.DaysUntilAudit < 0 {
		score += 15
	}
	if r.BusinessCritical {
		score += 5
	}
	return Round(Clamp(score, 0, 100), 1)
}

// RiskScores scores every record, sorts by score descending (id ascending on ties)
// and buckets the scores per risk category.
func RiskScores(records []contracts.RiskFactorRecord) RiskScoreSummary {
	scores := make([]SupplierRiskScore, len(records))
	for i, r := range records {
		scores[i] = SupplierRiskScore{
			SupplierID:   r.SupplierID,
			Name:         r.Name,
			RiskCategory: r.RiskCategory,
			RiskScore:    RiskScore(r),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].RiskScore != scores[j].RiskScore {
			return scores[i].RiskScore > scores[j].RiskScore
		}
		return scores[i].SupplierID < scores[j].SupplierID
	})

	keys := make([]string, len(scores))
	values := make([]float64, len(scores))
	for i, s := range scores {
		keys[i] = string(s.RiskCategory)
		values[i] = s.RiskScore
	}

	return RiskScoreSummary{
		Suppliers:  scores,
		ByCategory: GroupAverage(keys, values),
	}
}

// Mitigation priority labels
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// MitigationPriority is a supplier with at least one open risk driver
type MitigationPriority struct {
	SupplierID   int64                  `json:"supplier_id"`
	Name         string                 `json:"name"`
	RiskCategory contracts.RiskCategory `json:"risk_category"`
	RiskScore    float64                `json:"risk_score"`
	Priority     string                 `json:"priority"`
	Reasons      []string               `json:"reasons"`
}

// MitigationPriorities lists suppliers that have a concrete risk driver,
// sorted by risk score descending. Suppliers with no driver are omitted.
func MitigationPriorities(records []contracts.RiskFactorRecord) []MitigationPriority {
	out := make([]MitigationPriority, 0)

	for _, r := range records {
		reasons := riskDrivers(r)
		if len(reasons) == 0 {
			continue
		}
		score := RiskScore(r)
		out = append(out, MitigationPriority{
			SupplierID:   r.SupplierID,
			Name:         r.Name,
			RiskCategory: r.RiskCategory,
			RiskScore:    score,
			Priority:     priorityFor(score),
			Reasons:      reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].SupplierID < out[j].SupplierID
	})
	return out
}

func riskDrivers(r contracts.RiskFactorRecord) []string {
	var reasons []string
	if r.DaysUntilAudit != nil && *r.DaysUntilAudit < 0 {
		reasons = append(reasons, fmt.Sprintf("audit overdue by %d days", -*r.DaysUntilAudit))
	}
	if r.CriticalFindings > 0 {
		reasons = append(reasons, fmt.Sprintf("%d critical findings", r.CriticalFindings))
	}
	if r.ExpiredDocs > 0 {
		reasons = append(reasons, fmt.Sprintf("%d expired documents", r.ExpiredDocs))
	}
	if r.OpenCapas > 0 {
		reasons = append(reasons, fmt.Sprintf("%d open CAPAs", r.OpenCapas))
	}
	if r.ComplianceScore < 60 {
		reasons = append(reasons, "compliance score below 60")
	}
	return reasons
}

func priorityFor(score float64) string {
	switch {
	case score >= 70:
		return PriorityCritical
	case score >= 40:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

// Benchmark is the quartile profile of one peer group
type Benchmark struct {
	RiskCategory  contracts.RiskCategory `json:"risk_category"`
	SupplierType  string                 `json:"supplier_type"`
	SupplierCount int                    `json:"supplier_count"`
	Average       float64                `json:"average"`
	P25           float64                `json:"p25"`
	Median        float64                `json:"median"`
	P75           float64                `json:"p75"`
}

// Benchmarks computes quartiles per (risk category, supplier type),
// ordered by category then type.
func Benchmarks(scores []contracts.CategoryScore) []Benchmark {
	type groupKey struct {
		cat contracts.RiskCategory
		typ string
	}
	groups := make(map[groupKey][]float64)
	for _, s := range scores {
		k := groupKey{s.RiskCategory, s.SupplierType}
		groups[k] = append(groups[k], s.Score)
	}

	out := make([]Benchmark, 0, len(groups))
	for k, values := range groups {
		out = append(out, Benchmark{
			RiskCategory:  k.cat,
			SupplierType:  k.typ,
			SupplierCount: len(values),
			Average:       Round(Mean(values), 2),
			P25:           Round(Percentile(values, 25), 2),
			Median:        Round(Percentile(values, 50), 2),
			P75:           Round(Percentile(values, 75), 2),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskCategory != out[j].RiskCategory {
			return out[i].RiskCategory < out[j].RiskCategory
		}
		return out[i].SupplierType < out[j].SupplierType
	})
	return out
}

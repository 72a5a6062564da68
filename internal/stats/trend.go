package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SKuytov/SVP/internal/contracts"
)

// Trend direction labels
const (
	TrendInsufficientData = "insufficient_data"
	TrendStable           = "stable"
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
)

// TrendDirection compares only the first and last avgCompliance.
// |Δ| < 1 is stable; no regression or smoothing.
func TrendDirection(series []contracts.ComplianceTrendPoint) string {
	if len(series) < 2 {
		return TrendInsufficientData
	}

	change := series[len(series)-1].AvgCompliance - series[0].AvgCompliance
	if math.Abs(change) < 1 {
		return TrendStable
	}
	if change > 0 {
		return TrendImproving
	}
	return TrendDeclining
}

// Volatility is the population standard deviation of avgCompliance
func Volatility(series []contracts.ComplianceTrendPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	return PopulationStdDev(avgCompliance(series))
}

func avgCompliance(series []contracts.ComplianceTrendPoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.AvgCompliance
	}
	return values
}

// MonthAverage is the average compliance of one calendar month
type MonthAverage struct {
	Month         int     `json:"month"`
	MonthName     string  `json:"month_name"`
	AvgCompliance float64 `json:"avg_compliance"`
	Samples       int     `json:"samples"`
}

// SeasonalPattern groups month-granularity trend points by calendar month
type SeasonalPattern struct {
	Detected       bool           `json:"detected"`
	ByMonth        []MonthAverage `json:"by_month"`
	StrongestMonth string         `json:"strongest_month,omitempty"`
	WeakestMonth   string         `json:"weakest_month,omitempty"`
	Spread         float64        `json:"spread"`
}

// SeasonalPatterns averages avgCompliance per calendar month.
// Only "YYYY-MM" periods are considered; fewer than 2 usable points yields an empty pattern.
func SeasonalPatterns(series []contracts.ComplianceTrendPoint) SeasonalPattern {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	used := 0

	for _, p := range series {
		month, ok := parseMonth(p.Period)
		if !ok {
			continue
		}
		sums[month] += p.AvgCompliance
		counts[month]++
		used++
	}

	if used < 2 {
		return SeasonalPattern{ByMonth: []MonthAverage{}}
	}

	months := make([]MonthAverage, 0, len(sums))
	for m, sum := range sums {
		months = append(months, MonthAverage{
			Month:         m,
			MonthName:     time.Month(m).String(),
			AvgCompliance: Round(sum/float64(counts[m]), 2),
			Samples:       counts[m],
		})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	best, worst := months[0], months[0]
	for _, m := range months[1:] {
		if m.AvgCompliance > best.AvgCompliance {
			best = m
		}
		if m.AvgCompliance < worst.AvgCompliance {
			worst = m
		}
	}

	return SeasonalPattern{
		Detected:       len(months) >= 2,
		ByMonth:        months,
		StrongestMonth: best.MonthName,
		WeakestMonth:   worst.MonthName,
		Spread:         Round(best.AvgCompliance-worst.AvgCompliance, 2),
	}
}

// parseMonth extracts the month number from a "YYYY-MM" label
func parseMonth(period string) (int, bool) {
	parts := strings.Split(period, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

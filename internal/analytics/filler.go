package analytics

import (
	"math/rand"
	"sync"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// TrendFiller synthesises dashboard trend points when no history exists.
// ⭐ SSOT: 데모용 랜덤 데이터는 이 인터페이스 뒤에서만 생성
type TrendFiller interface {
	Fill(baseScore float64) []contracts.MonthlyScore
}

// NoopFiller never fills (production default, tests)
type NoopFiller struct{}

// Fill returns nil
func (NoopFiller) Fill(float64) []contracts.MonthlyScore { return nil }

// demoMonths are the fixed demo labels
var demoMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// DemoFiller produces six months of base ± [-0.5, 0.5] from a seeded source
type DemoFiller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemoFiller creates a filler; the same seed yields the same sequence
func NewDemoFiller(seed int64) *DemoFiller {
	return &DemoFiller{rng: rand.New(rand.NewSource(seed))}
}

// Fill returns Jan~Jun around baseScore
func (f *DemoFiller) Fill(baseScore float64) []contracts.MonthlyScore {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]contracts.MonthlyScore, len(demoMonths))
	for i, m := range demoMonths {
		// rand(-5, 5) / 10
		jitter := float64(f.rng.Intn(11)-5) / 10
		out[i] = contracts.MonthlyScore{
			Month:    m,
			AvgScore: stats.Round(baseScore+jitter, 1),
		}
	}
	return out
}

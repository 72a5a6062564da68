package commands

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/SKuytov/SVP/internal/scheduler"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a boxed command header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintJobResult prints one job execution result
func PrintJobResult(r scheduler.JobResult) {
	fmt.Println()
	if r.Success {
		fmt.Printf("✅ %s completed in %.2fs (attempts: %d)\n", r.JobName, r.Duration.Seconds(), r.Attempts)
		return
	}
	fmt.Printf("❌ %s failed after %d attempt(s): %s\n", r.JobName, r.Attempts, r.Error)
}

// PrintJobStats prints the scheduler statistics ordered by job name
func PrintJobStats(stats map[string]scheduler.JobStats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stat := stats[name]
		fmt.Printf("📊 %s\n", name)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)
		printTime("Last Run", stat.LastRun)
		printTime("Last Success", stat.LastSuccess)
		printTime("Last Failure", stat.LastFailure)
		printTime("Next Run", stat.NextRun)
		fmt.Println()
	}
}

func printTime(label string, t *time.Time) {
	if t != nil {
		fmt.Printf("   %s: %s\n", label, t.Format("2006-01-02 15:04:05"))
	}
}

// maskPassword hides the password of a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

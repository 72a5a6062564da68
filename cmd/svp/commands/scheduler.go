package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/internal/repository"
	"github.com/SKuytov/SVP/internal/scheduler"
	"github.com/SKuytov/SVP/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `유지보수 스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- document_expiry: 만료된 문서 상태 갱신 (기본 매일 00:05)
- capa_overdue: 기한 지난 시정조치 표시 (기본 매일 00:10)
- analytics_cache_warmup: 분석 번들 캐시 예열 (Redis 사용 시, 기본 10분마다)

Subcommands:
  start   - 스케줄러 시작 (인자 없이 실행해도 동일)
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 재시도 정책, 캐시 TTL, Redis 상태

Example:
  go run ./cmd/svp scheduler
  go run ./cmd/svp scheduler list
  go run ./cmd/svp scheduler run document_expiry`,
	RunE: runScheduler,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  withScheduler(listJobs),
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  withScheduler(runJob),
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "스케줄러 설정 및 캐시 상태",
		RunE:  withScheduler(showStatus),
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd, schedulerListCmd, schedulerRunCmd, schedulerStatusCmd)
}

// withScheduler opens the app, registers the jobs and hands both to fn
func withScheduler(fn func(a *app, sched *scheduler.Scheduler, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sched, err := initScheduler(a)
		if err != nil {
			return err
		}
		return fn(a, sched, args)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
	return withScheduler(func(a *app, sched *scheduler.Scheduler, _ []string) error {
		PrintHeader("SVP Scheduler")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched.Start()
		PrintJobStats(sched.GetJobStats())
		fmt.Println("Press Ctrl+C to stop")

		<-ctx.Done()

		fmt.Println("\nShutting down scheduler...")
		sched.Stop()
		PrintJobStats(sched.GetJobStats())
		return nil
	})(cmd, args)
}

func listJobs(_ *app, sched *scheduler.Scheduler, _ []string) error {
	stats := sched.GetJobStats()
	now := time.Now()

	fmt.Printf("%-24s %-16s %s\n", "JOB", "SCHEDULE", "NEXT RUN")
	for _, name := range sched.GetAllJobs() {
		spec := stats[name].Schedule
		next := "-"
		if t, err := scheduler.NextRun(spec, now); err == nil {
			next = t.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-24s %-16s %s\n", name, spec, next)
	}
	return nil
}

func runJob(_ *app, sched *scheduler.Scheduler, args []string) error {
	jobName := args[0]
	PrintHeader("Run job: " + jobName)

	ctx, cancel := commandContext()
	defer cancel()

	result, err := sched.RunJobSync(ctx, jobName)
	if err != nil {
		return err
	}

	PrintJobResult(result)
	if !result.Success {
		return fmt.Errorf("job %s failed", jobName)
	}
	return nil
}

func showStatus(a *app, sched *scheduler.Scheduler, _ []string) error {
	s := a.tuning.Scheduler
	fmt.Printf("Jobs:        %d registered\n", len(sched.GetAllJobs()))
	fmt.Printf("Retry:       %d x %s\n", s.MaxRetries, s.RetryDelay)
	fmt.Printf("Cache TTL:   %s\n", a.tuning.Analytics.CacheTTL)

	if !a.redis.Enabled() {
		fmt.Println("ℹ️  Redis disabled: analytics_cache_warmup not registered")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := a.redis.Ping(ctx); err != nil {
		fmt.Printf("⚠️  Redis: %v\n", err)
		return nil
	}
	fmt.Println("✅ Redis: cache warm-up active")
	return nil
}

// initScheduler registers the maintenance jobs. The cache warm-up only runs
// when bundles are cached.
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	assembler := a.assembler()
	maintenance := repository.NewMaintenanceRepository(a.db.Pool)
	s := a.tuning.Scheduler

	sched := scheduler.New(a.log, scheduler.WithRetry(s.MaxRetries, s.RetryDelay))

	list := []scheduler.Job{
		jobs.NewDocumentExpiryJob(maintenance, assembler, s.DocumentExpiry, a.log),
		jobs.NewCapaOverdueJob(maintenance, assembler, s.CapaOverdue, a.log),
	}
	if a.redis.Enabled() && a.tuning.Analytics.CacheTTL > 0 {
		list = append(list, jobs.NewCacheWarmupJob(assembler, s.CacheWarmup, a.log))
	}

	for _, job := range list {
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("init scheduler: register %s: %w", job.Name(), err)
		}
	}
	return sched, nil
}

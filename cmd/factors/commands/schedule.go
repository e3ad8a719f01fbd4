package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factorlab/internal/s0_data"
	"github.com/wonny/factorlab/internal/scheduler"
	"github.com/wonny/factorlab/internal/scheduler/jobs"
)

var (
	scheduleCron    string
	scheduleRetries int
	scheduleNow     bool
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "피처 배치 스케줄 실행",
	Long: `build --all 을 cron 스케줄로 반복 실행합니다.

cron 표현식은 초 필드를 포함합니다 (기본: 매월 1일 06:00).
출력 형식/디렉터리는 파라미터 파일을 따릅니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/factors schedule
  go run ./cmd/factors schedule --cron "0 30 7 * * 1-5" --now`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", jobs.DefaultFeatureBatchSchedule, "cron expression (with seconds)")
	scheduleCmd.Flags().IntVar(&scheduleRetries, "retries", 0, "re-run a failed batch up to N times")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "run once immediately before waiting")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	runner, err := a.runner(ctx, "", "", 0)
	if err != nil {
		return err
	}

	job := jobs.NewFeatureBatchJob(s0_data.NewRepository(a.db.Pool), runner, a.dimension(), scheduleCron, a.log)

	sched := scheduler.New(a.log, scheduler.WithRetries(scheduleRetries, a.cfg.Pipeline.RetryDelay))
	if err := sched.AddJob(job); err != nil {
		return err
	}

	if scheduleNow {
		if _, err := sched.RunNow(ctx, job.Name()); err != nil {
			return err
		}
	}

	sched.Start(ctx)
	next, _ := sched.Next(job.Name())
	fmt.Printf("feature batch scheduled (%s), next run %s\n", scheduleCron, next.Format("2006-01-02 15:04:05"))

	<-ctx.Done()
	sched.Stop()

	stats := sched.GetJobStats()[job.Name()]
	fmt.Printf("runs: %d, success rate: %.0f%%\n", stats.TotalRuns, stats.SuccessRate*100)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factorlab/internal/s0_data"
	"github.com/wonny/factorlab/internal/s4_table"
	"github.com/wonny/factorlab/internal/sink"
)

var (
	buildTickers []string
	buildAll     bool
	buildFormat  string
	buildOut     string
	buildWorkers int
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "종목별 피처 테이블 생성",
	Long: `종목별 월말 팩터 피처 테이블을 생성합니다.

단계:
- S0 가격/재무/벤치마크 조회
- S1 재무 데이터 → 가격 캘린더 정렬 (forward fill 한도 252 거래일)
- S2 월말 기준 365일 윈도우 (관측치 > 250)
- S3 피처 계산
- S4 forward_ret 라벨링 후 저장

Example:
  go run ./cmd/factors build --ticker AAPL --ticker MSFT
  go run ./cmd/factors build --all --format csv,xlsx --out out/
  go run ./cmd/factors build --all --format postgres --workers 4`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVarP(&buildTickers, "ticker", "t", nil, "ticker(s) to build")
	buildCmd.Flags().BoolVar(&buildAll, "all", false, "build every ticker with fundamentals")
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "", "output formats: csv,xlsx,postgres,clickhouse (default from params)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory for csv/xlsx (default from params)")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "concurrent tickers (default FEATURE_WORKERS)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildAll == (len(buildTickers) > 0) {
		return fmt.Errorf("give either --ticker or --all")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	runner, err := a.runner(ctx, buildFormat, buildOut, buildWorkers)
	if err != nil {
		return err
	}

	tickers := buildTickers
	if buildAll {
		tickers, err = a.tickers(ctx)
		if err != nil {
			return err
		}
	}

	summary, err := runner.Run(ctx, tickers)
	if summary != nil {
		printSummary(summary)
	}
	return err
}

// runner builds the batch runner with sinks for the requested formats
func (a *app) runner(ctx context.Context, formats, out string, workers int) (*s4_table.Runner, error) {
	if formats == "" {
		formats = strings.Join(a.params.Output.Formats, ",")
	}
	if out == "" {
		out = a.params.Output.Dir
	}
	if workers <= 0 {
		workers = a.cfg.Pipeline.Workers
	}

	list, err := sink.ParseFormats(formats)
	if err != nil {
		return nil, err
	}

	deps := sink.Deps{Dir: out, Pool: a.db.Pool}
	for _, f := range list {
		if f == sink.FormatClickHouse {
			if deps.ClickHouse, err = a.clickHouse(ctx); err != nil {
				return nil, err
			}
		}
	}

	featureSink, err := sink.NewSinks(ctx, list, deps)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"sinks":       featureSink.Name(),
		"workers":     workers,
		"params_hash": a.paramsHash,
	}).Info("feature batch starting")

	return s4_table.NewRunner(a.assembler(), featureSink, s4_table.RunConfig{
		Workers:       workers,
		QueriesPerSec: a.cfg.Pipeline.QueriesPerSec,
	}, a.log), nil
}

func (a *app) tickers(ctx context.Context) ([]string, error) {
	tickers, err := s0_data.NewRepository(a.db.Pool).ListTickers(ctx, a.dimension())
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers with %s fundamentals", a.dimension())
	}
	return tickers, nil
}

func printSummary(s *s4_table.RunSummary) {
	PrintSection("Feature Batch")
	fmt.Printf("  Run ID    : %s\n", s.RunID)
	fmt.Printf("  Tickers   : %d\n", s.Total)
	fmt.Printf("  Written   : %d\n", s.Written)
	fmt.Printf("  Skipped   : %d\n", s.Skipped)
	fmt.Printf("  Failed    : %d\n", s.Failed)
	fmt.Printf("  Duration  : %s\n", FormatDuration(s.Duration))
	PrintDivider()
}

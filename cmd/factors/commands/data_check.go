package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/factorlab/internal/s0_data"
	"github.com/wonny/factorlab/internal/s0_data/quality"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "DB 데이터 상태 확인",
	Long: `원천 테이블의 데이터 상태를 확인합니다.

확인 항목:
- prices: 행 수, 종목 수, 기간
- fundamentals: 행 수, 종목 수, 기간
- 벤치마크 수익률 존재 여부
- 설정된 dimension 의 종목 수
- 종목별 가격 커버리지 (윈도우 관측치, closeadj, volume)

Example:
  go run ./cmd/factors data-check`,
	RunE: runDataCheck,
}

func init() {
	rootCmd.AddCommand(dataCheckCmd)
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	repo := s0_data.NewRepository(a.db.Pool)

	coverage, err := repo.Coverage(ctx)
	if err != nil {
		return err
	}

	PrintSection("📊 원천 데이터")
	for _, c := range coverage {
		fmt.Printf("  %-13s: %s rows, %s tickers, %s ~ %s\n",
			c.Table, FormatCount(c.Rows), FormatCount(int64(c.Tickers)), FormatDate(c.MinDate), FormatDate(c.MaxDate))
	}

	tickers, err := repo.ListTickers(ctx, a.dimension())
	if err != nil {
		return err
	}
	fmt.Printf("  %-13s: %s tickers\n", string(a.dimension()), FormatCount(int64(len(tickers))))

	benchmark := a.params.Data.BenchmarkTicker
	market := s0_data.NewMarketRepository(a.db.Pool, benchmark, nil, 0, a.log)
	returns, err := market.FetchMarketReturns(ctx)
	switch {
	case err != nil:
		fmt.Printf("  ❌ benchmark %s: %v\n", benchmark, err)
	case returns.Len() == 0:
		fmt.Printf("  ❌ benchmark %s: fewer than two prices\n", benchmark)
	default:
		fmt.Printf("  ✅ benchmark %s: %s returns, %s ~ %s\n", benchmark, FormatCount(int64(returns.Len())),
			FormatDate(&returns.Dates[0]), FormatDate(&returns.Dates[returns.Len()-1]))
	}

	gateConfig := quality.DefaultConfig()
	gateConfig.MinObservations = a.params.Window.MinObservations
	gate := quality.NewQualityGate(a.db.Pool, gateConfig)
	snapshot, err := gate.Check(ctx, a.dimension())
	if err != nil {
		return err
	}

	PrintSection("📈 피처 배치 요구사항 충족 여부")
	for _, key := range []string{quality.CoveragePrice, quality.CoverageHistory, quality.CoverageCloseAdj, quality.CoverageVolume} {
		fmt.Printf("  %-13s: %.1f%%\n", key, snapshot.Coverage[key]*100)
	}
	fmt.Printf("  %-13s: %.4f\n", "score", snapshot.QualityScore)
	for _, v := range gate.Violations(snapshot) {
		fmt.Printf("  ⚠️  %s\n", v)
	}
	PrintDivider()

	return nil
}

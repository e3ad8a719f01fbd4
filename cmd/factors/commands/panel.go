package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factorlab/internal/s0_data"
	"github.com/wonny/factorlab/internal/s5_panel"
)

var (
	panelOut    string
	panelFilter bool
)

// panelCmd represents the panel command
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "전 종목 분기 패널 생성",
	Long: `분기말 가격 + ARQ 재무 데이터를 전 종목에 대해 결합합니다.

- 분기 마지막 거래일 가격
- 재무 데이터 forward fill 한도 12 분기
- --filter: sharefactor == 1, 5 <= close <= 250, 시가총액 > 1천만, 결측 제거

Example:
  go run ./cmd/factors panel --out panel.csv
  go run ./cmd/factors panel --filter --out filtered.csv`,
	RunE: runPanel,
}

func init() {
	panelCmd.Flags().StringVarP(&panelOut, "out", "o", "panel.csv", "output CSV file ('-' for stdout)")
	panelCmd.Flags().BoolVar(&panelFilter, "filter", false, "apply the sensibility filter")
	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.params.Panel
	for _, col := range p.Columns {
		if !s0_data.PanelColumnAllowed(col) {
			return fmt.Errorf("panel column %q is not allowed", col)
		}
	}

	builder := s5_panel.NewBuilder(s0_data.NewPanelRepository(a.db.Pool), a.log).
		WithMaxGap(a.params.Alignment.PeriodicMaxGap)

	panel, err := builder.Build(ctx, p.Columns)
	if err != nil {
		return fmt.Errorf("build panel: %w", err)
	}

	if panelFilter {
		panel, err = s5_panel.Filter(panel, s5_panel.Thresholds{
			MinClose:     p.MinClose,
			MaxClose:     p.MaxClose,
			MinMarketCap: p.MinMarketCap,
		})
		if err != nil {
			return err
		}
	}

	out := os.Stdout
	if panelOut != "-" {
		f, err := os.Create(panelOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", panelOut, err)
		}
		defer f.Close()
		out = f
	}

	if err := s5_panel.WriteCSV(out, panel); err != nil {
		return fmt.Errorf("write panel: %w", err)
	}

	a.log.WithFields(map[string]interface{}{
		"rows":     panel.Len(),
		"filtered": panelFilter,
		"out":      panelOut,
	}).Info("panel written")

	return nil
}

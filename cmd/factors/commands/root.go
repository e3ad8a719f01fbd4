package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	paramsFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "factors",
	Short: "factorlab - 월말 팩터 피처 배치",
	Long: `factorlab Unified CLI

종목별 일별 가격 + 분기 재무 데이터를 월말 기준 팩터 피처 테이블로 변환.

Usage:
  go run ./cmd/factors [command]

Examples:
  go run ./cmd/factors build --ticker AAPL
  go run ./cmd/factors build --all --format csv,postgres --workers 4
  go run ./cmd/factors panel --filter --out panel.csv
  go run ./cmd/factors data-check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "pipeline parameter file (default FEATURE_PARAMS or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

package featureconfig

import (
	"fmt"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/sink"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Data ===
	if cfg.Data.BenchmarkTicker == "" {
		return ValidationError{"data.benchmark_ticker", "required"}
	}
	if !contracts.Dimension(cfg.Data.Dimension).Valid() {
		return ValidationError{"data.dimension", fmt.Sprintf("unknown dimension %q", cfg.Data.Dimension)}
	}

	// === Alignment ===
	if cfg.Alignment.DailyMaxGap < 0 {
		return ValidationError{"alignment.daily_max_gap", "must be >= 0"}
	}
	if cfg.Alignment.PeriodicMaxGap < 0 {
		return ValidationError{"alignment.periodic_max_gap", "must be >= 0"}
	}

	// === Window ===
	if cfg.Window.Days <= 0 {
		return ValidationError{"window.days", "must be > 0"}
	}
	if cfg.Window.MinObservations <= 0 {
		return ValidationError{"window.min_observations", "must be > 0"}
	}

	// === Features ===
	// lookback은 윈도우 최소 관측치보다 짧아야 함
	for field, lookback := range map[string]int{
		"features.momentum_lookback": cfg.Features.MomentumLookback,
		"features.monthly_lookback":  cfg.Features.MonthlyLookback,
	} {
		if lookback <= 0 {
			return ValidationError{field, "must be > 0"}
		}
		if lookback >= cfg.Window.MinObservations {
			return ValidationError{field, "must be < window.min_observations"}
		}
	}

	// === Output ===
	if len(cfg.Output.Formats) == 0 {
		return ValidationError{"output.formats", "required"}
	}
	for _, f := range cfg.Output.Formats {
		if !sink.KnownFormat(f) {
			return ValidationError{"output.formats", fmt.Sprintf("unknown format %q", f)}
		}
	}
	if cfg.Output.Dir == "" {
		return ValidationError{"output.dir", "required"}
	}

	// === Panel ===
	if cfg.Panel.MinClose < 0 || cfg.Panel.MinClose > cfg.Panel.MaxClose {
		return ValidationError{"panel", "min_close must be in [0, max_close]"}
	}
	if cfg.Panel.MinMarketCap < 0 {
		return ValidationError{"panel.min_market_cap", "must be >= 0"}
	}

	return nil
}

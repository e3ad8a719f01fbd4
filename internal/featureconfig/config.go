package featureconfig

// Config는 피처 배치 파이프라인의 전체 파라미터
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Data      Data      `yaml:"data" json:"data"`
	Alignment Alignment `yaml:"alignment" json:"alignment"`
	Window    Window    `yaml:"window" json:"window"`
	Features  Features  `yaml:"features" json:"features"`
	Output    Output    `yaml:"output" json:"output"`
	Panel     Panel     `yaml:"panel" json:"panel"`
}

// Meta 메타 정보
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Data S0: 원천 데이터 선택
type Data struct {
	BenchmarkTicker string `yaml:"benchmark_ticker" json:"benchmark_ticker"`
	Dimension       string `yaml:"dimension" json:"dimension"` // ARQ, ART, MRQ, MRT
}

// Alignment S1: 재무 데이터 forward fill 한도
type Alignment struct {
	DailyMaxGap    int `yaml:"daily_max_gap" json:"daily_max_gap"`       // trading days
	PeriodicMaxGap int `yaml:"periodic_max_gap" json:"periodic_max_gap"` // month/quarter-end periods
}

// Window S2: 롤링 윈도우
type Window struct {
	Days            int `yaml:"days" json:"days"`
	MinObservations int `yaml:"min_observations" json:"min_observations"`
}

// Features S3: 피처 lookback
type Features struct {
	MomentumLookback int `yaml:"momentum_lookback" json:"momentum_lookback"`
	MonthlyLookback  int `yaml:"monthly_lookback" json:"monthly_lookback"`
}

// Output S4: 출력 형식
type Output struct {
	Formats []string `yaml:"formats" json:"formats"` // csv, xlsx, postgres, clickhouse
	Dir     string   `yaml:"dir" json:"dir"`
}

// Panel S5: 분기 패널
type Panel struct {
	Columns      []string `yaml:"columns" json:"columns"`
	MinClose     float64  `yaml:"min_close" json:"min_close"`
	MaxClose     float64  `yaml:"max_close" json:"max_close"`
	MinMarketCap float64  `yaml:"min_market_cap" json:"min_market_cap"`
}

// Default returns the built-in parameters
func Default() *Config {
	return &Config{
		Meta: Meta{Name: "factor_features", Version: "1"},
		Data: Data{BenchmarkTicker: "SPY", Dimension: "ART"},
		Alignment: Alignment{
			DailyMaxGap:    252,
			PeriodicMaxGap: 12,
		},
		Window: Window{Days: 365, MinObservations: 250},
		Features: Features{
			MomentumLookback: 42,
			MonthlyLookback:  21,
		},
		Output: Output{Formats: []string{"csv"}, Dir: "csv"},
		Panel: Panel{
			Columns:      []string{"sharesbas", "sharefactor", "pb", "roa", "divyield"},
			MinClose:     5,
			MaxClose:     250,
			MinMarketCap: 10_000_000,
		},
	}
}

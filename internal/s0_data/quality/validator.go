package quality

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
)

// Coverage keys
const (
	CoveragePrice    = "price"    // has any daily price
	CoverageHistory  = "history"  // has enough rows for one window
	CoverageCloseAdj = "closeadj" // closeadj never NULL
	CoverageVolume   = "volume"   // volume never NULL
)

// Snapshot is the source data coverage of one dimension's ticker universe
type Snapshot struct {
	CheckedAt    time.Time
	Dimension    contracts.Dimension
	TotalTickers int
	Coverage     map[string]float64
	QualityScore float64
}

// QualityGate validates source data coverage before a batch
type QualityGate struct {
	db     *pgxpool.Pool
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinObservations     int     `yaml:"min_observations"`      // 250, rows a window needs more than
	MinPriceCoverage    float64 `yaml:"min_price_coverage"`    // 0.95
	MinHistoryCoverage  float64 `yaml:"min_history_coverage"`  // 0.80
	MinCloseAdjCoverage float64 `yaml:"min_closeadj_coverage"` // 0.95
}

// DefaultConfig returns the thresholds used by data-check
func DefaultConfig() Config {
	return Config{
		MinObservations:     250,
		MinPriceCoverage:    0.95,
		MinHistoryCoverage:  0.80,
		MinCloseAdjCoverage: 0.95,
	}
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(db *pgxpool.Pool, config Config) *QualityGate {
	return &QualityGate{
		db:     db,
		config: config,
	}
}

// Check measures coverage over tickers that have fundamentals in dimension
// ⭐ SSOT: S0 원천 데이터 품질 검증
func (g *QualityGate) Check(ctx context.Context, dimension contracts.Dimension) (*Snapshot, error) {
	query := `
		WITH universe AS (
			SELECT DISTINCT ticker FROM fundamentals WHERE dimension = $1
		),
		px AS (
			SELECT ticker, COUNT(*) AS n, COUNT(closeadj) AS n_adj, COUNT(volume) AS n_vol
			FROM prices
			WHERE frequency = 'DAILY'
			GROUP BY ticker
		)
		SELECT
			COUNT(*),
			COUNT(px.ticker),
			COUNT(*) FILTER (WHERE px.n > $2),
			COUNT(*) FILTER (WHERE px.n_adj = px.n),
			COUNT(*) FILTER (WHERE px.n_vol = px.n)
		FROM universe u
		LEFT JOIN px ON px.ticker = u.ticker
	`

	var total, withPrice, withHistory, fullAdj, fullVolume int
	err := g.db.QueryRow(ctx, query, string(dimension), g.config.MinObservations).
		Scan(&total, &withPrice, &withHistory, &fullAdj, &fullVolume)
	if err != nil {
		return nil, contracts.NewFetchError("coverage", "", err)
	}

	snapshot := &Snapshot{
		CheckedAt:    time.Now(),
		Dimension:    dimension,
		TotalTickers: total,
		Coverage: map[string]float64{
			CoveragePrice:    ratio(withPrice, total),
			CoverageHistory:  ratio(withHistory, total),
			CoverageCloseAdj: ratio(fullAdj, total),
			CoverageVolume:   ratio(fullVolume, total),
		},
	}
	snapshot.QualityScore = calculateScore(snapshot.Coverage)

	return snapshot, nil
}

// Violations lists the coverages below their thresholds, sorted by key
func (g *QualityGate) Violations(s *Snapshot) []string {
	limits := map[string]float64{
		CoveragePrice:    g.config.MinPriceCoverage,
		CoverageHistory:  g.config.MinHistoryCoverage,
		CoverageCloseAdj: g.config.MinCloseAdjCoverage,
	}

	var out []string
	for key, min := range limits {
		if cov := s.Coverage[key]; cov < min {
			out = append(out, fmt.Sprintf("%s coverage %.1f%% < %.1f%%", key, cov*100, min*100))
		}
	}
	sort.Strings(out)
	return out
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// calculateScore calculates overall quality score using weighted average
func calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		CoveragePrice:    0.30, // 가격 데이터 필수
		CoverageHistory:  0.30, // 윈도우 1개 이상
		CoverageCloseAdj: 0.25, // 수익률 계산용
		CoverageVolume:   0.15, // turnover
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}

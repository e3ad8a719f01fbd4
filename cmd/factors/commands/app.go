package commands

import (
	"context"
	"fmt"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/featureconfig"
	"github.com/wonny/factorlab/internal/s0_data"
	"github.com/wonny/factorlab/internal/s2_window"
	"github.com/wonny/factorlab/internal/s3_features"
	"github.com/wonny/factorlab/internal/s4_table"
	"github.com/wonny/factorlab/pkg/clickhouse"
	"github.com/wonny/factorlab/pkg/config"
	"github.com/wonny/factorlab/pkg/database"
	"github.com/wonny/factorlab/pkg/logger"
	"github.com/wonny/factorlab/pkg/redis"
)

// app holds the resources shared by the commands
type app struct {
	cfg        *config.Config
	params     *featureconfig.Config
	paramsHash string
	log        *logger.Logger

	db    *database.DB
	redis *redis.Client
	ch    *clickhouse.Conn
}

// newApp loads config and parameters and connects to the database
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := paramsFile
	if path == "" {
		path = cfg.Pipeline.ParamsFile
	}
	params, _, err := featureconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load params: %w", err)
	}
	if path == "" {
		// 파라미터 파일이 없으면 환경변수 값 사용
		params.Data.BenchmarkTicker = cfg.Pipeline.BenchmarkTicker
		params.Output.Dir = cfg.Pipeline.OutputDir
	}
	hash, err := featureconfig.Hash(params)
	if err != nil {
		return nil, fmt.Errorf("hash params: %w", err)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		// 캐시 없이도 배치는 동작
		log.WithError(err).Warn("redis unavailable, benchmark cache disabled")
		rc, _ = redis.New(ctx, config.RedisConfig{})
	}

	log.WithFields(map[string]interface{}{
		"params":      path,
		"params_hash": hash,
		"benchmark":   params.Data.BenchmarkTicker,
		"dimension":   params.Data.Dimension,
	}).Debug("pipeline parameters loaded")

	return &app{cfg: cfg, params: params, paramsHash: hash, log: log, db: db, redis: rc}, nil
}

// clickHouse opens the ClickHouse connection on first use
func (a *app) clickHouse(ctx context.Context) (*clickhouse.Conn, error) {
	if a.ch != nil {
		return a.ch, nil
	}
	if a.cfg.ClickHouse.DSN == "" {
		return nil, fmt.Errorf("CLICKHOUSE_DSN is not set")
	}
	conn, err := clickhouse.New(ctx, a.cfg.ClickHouse.DSN)
	if err != nil {
		return nil, err
	}
	a.ch = conn
	return conn, nil
}

func (a *app) close() {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.db.Close()
}

func (a *app) dimension() contracts.Dimension {
	return contracts.Dimension(a.params.Data.Dimension)
}

// assembler wires the providers and stages from the parameters
func (a *app) assembler() *s4_table.Assembler {
	pool := a.db.Pool
	p := a.params

	var cache *redis.Cache
	if a.redis.Enabled() {
		cache = redis.NewCache(a.redis, "factorlab")
	}

	market := s0_data.NewMarketRepository(pool, p.Data.BenchmarkTicker, cache, a.cfg.Redis.CacheTTL, a.log)

	extractor := s3_features.NewExtractor(a.log)
	extractor.MomentumLookback = p.Features.MomentumLookback
	extractor.MonthlyLookback = p.Features.MonthlyLookback

	return s4_table.NewAssembler(
		market,
		s0_data.NewPriceRepository(pool),
		s0_data.NewFundamentalRepository(pool),
		a.log,
		s4_table.WithSelector(s2_window.Selector{Days: p.Window.Days, MinObservations: p.Window.MinObservations}),
		s4_table.WithExtractor(extractor),
		s4_table.WithDimension(a.dimension()),
		s4_table.WithMaxGap(p.Alignment.DailyMaxGap),
	)
}

package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/pkg/clickhouse"
)

// Output formats accepted by NewSinks
const (
	FormatCSV        = "csv"
	FormatXLSX       = "xlsx"
	FormatPostgres   = "postgres"
	FormatClickHouse = "clickhouse"
)

// Deps are the resources a sink may need. Only the ones the requested
// formats use must be set.
type Deps struct {
	Dir        string
	Pool       *pgxpool.Pool
	ClickHouse *clickhouse.Conn
}

// ParseFormats splits a comma-separated format list, dropping blanks and duplicates
func ParseFormats(list string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if !KnownFormat(f) {
			return nil, fmt.Errorf("unknown output format %q", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return out, nil
}

// KnownFormat reports whether f names a sink
func KnownFormat(f string) bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPostgres, FormatClickHouse:
		return true
	}
	return false
}

// NewSinks builds one sink per format; several are wrapped in a MultiSink
func NewSinks(ctx context.Context, formats []string, deps Deps) (contracts.FeatureSink, error) {
	var sinks MultiSink
	for _, f := range formats {
		s, err := newSink(ctx, f, deps)
		if err != nil {
			return nil, fmt.Errorf("%s sink: %w", f, err)
		}
		sinks = append(sinks, s)
	}

	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("no output format given")
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

func newSink(ctx context.Context, format string, deps Deps) (contracts.FeatureSink, error) {
	switch format {
	case FormatCSV:
		return NewCSVSink(deps.Dir)
	case FormatXLSX:
		return NewXLSXSink(deps.Dir)
	case FormatPostgres:
		if deps.Pool == nil {
			return nil, fmt.Errorf("database pool required")
		}
		return NewPostgresSink(deps.Pool), nil
	case FormatClickHouse:
		if deps.ClickHouse == nil {
			return nil, fmt.Errorf("CLICKHOUSE_DSN required")
		}
		return NewClickHouseSink(ctx, deps.ClickHouse)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

package sink

import (
	"context"
	"strings"

	"github.com/wonny/factorlab/internal/contracts"
)

// MultiSink writes every table to each sink in order, stopping at the first error
type MultiSink []contracts.FeatureSink

func (m MultiSink) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}

func (m MultiSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	for _, s := range m {
		if err := s.Write(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

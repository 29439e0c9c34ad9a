package neighbourhood

import (
	"fmt"

	"github.com/EmpoweredVote/police-explorer/internal/config"
	"github.com/EmpoweredVote/police-explorer/internal/police"
	"go.uber.org/zap"
)

// Init builds the police client, aggregator and session registry from cfg
// and returns the HTTP handler over them.
func Init(cfg config.Config, log *zap.Logger) (*Handler, error) {
	policy, err := ParseEmptyBoundaryPolicy(cfg.EmptyBoundaryPolicy)
	if err != nil {
		return nil, fmt.Errorf("neighbourhood init: %w", err)
	}

	client := police.NewClient(cfg.PoliceAPIBaseURL,
		police.WithTimeout(cfg.PoliceAPITimeout),
		police.WithLogger(log.Named("police")))

	agg := NewAggregator(client,
		WithEmptyBoundaryPolicy(policy),
		WithParallelFetch(cfg.ParallelFetch),
		WithLogger(log.Named("neighbourhood")))

	log.Info("initialized neighbourhood aggregator",
		zap.String("base_url", cfg.PoliceAPIBaseURL),
		zap.Duration("timeout", cfg.PoliceAPITimeout),
		zap.Stringer("empty_boundary_policy", policy),
		zap.Bool("parallel_fetch", cfg.ParallelFetch))

	return NewHandler(client, NewRegistry(agg), log.Named("http")), nil
}

package performance

import "context"

type PerformanceRepository interface {
	// ListNames returns every non-empty full name, possibly with duplicates.
	ListNames(ctx context.Context) ([]string, error)
	// UpdateByFullName returns the number of rows updated.
	UpdateByFullName(ctx context.Context, fullName string, metrics Metrics) (int64, error)
	Create(ctx context.Context, row AgentPerformance) (AgentPerformance, error)
}

package port

import (
	"context"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
)

// SignalSource yields the raw per-region counts that feed a scoring run.
type SignalSource interface {
	// RegionSignals aggregates the four raw signal counts for every region.
	RegionSignals(ctx context.Context) ([]domain.RegionSignals, error)
}

// ScoreStore persists and reads well-resourced scores.
type ScoreStore interface {
	// ReplaceScores atomically clears the score table and inserts the new
	// batch. Readers never observe a partially replaced table.
	ReplaceScores(ctx context.Context, scores []domain.RegionScore) error

	// GetScore returns the stored breakdown for one region.
	// Returns ErrScoreNotFound when the region has no stored score.
	GetScore(ctx context.Context, regionCode string) (*domain.RegionScore, error)

	// TopScores returns the n highest-scoring regions.
	TopScores(ctx context.Context, n int) ([]domain.RegionScore, error)

	// IncomePairs returns (final_score, median_income) pairs for regions
	// with a positive median income on record.
	IncomePairs(ctx context.Context) ([]domain.IncomePair, error)
}

// AmenitySource yields per-region POI category counts for the
// preference-weighted recommendation step.
type AmenitySource interface {
	AmenityCounts(ctx context.Context) ([]domain.AmenityCounts, error)
}

// QueryLogStore records and lists natural-language query interpretations.
type QueryLogStore interface {
	WriteQueryLog(ctx context.Context, l *domain.QueryLog) error
	ListQueryLogs(ctx context.Context, limit int) ([]domain.QueryLog, error)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
)

// ScoringService computes the well-resourced score for every region:
// z-score normalize the four raw signals across the batch, sum them, and
// compress through the logistic sigmoid into (0,1).
type ScoringService struct {
	signals port.SignalSource
	scores  port.ScoreStore
}

// NewScoringService creates a scoring service over the given sources.
func NewScoringService(signals port.SignalSource, scores port.ScoreStore) *ScoringService {
	return &ScoringService{signals: signals, scores: scores}
}

// RunScoring executes one full scoring pass: gather signals, compute
// scores, replace the stored score set, and return a summary. Persistence
// failures propagate; no partial score state remains visible.
func (s *ScoringService) RunScoring(ctx context.Context) (*domain.ScoreSummary, error) {
	batch, err := s.signals.RegionSignals(ctx)
	if err != nil {
		return nil, fmt.Errorf("gather region signals: %w", err)
	}

	scores, err := ComputeScores(batch)
	if err != nil {
		return nil, err
	}

	if err := s.scores.ReplaceScores(ctx, scores); err != nil {
		return nil, fmt.Errorf("replace scores: %w", err)
	}

	slog.Info("scoring run complete", "regions", len(scores))
	return Summarize(scores), nil
}

// GetBreakdown returns the stored score components for one region.
func (s *ScoringService) GetBreakdown(ctx context.Context, regionCode string) (*domain.RegionScore, error) {
	return s.scores.GetScore(ctx, regionCode)
}

// TopScores returns the n highest-scoring regions from the store.
func (s *ScoringService) TopScores(ctx context.Context, n int) ([]domain.RegionScore, error) {
	return s.scores.TopScores(ctx, n)
}

// IncomeCorrelation computes the Pearson correlation between the stored
// final scores and median income, over regions where both are present and
// income is positive. Returns ErrNoCorrelation when the coefficient is
// undefined (zero qualifying pairs or zero variance).
func (s *ScoringService) IncomeCorrelation(ctx context.Context) (float64, int, error) {
	pairs, err := s.scores.IncomePairs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load income pairs: %w", err)
	}
	if len(pairs) == 0 {
		return 0, 0, port.ErrNoCorrelation
	}

	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = p.FinalScore
		ys[i] = p.MedianIncome
	}

	r, ok := pearson(xs, ys)
	if !ok {
		return 0, len(pairs), port.ErrNoCorrelation
	}
	return r, len(pairs), nil
}

// ComputeScores turns one batch of raw signals into final scores. It is a
// pure, deterministic function of its input. The batch must be non-empty
// because z-scores are defined over the whole population.
func ComputeScores(batch []domain.RegionSignals) ([]domain.RegionScore, error) {
	if len(batch) == 0 {
		return nil, port.ErrEmptyBatch
	}

	business := make([]float64, len(batch))
	stops := make([]float64, len(batch))
	schools := make([]float64, len(batch))
	pois := make([]float64, len(batch))
	for i, rs := range batch {
		business[i] = float64(rs.BusinessCount)
		stops[i] = float64(rs.StopCount)
		schools[i] = float64(rs.SchoolCapacity)
		pois[i] = float64(rs.POICount)
	}

	zBusiness := zScores(business)
	zStops := zScores(stops)
	zSchools := zScores(schools)
	zPOI := zScores(pois)

	scores := make([]domain.RegionScore, len(batch))
	for i, rs := range batch {
		aggregate := zBusiness[i] + zStops[i] + zSchools[i] + zPOI[i]
		scores[i] = domain.RegionScore{
			RegionCode: rs.RegionCode,
			RegionName: rs.RegionName,
			ZBusiness:  zBusiness[i],
			ZStops:     zStops[i],
			ZSchools:   zSchools[i],
			ZPOI:       zPOI[i],
			FinalScore: sigmoid(aggregate),
		}
	}

	// Deterministic order: best score first, region code breaks ties.
	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].FinalScore != scores[b].FinalScore {
			return scores[a].FinalScore > scores[b].FinalScore
		}
		return scores[a].RegionCode < scores[b].RegionCode
	})
	return scores, nil
}

// Summarize builds run statistics over a score set sorted best-first.
func Summarize(scores []domain.RegionScore) *domain.ScoreSummary {
	finals := make([]float64, len(scores))
	for i, sc := range scores {
		finals[i] = sc.FinalScore
	}

	topN := 5
	if topN > len(scores) {
		topN = len(scores)
	}
	bottom := make([]domain.RegionScore, topN)
	copy(bottom, scores[len(scores)-topN:])

	return &domain.ScoreSummary{
		TotalRegions: len(scores),
		Top:          append([]domain.RegionScore(nil), scores[:topN]...),
		Bottom:       bottom,
		Mean:         mean(finals),
		Median:       median(finals),
		Std:          populationStd(finals),
		Min:          minOf(finals),
		Max:          maxOf(finals),
	}
}

// zScores normalizes values against their population mean and standard
// deviation (divide by N). Zero variance maps every value to z = 0.
func zScores(values []float64) []float64 {
	m := mean(values)
	std := populationStd(values)

	z := make([]float64, len(values))
	if std == 0 {
		return z
	}
	for i, v := range values {
		z[i] = (v - m) / std
	}
	return z
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStd(values []float64) float64 {
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// pearson computes the sample Pearson correlation coefficient. ok is false
// when the coefficient is undefined (either series has zero variance).
func pearson(xs, ys []float64) (float64, bool) {
	mx := mean(xs)
	my := mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

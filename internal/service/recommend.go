package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
)

// RecommendService ranks suburbs by applying preference weights as a
// linear combination over normalized per-region POI category counts.
type RecommendService struct {
	amenities port.AmenitySource
}

// NewRecommendService creates a recommendation service over the given source.
func NewRecommendService(amenities port.AmenitySource) *RecommendService {
	return &RecommendService{amenities: amenities}
}

// Recommend returns the topN suburbs ranked by the weighted amenity score.
func (s *RecommendService) Recommend(ctx context.Context, weights domain.WeightVector, topN int) ([]domain.Recommendation, error) {
	counts, err := s.amenities.AmenityCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load amenity counts: %w", err)
	}
	if len(counts) == 0 {
		return nil, port.ErrNoRegions
	}
	if topN <= 0 {
		topN = 10
	}

	recs := RankSuburbs(counts, weights)
	if topN < len(recs) {
		recs = recs[:topN]
	}

	slog.Info("recommendations computed", "regions", len(counts), "returned", len(recs))
	return recs, nil
}

// RankSuburbs scores every region against the weights and sorts best-first.
// Category counts are normalized by the largest total POI count in the set
// so all scores land on a comparable 0-1 scale.
func RankSuburbs(counts []domain.AmenityCounts, weights domain.WeightVector) []domain.Recommendation {
	var maxPOIs int
	for _, c := range counts {
		if c.TotalPOIs > maxPOIs {
			maxPOIs = c.TotalPOIs
		}
	}

	recs := make([]domain.Recommendation, len(counts))
	for i, c := range counts {
		var score float64
		if maxPOIs > 0 {
			m := float64(maxPOIs)
			score = weights.Recreation*float64(c.Recreation)/m +
				weights.Community*float64(c.Community)/m +
				weights.Transport*float64(c.Transport)/m +
				weights.Education*float64(c.Education)/m +
				weights.Utility*float64(c.Utility)/m
		}
		recs[i] = domain.Recommendation{
			SuburbName: c.RegionName,
			Score:      score,
			POICounts: map[string]int{
				"recreation": c.Recreation,
				"community":  c.Community,
				"transport":  c.Transport,
				"education":  c.Education,
				"utility":    c.Utility,
			},
			TotalPOIs: c.TotalPOIs,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		}
	}

	sort.SliceStable(recs, func(a, b int) bool {
		if recs[a].Score != recs[b].Score {
			return recs[a].Score > recs[b].Score
		}
		return recs[a].SuburbName < recs[b].SuburbName
	})
	return recs
}

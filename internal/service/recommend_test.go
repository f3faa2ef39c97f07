package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
)

type fakeAmenitySource struct {
	counts []domain.AmenityCounts
	err    error
}

func (f *fakeAmenitySource) AmenityCounts(ctx context.Context) ([]domain.AmenityCounts, error) {
	return f.counts, f.err
}

func amenityFixture() []domain.AmenityCounts {
	return []domain.AmenityCounts{
		{RegionName: "Sydney - City and Inner South", TotalPOIs: 100, Recreation: 30, Community: 20, Transport: 30, Education: 10, Utility: 10},
		{RegionName: "Sydney - Parramatta", TotalPOIs: 80, Recreation: 10, Community: 20, Transport: 20, Education: 25, Utility: 5},
		{RegionName: "Sydney - Ryde", TotalPOIs: 50, Recreation: 25, Community: 5, Transport: 5, Education: 10, Utility: 5},
	}
}

func TestRankSuburbsWeighted(t *testing.T) {
	// All weight on education: Parramatta has the highest education count,
	// so it must rank first despite fewer total POIs.
	weights := domain.WeightVector{Education: 1}

	recs := RankSuburbs(amenityFixture(), weights)
	require.Len(t, recs, 3)
	assert.Equal(t, "Sydney - Parramatta", recs[0].SuburbName)
	assert.InDelta(t, 25.0/100.0, recs[0].Score, 1e-9)
}

func TestRankSuburbsNormalizesByMaxTotal(t *testing.T) {
	weights := domain.DefaultWeights()
	recs := RankSuburbs(amenityFixture(), weights)

	for _, r := range recs {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
	// Scores descend.
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestRecommendTopN(t *testing.T) {
	svc := NewRecommendService(&fakeAmenitySource{counts: amenityFixture()})

	recs, err := svc.Recommend(context.Background(), domain.DefaultWeights(), 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecommendNoRegions(t *testing.T) {
	svc := NewRecommendService(&fakeAmenitySource{})

	_, err := svc.Recommend(context.Background(), domain.DefaultWeights(), 5)
	assert.ErrorIs(t, err, port.ErrNoRegions)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.True(t, w.Valid())
}

func TestNormalized(t *testing.T) {
	w := WeightVector{Recreation: 2, Community: 1, Transport: 1}.Normalized()
	assert.InDelta(t, 0.5, w.Recreation, 1e-9)
	assert.InDelta(t, 0.25, w.Community, 1e-9)
	assert.InDelta(t, 0.25, w.Transport, 1e-9)
	assert.True(t, w.Valid())
}

func TestNormalizedZeroVectorFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultWeights(), WeightVector{}.Normalized())
}

func TestValidRejectsNegativeAndUnnormalized(t *testing.T) {
	assert.False(t, WeightVector{Recreation: -0.1, Community: 1.1}.Valid())
	assert.False(t, WeightVector{Recreation: 0.5}.Valid())
}

func TestExampleCatalogWeightsSumToOne(t *testing.T) {
	for _, ex := range ExampleCatalog() {
		assert.Truef(t, ex.Weights.Valid(), "catalog entry %q", ex.Text)
	}
}

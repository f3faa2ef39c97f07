package domain

import "math"

// WeightVector holds the five preference weights used to rank suburbs.
// A well-formed vector has non-negative fields summing to 1.0.
type WeightVector struct {
	Recreation float64 `json:"recreation"`
	Community  float64 `json:"community"`
	Transport  float64 `json:"transport"`
	Education  float64 `json:"education"`
	Utility    float64 `json:"utility"`
}

// DefaultWeights returns the weights used when nothing better can be inferred.
func DefaultWeights() WeightVector {
	return WeightVector{
		Recreation: 0.25,
		Community:  0.25,
		Transport:  0.25,
		Education:  0.15,
		Utility:    0.10,
	}
}

// Sum returns the total of all five fields.
func (w WeightVector) Sum() float64 {
	return w.Recreation + w.Community + w.Transport + w.Education + w.Utility
}

// Normalized returns a copy scaled so the fields sum to exactly 1.0.
// A zero vector normalizes to the default weights.
func (w WeightVector) Normalized() WeightVector {
	total := w.Sum()
	if total == 0 {
		return DefaultWeights()
	}
	return WeightVector{
		Recreation: w.Recreation / total,
		Community:  w.Community / total,
		Transport:  w.Transport / total,
		Education:  w.Education / total,
		Utility:    w.Utility / total,
	}
}

// Scale returns the vector multiplied by a scalar.
func (w WeightVector) Scale(f float64) WeightVector {
	return WeightVector{
		Recreation: w.Recreation * f,
		Community:  w.Community * f,
		Transport:  w.Transport * f,
		Education:  w.Education * f,
		Utility:    w.Utility * f,
	}
}

// Add returns the element-wise sum of two vectors.
func (w WeightVector) Add(o WeightVector) WeightVector {
	return WeightVector{
		Recreation: w.Recreation + o.Recreation,
		Community:  w.Community + o.Community,
		Transport:  w.Transport + o.Transport,
		Education:  w.Education + o.Education,
		Utility:    w.Utility + o.Utility,
	}
}

// Valid reports whether all fields are non-negative and sum to 1.0
// within floating-point tolerance.
func (w WeightVector) Valid() bool {
	if w.Recreation < 0 || w.Community < 0 || w.Transport < 0 || w.Education < 0 || w.Utility < 0 {
		return false
	}
	return math.Abs(w.Sum()-1.0) <= 1e-6
}

package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrEmptyBatch          = errors.New("scoring batch is empty")
	ErrScoreNotFound       = errors.New("region score not found")
	ErrNoCorrelation       = errors.New("no qualifying income pairs for correlation")
	ErrEmbedderUnavailable = errors.New("embedding backend unavailable")
	ErrNoSimilarProfile    = errors.New("no sufficiently similar example profile")
	ErrNoRegions           = errors.New("no region amenity data found")
)

package domain

import "time"

// RegionSignals holds the raw per-region counts that feed the
// well-resourced score. One batch covers every region being scored.
type RegionSignals struct {
	RegionCode     string `json:"region_code"    db:"region_code"`
	RegionName     string `json:"region_name"    db:"region_name"`
	BusinessCount  int    `json:"business_count" db:"business_count"`
	StopCount      int    `json:"stop_count"     db:"stop_count"`
	SchoolCapacity int    `json:"school_capacity" db:"school_capacity"`
	POICount       int    `json:"poi_count"      db:"poi_count"`
}

// RegionScore is the persisted result of one scoring pass: the four
// z-score components and the sigmoid-compressed final score in (0,1).
type RegionScore struct {
	RegionCode string    `json:"region_code" db:"region_code"`
	RegionName string    `json:"region_name" db:"region_name"`
	ZBusiness  float64   `json:"z_business"  db:"business_score"`
	ZStops     float64   `json:"z_stops"     db:"stops_score"`
	ZSchools   float64   `json:"z_schools"   db:"schools_score"`
	ZPOI       float64   `json:"z_poi"       db:"poi_score"`
	FinalScore float64   `json:"final_score" db:"total_score"`
	CreatedAt  time.Time `json:"created_at,omitzero" db:"created_at"`
}

// ScoreSummary describes one completed scoring run.
type ScoreSummary struct {
	TotalRegions int           `json:"total_regions"`
	Top          []RegionScore `json:"top_regions"`
	Bottom       []RegionScore `json:"bottom_regions"`
	Mean         float64       `json:"mean"`
	Median       float64       `json:"median"`
	Std          float64       `json:"std"`
	Min          float64       `json:"min"`
	Max          float64       `json:"max"`
}

// AmenityCounts holds per-category POI counts for one region, used by the
// preference-weighted recommendation step.
type AmenityCounts struct {
	RegionName string  `json:"region_name" db:"region_name"`
	TotalPOIs  int     `json:"total_pois"  db:"total_pois"`
	Recreation int     `json:"recreation"  db:"recreation_count"`
	Community  int     `json:"community"   db:"community_count"`
	Transport  int     `json:"transport"   db:"transport_count"`
	Education  int     `json:"education"   db:"education_count"`
	Utility    int     `json:"utility"     db:"utility_count"`
	Latitude   float64 `json:"latitude"    db:"avg_lat"`
	Longitude  float64 `json:"longitude"   db:"avg_lon"`
}

// Recommendation is one ranked suburb returned to the caller.
type Recommendation struct {
	SuburbName string         `json:"suburb_name"`
	Score      float64        `json:"score"`
	POICounts  map[string]int `json:"poi_counts"`
	TotalPOIs  int            `json:"total_pois"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
}

// IncomePair joins a region's final score with its median income, for the
// score/income correlation report.
type IncomePair struct {
	FinalScore   float64 `db:"total_score"`
	MedianIncome float64 `db:"median_income"`
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// relevantIndustries are the business categories that count toward the
// well-resourced business signal.
var relevantIndustries = []string{
	"Health Care and Social Assistance",
	"Rental, Hiring and Real Estate Services",
	"Transport, Postal and Warehousing",
	"Electricity, Gas, Water and Waste Services",
	"Financial and Insurance Services",
	"Accomodation and Food Services",
	"Education and Training",
}

// --- Region signals ---

// RegionSignals aggregates the four raw signal counts for every region in
// one pass: relevant business counts, transport stops, school capacity and
// POI counts, all joined on the region boundary.
func (s *PostgresStore) RegionSignals(ctx context.Context) ([]domain.RegionSignals, error) {
	query := `
		SELECT b.region_code, b.region_name,
		       COALESCE(biz.relevant_businesses, 0) AS business_count,
		       COALESCE(st.stop_count, 0)           AS stop_count,
		       COALESCE(sc.total_students, 0)       AS school_capacity,
		       COALESCE(p.poi_count, 0)             AS poi_count
		FROM region_boundaries b
		LEFT JOIN (
			SELECT region_code, SUM(total_businesses) AS relevant_businesses
			FROM businesses
			WHERE industry_name = ANY($1)
			GROUP BY region_code
		) biz ON biz.region_code = b.region_code
		LEFT JOIN (
			SELECT b2.region_code, COUNT(*) AS stop_count
			FROM stops s
			JOIN region_boundaries b2 ON ST_Contains(b2.geometry, s.geom)
			GROUP BY b2.region_code
		) st ON st.region_code = b.region_code
		LEFT JOIN (
			SELECT b3.region_code, SUM(s.student_capacity) AS total_students
			FROM schools s
			JOIN region_boundaries b3 ON ST_Contains(b3.geometry, s.geom)
			GROUP BY b3.region_code
		) sc ON sc.region_code = b.region_code
		LEFT JOIN (
			SELECT b4.region_code, COUNT(*) AS poi_count
			FROM poi_data p
			JOIN region_boundaries b4 ON ST_Contains(b4.geometry, p.geom)
			GROUP BY b4.region_code
		) p ON p.region_code = b.region_code
		ORDER BY b.region_code`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(relevantIndustries))
	if err != nil {
		return nil, fmt.Errorf("region signals: %w", err)
	}
	defer rows.Close()

	var signals []domain.RegionSignals
	for rows.Next() {
		var rs domain.RegionSignals
		if err := rows.Scan(
			&rs.RegionCode, &rs.RegionName,
			&rs.BusinessCount, &rs.StopCount, &rs.SchoolCapacity, &rs.POICount,
		); err != nil {
			return nil, fmt.Errorf("scan region signals: %w", err)
		}
		signals = append(signals, rs)
	}
	return signals, rows.Err()
}

// --- Amenity counts ---

// AmenityCounts returns per-region POI category counts for the
// recommendation step. Regions with fewer than 20 POIs are excluded.
func (s *PostgresStore) AmenityCounts(ctx context.Context) ([]domain.AmenityCounts, error) {
	query := `
		SELECT region_name,
		       COUNT(*) AS total_pois,
		       COUNT(CASE WHEN group_name = 'Recreation' THEN 1 END) AS recreation_count,
		       COUNT(CASE WHEN group_name = 'Community'  THEN 1 END) AS community_count,
		       COUNT(CASE WHEN group_name = 'Transport'  THEN 1 END) AS transport_count,
		       COUNT(CASE WHEN group_name = 'Education'  THEN 1 END) AS education_count,
		       COUNT(CASE WHEN group_name = 'Utility'    THEN 1 END) AS utility_count,
		       AVG(latitude)  AS avg_lat,
		       AVG(longitude) AS avg_lon
		FROM poi_data
		WHERE region_name IS NOT NULL
		GROUP BY region_name
		HAVING COUNT(*) >= 20
		ORDER BY total_pois DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("amenity counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.AmenityCounts
	for rows.Next() {
		var ac domain.AmenityCounts
		if err := rows.Scan(
			&ac.RegionName, &ac.TotalPOIs,
			&ac.Recreation, &ac.Community, &ac.Transport, &ac.Education, &ac.Utility,
			&ac.Latitude, &ac.Longitude,
		); err != nil {
			return nil, fmt.Errorf("scan amenity counts: %w", err)
		}
		counts = append(counts, ac)
	}
	return counts, rows.Err()
}

// --- Query logs ---

// WriteQueryLog records one natural-language query interpretation.
func (s *PostgresStore) WriteQueryLog(ctx context.Context, l *domain.QueryLog) error {
	query := `INSERT INTO query_logs (id, query, mode, weights, ip, user_agent)
	          VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	_, err := s.db.ExecContext(ctx, query, l.ID, l.Query, l.Mode, l.Weights, l.IP, l.UserAgent)
	if err != nil {
		return fmt.Errorf("write query log: %w", err)
	}
	return nil
}

// ListQueryLogs returns recent query logs, newest first.
func (s *PostgresStore) ListQueryLogs(ctx context.Context, limit int) ([]domain.QueryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, query, mode, weights::text, ip, user_agent, created_at
	          FROM query_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.QueryLog
	for rows.Next() {
		var l domain.QueryLog
		if err := rows.Scan(&l.ID, &l.Query, &l.Mode, &l.Weights, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

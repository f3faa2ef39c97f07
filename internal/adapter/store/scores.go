package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
)

// ScoreStore handles persistence of well-resourced region scores.
type ScoreStore struct {
	store *PostgresStore
}

// NewScoreStore creates a score store backed by the given Postgres store.
func NewScoreStore(store *PostgresStore) *ScoreStore {
	return &ScoreStore{store: store}
}

// ReplaceScores clears the score table and inserts the new batch in a
// single transaction, so readers never observe a partially replaced table.
func (s *ScoreStore) ReplaceScores(ctx context.Context, scores []domain.RegionScore) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM region_scores`); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO region_scores (region_code, region_name, business_score, stops_score, schools_score, poi_score, total_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, sc := range scores {
		if _, err := stmt.ExecContext(ctx,
			sc.RegionCode, sc.RegionName, sc.ZBusiness, sc.ZStops, sc.ZSchools, sc.ZPOI, sc.FinalScore,
		); err != nil {
			return fmt.Errorf("insert score %s: %w", sc.RegionCode, err)
		}
	}

	return tx.Commit()
}

// GetScore returns the stored breakdown for one region.
func (s *ScoreStore) GetScore(ctx context.Context, regionCode string) (*domain.RegionScore, error) {
	query := `SELECT region_code, region_name, business_score, stops_score, schools_score, poi_score, total_score, created_at
	          FROM region_scores WHERE region_code = $1`

	var sc domain.RegionScore
	err := s.store.db.QueryRowContext(ctx, query, regionCode).Scan(
		&sc.RegionCode, &sc.RegionName,
		&sc.ZBusiness, &sc.ZStops, &sc.ZSchools, &sc.ZPOI,
		&sc.FinalScore, &sc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	return &sc, nil
}

// TopScores returns the n highest-scoring regions, region code as tie-break.
func (s *ScoreStore) TopScores(ctx context.Context, n int) ([]domain.RegionScore, error) {
	if n <= 0 {
		n = 10
	}
	query := `SELECT region_code, region_name, business_score, stops_score, schools_score, poi_score, total_score, created_at
	          FROM region_scores ORDER BY total_score DESC, region_code ASC LIMIT $1`

	rows, err := s.store.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.RegionScore
	for rows.Next() {
		var sc domain.RegionScore
		if err := rows.Scan(
			&sc.RegionCode, &sc.RegionName,
			&sc.ZBusiness, &sc.ZStops, &sc.ZSchools, &sc.ZPOI,
			&sc.FinalScore, &sc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// IncomePairs returns (final_score, median_income) pairs for regions with a
// positive median income on record.
func (s *ScoreStore) IncomePairs(ctx context.Context) ([]domain.IncomePair, error) {
	query := `SELECT s.total_score, i.median_income
	          FROM region_scores s
	          JOIN income i ON i.region_code = s.region_code
	          WHERE i.median_income IS NOT NULL AND i.median_income > 0`

	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("income pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.IncomePair
	for rows.Next() {
		var p domain.IncomePair
		if err := rows.Scan(&p.FinalScore, &p.MedianIncome); err != nil {
			return nil, fmt.Errorf("scan income pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

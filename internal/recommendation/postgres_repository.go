package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kindlingapp/kindling/internal/profile"
)

// PostgresRepository is a PostgreSQL implementation of Repository. Entries
// live in user_recommendations as profile snapshots; the in-progress flag
// lives in recommendation_state, one row per user.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL recommendation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Replace rewrites userID's set in a single transaction: delete everything,
// then batch-insert the new candidates. Readers see either the old set or
// the new one, never a mix.
func (r *PostgresRepository) Replace(ctx context.Context, userID string, candidates []Candidate) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM user_recommendations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	if len(candidates) > 0 {
		batch := &pgx.Batch{}
		now := time.Now()
		for i, c := range candidates {
			snapshot, err := json.Marshal(c.Profile)
			if err != nil {
				return fmt.Errorf("failed to marshal candidate snapshot: %w", err)
			}
			batch.Queue(`
				INSERT INTO user_recommendations (user_id, candidate_id, snapshot, distance, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				userID, c.Profile.ID, snapshot, c.Distance, i, now,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range candidates {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert recommendation: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Remove deletes one entry; deleting a missing entry succeeds.
func (r *PostgresRepository) Remove(ctx context.Context, userID, candidateID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_recommendations
		WHERE user_id = $1 AND candidate_id = $2`,
		userID, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove recommendation: %w", err)
	}
	return nil
}

// Count returns the size of userID's set.
func (r *PostgresRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_recommendations WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return count, nil
}

// List returns one page of userID's set in recomputation order.
func (r *PostgresRepository) List(ctx context.Context, userID string, page, size int) ([]Candidate, error) {
	offset := (page - 1) * size
	rows, err := r.pool.Query(ctx, `
		SELECT snapshot, distance
		FROM user_recommendations
		WHERE user_id = $1
		ORDER BY position ASC
		LIMIT $2 OFFSET $3`,
		userID, size, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var (
			snapshot []byte
			c        Candidate
		)
		if err := rows.Scan(&snapshot, &c.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		var p profile.Profile
		if err := json.Unmarshal(snapshot, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal candidate snapshot: %w", err)
		}
		c.Profile = p
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return candidates, nil
}

// SetComputing upserts the in-progress flag row.
func (r *PostgresRepository) SetComputing(ctx context.Context, userID string, computing bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recommendation_state (user_id, is_computing, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			is_computing = EXCLUDED.is_computing,
			updated_at = EXCLUDED.updated_at`,
		userID, computing, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set computing flag: %w", err)
	}
	return nil
}

// Computing reads the in-progress flag; a user with no flag row reads false.
func (r *PostgresRepository) Computing(ctx context.Context, userID string) (bool, error) {
	var computing bool
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT is_computing FROM recommendation_state WHERE user_id = $1),
			FALSE
		)`,
		userID,
	).Scan(&computing)
	if err != nil {
		return false, fmt.Errorf("failed to read computing flag: %w", err)
	}
	return computing, nil
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

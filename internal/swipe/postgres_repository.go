package swipe

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL swipe repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record upserts a swipe into its (author, category, target) slot.
func (r *PostgresRepository) Record(ctx context.Context, s *Swipe) error {
	query := `
		INSERT INTO user_swipes (author_id, category, swiped_profile_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (author_id, category, swiped_profile_id) DO UPDATE SET
			type = EXCLUDED.type,
			created_at = EXCLUDED.created_at
	`

	_, err := r.pool.Exec(ctx, query,
		s.AuthorID, s.Type.Category(), s.SwipedProfileID, s.Type, s.CreatedAt)
	return err
}

// Get retrieves the swipe stored for (authorID, category, targetID).
func (r *PostgresRepository) Get(ctx context.Context, authorID, category, targetID string) (*Swipe, error) {
	query := `
		SELECT author_id, swiped_profile_id, type, created_at
		FROM user_swipes
		WHERE author_id = $1 AND category = $2 AND swiped_profile_id = $3
	`

	var s Swipe
	err := r.pool.QueryRow(ctx, query, authorID, category, targetID).Scan(
		&s.AuthorID, &s.SwipedProfileID, &s.Type, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSwipeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AllByAuthor merges the given categories into a target→type map.
func (r *PostgresRepository) AllByAuthor(ctx context.Context, authorID string, categories []string) (map[string]Type, error) {
	query := `
		SELECT swiped_profile_id, type
		FROM user_swipes
		WHERE author_id = $1 AND category = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, authorID, categories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	merged := make(map[string]Type)
	for rows.Next() {
		var target string
		var t Type
		if err := rows.Scan(&target, &t); err != nil {
			return nil, err
		}
		merged[target] = t
	}
	return merged, rows.Err()
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kindlingapp/kindling/internal/profile"
)

// PostgresRepository is a PostgreSQL implementation of Repository. Profile
// snapshots are stored as JSONB so a match keeps the other user's profile
// exactly as it looked at match time.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL match repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Add appends a match entry to ownerID's match list. A pair matches at most
// once; replays of the same match event are ignored.
func (r *PostgresRepository) Add(ctx context.Context, ownerID string, m *Match) error {
	snapshot, err := json.Marshal(m.Match)
	if err != nil {
		return fmt.Errorf("marshal match snapshot: %w", err)
	}

	query := `
		INSERT INTO user_matches (owner_id, matched_id, snapshot, has_been_seen, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, matched_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query, ownerID, m.ID, snapshot, m.HasBeenSeen, m.CreatedAt)
	return err
}

// List returns one page of ownerID's match list, newest first.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, page, size int) ([]*Match, error) {
	if page < 1 {
		page = 1
	}

	query := `
		SELECT matched_id, snapshot, has_been_seen, created_at
		FROM user_matches
		WHERE owner_id = $1
		ORDER BY created_at DESC, matched_id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var m Match
		var snapshot []byte
		if err := rows.Scan(&m.ID, &snapshot, &m.HasBeenSeen, &m.CreatedAt); err != nil {
			return nil, err
		}
		var p profile.Profile
		if err := json.Unmarshal(snapshot, &p); err != nil {
			return nil, fmt.Errorf("unmarshal match snapshot: %w", err)
		}
		m.Match = p
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

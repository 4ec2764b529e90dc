package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileColumns is the shared column list for profile row scans.
const profileColumns = `
	id, first_name, last_name, email, phone, profile_picture_url,
	latitude, longitude,
	distance_radius, gender, gender_preference, show_me,
	has_computed_recommendations, current_recommendation_size,
	indexed_latitude, indexed_longitude,
	created_at, updated_at`

// PostgresRepository is a PostgreSQL implementation of Repository. Proximity
// queries rely on the cube/earthdistance extensions; the indexed_latitude and
// indexed_longitude columns carry the spatial-index mirror of the declared
// coordinates.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create creates a new profile.
func (r *PostgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO user_profiles (
			id, first_name, last_name, email, phone, profile_picture_url,
			latitude, longitude,
			distance_radius, gender, gender_preference, show_me,
			has_computed_recommendations, current_recommendation_size,
			indexed_latitude, indexed_longitude,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.pool.Exec(ctx, query, profileArgs(p)...)
	return err
}

// Update replaces an existing profile.
func (r *PostgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE user_profiles SET
			first_name = $2, last_name = $3, email = $4, phone = $5,
			profile_picture_url = $6,
			latitude = $7, longitude = $8,
			distance_radius = $9, gender = $10, gender_preference = $11, show_me = $12,
			has_computed_recommendations = $13, current_recommendation_size = $14,
			indexed_latitude = $15, indexed_longitude = $16,
			updated_at = $17
		WHERE id = $1
	`

	args := profileArgs(p)
	// Drop created_at; it is immutable after Create.
	args = append(args[:16], p.UpdatedAt)
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateSettings writes only the settings fields of a profile.
func (r *PostgresRepository) UpdateSettings(ctx context.Context, id string, s Settings) error {
	query := `
		UPDATE user_profiles SET
			distance_radius = $2, gender = $3, gender_preference = $4, show_me = $5,
			updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		id, s.DistanceRadius, s.Gender, s.GenderPreference, s.ShowMe, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetComputedState records the outcome of a recomputation cycle.
func (r *PostgresRepository) SetComputedState(ctx context.Context, id string, size int, settings *Settings) error {
	if settings == nil {
		query := `
			UPDATE user_profiles SET
				has_computed_recommendations = TRUE,
				current_recommendation_size = $2,
				updated_at = $3
			WHERE id = $1
		`
		result, err := r.pool.Exec(ctx, query, id, size, time.Now())
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrProfileNotFound
		}
		return nil
	}

	query := `
		UPDATE user_profiles SET
			has_computed_recommendations = TRUE,
			current_recommendation_size = $2,
			distance_radius = $3, gender = $4, gender_preference = $5, show_me = $6,
			updated_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		id, size,
		settings.DistanceRadius, settings.Gender, settings.GenderPreference, settings.ShowMe,
		time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateGeoIndex writes the coordinates to the spatial-index mirror.
func (r *PostgresRepository) UpdateGeoIndex(ctx context.Context, id string, loc Location) error {
	query := `
		UPDATE user_profiles SET
			indexed_latitude = $2, indexed_longitude = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, loc.Latitude, loc.Longitude, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// Nearby returns discoverable profiles within the query radius, closest
// first, with the index-supplied distance in kilometers.
func (r *PostgresRepository) Nearby(ctx context.Context, q ProximityQuery) ([]NearbyProfile, error) {
	query := `
		SELECT ` + profileColumns + `,
			earth_distance(
				ll_to_earth(indexed_latitude, indexed_longitude),
				ll_to_earth($1, $2)
			) / 1000.0 AS distance_km
		FROM user_profiles
		WHERE indexed_latitude IS NOT NULL
			AND COALESCE(show_me, TRUE)
			AND ($3 = '' OR gender = $3)
			AND earth_box(ll_to_earth($1, $2), $4) @> ll_to_earth(indexed_latitude, indexed_longitude)
			AND earth_distance(
				ll_to_earth(indexed_latitude, indexed_longitude),
				ll_to_earth($1, $2)
			) <= $4
		ORDER BY distance_km ASC
		LIMIT $5
	`

	radiusMeters := q.RadiusKM * 1000
	rows, err := r.pool.Query(ctx, query,
		q.Center.Latitude, q.Center.Longitude, q.Gender, radiusMeters, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}
	defer rows.Close()

	var results []NearbyProfile
	for rows.Next() {
		p, distanceKM, err := scanProfileWithDistance(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, NearbyProfile{Profile: p, DistanceKM: distanceKM})
	}
	return results, rows.Err()
}

// ListRecent returns one page of discoverable profiles, newest first, using
// keyset pagination on (created_at, id).
func (r *PostgresRepository) ListRecent(ctx context.Context, q RecencyQuery) ([]*Profile, string, error) {
	cursorTime, cursorID, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE COALESCE(show_me, TRUE)
			AND ($1 = '' OR gender = $1)
			AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3))
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, q.Gender, cursorTime, cursorID, q.Limit)
	if err != nil {
		return nil, "", fmt.Errorf("recency query: %w", err)
	}
	defer rows.Close()

	var page []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, "", err
		}
		page = append(page, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(page) > 0 {
		last := page[len(page)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, next, nil
}

func encodeCursor(t time.Time, id string) string {
	return strconv.FormatInt(t.UnixNano(), 10) + ":" + id
}

func decodeCursor(cursor string) (*time.Time, *string, error) {
	if cursor == "" {
		return nil, nil, nil
	}
	nanos, id, ok := strings.Cut(cursor, ":")
	if !ok {
		return nil, nil, fmt.Errorf("malformed pagination cursor %q", cursor)
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("malformed pagination cursor %q", cursor)
	}
	t := time.Unix(0, n)
	return &t, &id, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	p, _, err := scan(row, false)
	return p, err
}

func scanProfileWithDistance(row rowScanner) (*Profile, float64, error) {
	return scan(row, true)
}

func scan(row rowScanner, withDistance bool) (*Profile, float64, error) {
	var (
		p                Profile
		lat, lon         *float64
		idxLat, idxLon   *float64
		distanceRadius   *string
		gender           *string
		genderPreference *string
		showMe           *bool
		distanceKM       float64
	)

	dest := []any{
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.ProfilePictureURL,
		&lat, &lon,
		&distanceRadius, &gender, &genderPreference, &showMe,
		&p.HasComputedRecommendations, &p.CurrentRecommendationSize,
		&idxLat, &idxLon,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withDistance {
		dest = append(dest, &distanceKM)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	if lat != nil && lon != nil {
		p.Location = &Location{Latitude: *lat, Longitude: *lon}
	}
	if idxLat != nil && idxLon != nil {
		p.IndexedLocation = &Location{Latitude: *idxLat, Longitude: *idxLon}
	}
	// Settings columns are written together; any one present means the
	// profile has stored settings.
	if distanceRadius != nil {
		s := Settings{DistanceRadius: *distanceRadius}
		if gender != nil {
			s.Gender = *gender
		}
		if genderPreference != nil {
			s.GenderPreference = *genderPreference
		}
		if showMe != nil {
			s.ShowMe = *showMe
		}
		p.Settings = &s
	}

	return &p, distanceKM, nil
}

func profileArgs(p *Profile) []any {
	var lat, lon, idxLat, idxLon *float64
	if p.Location != nil {
		lat, lon = &p.Location.Latitude, &p.Location.Longitude
	}
	if p.IndexedLocation != nil {
		idxLat, idxLon = &p.IndexedLocation.Latitude, &p.IndexedLocation.Longitude
	}

	var distanceRadius, gender, genderPreference *string
	var showMe *bool
	if p.Settings != nil {
		distanceRadius = &p.Settings.DistanceRadius
		gender = &p.Settings.Gender
		genderPreference = &p.Settings.GenderPreference
		showMe = &p.Settings.ShowMe
	}

	return []any{
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.ProfilePictureURL,
		lat, lon,
		distanceRadius, gender, genderPreference, showMe,
		p.HasComputedRecommendations, p.CurrentRecommendationSize,
		idxLat, idxLon,
		p.CreatedAt, p.UpdatedAt,
	}
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

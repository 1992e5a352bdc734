package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kkusima/commitpulse/internal/stats"
)

// ErrNotFound is returned when no snapshot exists for the requested key.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one persisted badge generation run.
type Snapshot struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Year               int        `json:"year"`
	ActiveDays         int        `json:"active_days"`
	TotalActivity      int        `json:"total_activity"`
	ElapsedDays        int        `json:"elapsed_days"`
	ConsistencyPercent float64    `json:"consistency_percent"`
	Tier               stats.Tier `json:"tier"`
	SVG                []byte     `json:"-"`
	GeneratedAt        time.Time  `json:"generated_at"`
}

// Summary reconstructs the stats value from a stored row.
func (s *Snapshot) Summary() *stats.Summary {
	return &stats.Summary{
		ActiveDays:         s.ActiveDays,
		TotalActivity:      s.TotalActivity,
		ElapsedDays:        s.ElapsedDays,
		ConsistencyPercent: s.ConsistencyPercent,
		Tier:               s.Tier,
	}
}

// Repository persists badge generation history in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS badge_snapshots (
			id                  BIGSERIAL PRIMARY KEY,
			username            TEXT NOT NULL,
			year                INT NOT NULL,
			active_days         INT NOT NULL,
			total_activity      INT NOT NULL,
			elapsed_days        INT NOT NULL,
			consistency_percent DOUBLE PRECISION NOT NULL,
			tier                TEXT NOT NULL,
			svg                 BYTEA NOT NULL,
			generated_at        TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS badge_snapshots_user_year_idx
			ON badge_snapshots (username, year, generated_at DESC);
	`)
	return err
}

// Save inserts one generation run.
func (r *Repository) Save(ctx context.Context, s *Snapshot) error {
	query := `
		INSERT INTO badge_snapshots
			(username, year, active_days, total_activity, elapsed_days, consistency_percent, tier, svg, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		s.Username, s.Year, s.ActiveDays, s.TotalActivity, s.ElapsedDays,
		s.ConsistencyPercent, s.Tier, s.SVG, s.GeneratedAt,
	).Scan(&s.ID)
}

// Latest returns the most recent snapshot for a user-year.
func (r *Repository) Latest(ctx context.Context, username string, year int) (*Snapshot, error) {
	query := `
		SELECT id, username, year, active_days, total_activity, elapsed_days, consistency_percent, tier, svg, generated_at
		FROM badge_snapshots
		WHERE username = $1 AND year = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var s Snapshot
	err := r.pool.QueryRow(ctx, query, username, year).Scan(
		&s.ID, &s.Username, &s.Year, &s.ActiveDays, &s.TotalActivity,
		&s.ElapsedDays, &s.ConsistencyPercent, &s.Tier, &s.SVG, &s.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// History returns the most recent n snapshots for a user-year, newest
// first, without the SVG payloads.
func (r *Repository) History(ctx context.Context, username string, year, n int) ([]*Snapshot, error) {
	query := `
		SELECT id, username, year, active_days, total_activity, elapsed_days, consistency_percent, tier, generated_at
		FROM badge_snapshots
		WHERE username = $1 AND year = $2
		ORDER BY generated_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, username, year, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(
			&s.ID, &s.Username, &s.Year, &s.ActiveDays, &s.TotalActivity,
			&s.ElapsedDays, &s.ConsistencyPercent, &s.Tier, &s.GeneratedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}

// Prune deletes snapshots older than the retention window, returning the
// number of rows removed.
func (r *Repository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM badge_snapshots WHERE generated_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

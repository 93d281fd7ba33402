package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/fitlog/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store over a PostgreSQL "workouts" table. Exercises
// are stored as an opaque serialized array; the remote never interprets
// them.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres remote with a connection pool.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// FetchAll returns all workout rows ordered by date descending; rows
// sharing a date keep arrival order (newest insert first).
func (p *Postgres) FetchAll(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, date, exercises, duration
		 FROM workouts
		 ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	for rows.Next() {
		var (
			s       models.WorkoutSession
			day     time.Time
			rawExer []byte
		)
		if err := rows.Scan(&s.ID, &day, &rawExer, &s.Duration); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		s.Date = day.Format(models.DateLayout)
		if err := json.Unmarshal(rawExer, &s.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises for %s: %w", s.ID, err)
		}
		if s.Exercises == nil {
			s.Exercises = []models.Exercise{}
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Insert writes one session row. Retried inserts for the same id update
// in place so a pending item can be re-sent safely.
func (p *Postgres) Insert(ctx context.Context, session models.WorkoutSession, userID string) error {
	rawExer, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	var uid *string
	if userID != "" {
		uid = &userID
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, date, exercises, duration)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET date = excluded.date, exercises = excluded.exercises, duration = excluded.duration`,
		session.ID, uid, session.Date, rawExer, session.Duration)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// Update rewrites date, exercises and duration for an existing row.
func (p *Postgres) Update(ctx context.Context, session models.WorkoutSession) error {
	rawExer, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`UPDATE workouts SET date = $2, exercises = $3, duration = $4 WHERE id = $1`,
		session.ID, session.Date, rawExer, session.Duration)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	return nil
}

// Delete removes the row with the given id.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// Compile-time check: *Postgres satisfies Store.
var _ Store = (*Postgres)(nil)

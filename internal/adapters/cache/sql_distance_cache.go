package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
	"strconv"
	"strings"
	"time"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// placeholder returns the n-th (1-based) bind parameter.
func (d dialect) placeholder(n int) string {
	if d == dialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// SQLDistanceCache stores origin->destination distances in the distance_cache
// table on SQLite or PostgreSQL. Rows older than MaxAge read as misses and are
// removed by Prune; a zero MaxAge keeps rows forever.
type SQLDistanceCache struct {
	DB     *sql.DB
	MaxAge time.Duration

	dialect dialect
	now     func() time.Time
}

// NewSqliteDistanceCache expects a *sql.DB opened with the modernc sqlite driver.
func NewSqliteDistanceCache(db *sql.DB, maxAge time.Duration) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db, MaxAge: maxAge, dialect: dialectSQLite, now: time.Now}
}

// NewPostgresDistanceCache expects a *sql.DB opened with the pgx stdlib driver.
func NewPostgresDistanceCache(db *sql.DB, maxAge time.Duration) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db, MaxAge: maxAge, dialect: dialectPostgres, now: time.Now}
}

func (s *SQLDistanceCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// cutoff is the oldest updated_at still considered fresh.
func (s *SQLDistanceCache) cutoff() int64 {
	if s.MaxAge <= 0 {
		return 0
	}
	return s.clock().Add(-s.MaxAge).Unix()
}

func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance."+s.dialect.String()+".GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("get distance cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	args := make([]any, 0, 2+len(uniq))
	args = append(args, origin, s.cutoff())

	ph := make([]string, len(uniq))
	for i, d := range uniq {
		ph[i] = s.dialect.placeholder(i + 3)
		args = append(args, d)
	}

	// Only placeholders are interpolated; every value stays bound.
	q := fmt.Sprintf(`
	SELECT destination, distance_meters, duration_seconds
	FROM distance_cache
	WHERE origin = %s
		AND updated_at >= %s
		AND destination IN (%s)`,
		s.dialect.placeholder(1), s.dialect.placeholder(2), strings.Join(ph, ", "))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var r ports.DistanceResult
		if err := rows.Scan(&dest, &r.DistanceMeters, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get distance cache: scan: %w", err)
		}
		out[dest] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts results for one origin in a single transaction and stamps
// them with the current time.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance."+s.dialect.String()+".PutMany")(&err)

	if s.DB == nil {
		return errors.New("put distance cache: db is nil")
	}
	if origin == "" {
		return errors.New("put distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put distance cache: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := s.dialect.placeholder
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds, updated_at)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds,
		updated_at = excluded.updated_at`,
		p(1), p(2), p(3), p(4), p(5)))
	if err != nil {
		return fmt.Errorf("put distance cache: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.clock().Unix()
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("put distance cache: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds, now); err != nil {
			return fmt.Errorf("put distance cache dest=%q: %w", dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put distance cache: commit: %w", err)
	}
	return nil
}

// Prune deletes rows older than MaxAge and reports how many were removed.
func (s *SQLDistanceCache) Prune(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("prune distance cache: db is nil")
	}
	if s.MaxAge <= 0 {
		return 0, nil
	}

	res, err := s.DB.ExecContext(ctx,
		"DELETE FROM distance_cache WHERE updated_at < "+s.dialect.placeholder(1), s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("prune distance cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune distance cache: rows affected: %w", err)
	}
	return n, nil
}

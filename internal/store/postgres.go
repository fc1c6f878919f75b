package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/barmania-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	slug       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS videos (
	id            TEXT PRIMARY KEY,
	source_id     TEXT NOT NULL,
	title         TEXT NOT NULL,
	youtube_id    TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL,
	duration      INTEGER NOT NULL DEFAULT 0,
	start_time    INTEGER NOT NULL DEFAULT 0,
	end_time      INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS category_video (
	category_id TEXT NOT NULL REFERENCES categories(id),
	video_id    TEXT NOT NULL REFERENCES videos(id),
	PRIMARY KEY (category_id, video_id)
);

CREATE INDEX IF NOT EXISTS idx_videos_youtube_id ON videos(youtube_id);
CREATE INDEX IF NOT EXISTS idx_videos_source_id ON videos(source_id);
CREATE INDEX IF NOT EXISTS idx_category_video_video_id ON category_video(video_id);
`

var (
	categoryColumns = []string{"id", "name", "slug"}
	videoColumns    = []string{"id", "source_id", "title", "youtube_id", "thumbnail_url", "duration", "start_time", "end_time"}
	linkColumns     = []string{"category_id", "video_id"}
)

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// ReplaceLibrary clears the library tables and bulk-loads the new rows with
// COPY inside a single transaction.
func (s *PostgresStore) ReplaceLibrary(ctx context.Context, categories []model.Category, videos []model.Video) (ImportStats, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ImportStats{}, eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE category_video, videos, categories`); err != nil {
		return ImportStats{}, eris.Wrap(err, "postgres: truncate library")
	}

	catRows := make([][]any, 0, len(categories))
	for _, c := range categories {
		catRows = append(catRows, []any{c.ID, c.Name, c.Slug})
	}
	vidRows := make([][]any, 0, len(videos))
	linkRows := make([][]any, 0, linkCount(videos))
	for _, v := range videos {
		vidRows = append(vidRows, []any{v.ID, v.SourceID, v.Title, v.YouTubeID, v.ThumbnailURL, v.Duration, v.StartTime, v.EndTime})
		if v.CategoryID != "" {
			linkRows = append(linkRows, []any{v.CategoryID, v.ID})
		}
	}

	if err := copyRows(ctx, tx, "categories", categoryColumns, catRows); err != nil {
		return ImportStats{}, err
	}
	if err := copyRows(ctx, tx, "videos", videoColumns, vidRows); err != nil {
		return ImportStats{}, err
	}
	if err := copyRows(ctx, tx, "category_video", linkColumns, linkRows); err != nil {
		return ImportStats{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportStats{}, eris.Wrap(err, "postgres: commit")
	}
	return ImportStats{Categories: len(catRows), Videos: len(vidRows), Links: len(linkRows)}, nil
}

// copyRows bulk-inserts rows with the COPY protocol. Empty input is a no-op.
func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return eris.Wrapf(err, "postgres: COPY INTO %s", table)
	}
	if int(n) != len(rows) {
		return eris.Errorf("postgres: COPY INTO %s wrote %d of %d rows", table, n, len(rows))
	}
	return nil
}

func (s *PostgresStore) CountVideos(ctx context.Context) (int, error) {
	return s.count(ctx, "videos")
}

func (s *PostgresStore) CountCategories(ctx context.Context) (int, error) {
	return s.count(ctx, "categories")
}

func (s *PostgresStore) count(ctx context.Context, table string) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM `+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "postgres: count %s", table)
	}
	return int(n), nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/barmania-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	slug       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
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
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceLibrary(ctx context.Context, categories []model.Category, videos []model.Video) (ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"category_video", "videos", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return ImportStats{}, eris.Wrapf(err, "sqlite: clear %s", table)
		}
	}

	catStmt, err := tx.PrepareContext(ctx, `INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)`)
	if err != nil {
		return ImportStats{}, eris.Wrap(err, "sqlite: prepare insert category")
	}
	defer catStmt.Close() //nolint:errcheck

	for _, c := range categories {
		if _, err := catStmt.ExecContext(ctx, c.ID, c.Name, c.Slug); err != nil {
			return ImportStats{}, eris.Wrapf(err, "sqlite: insert category %q", c.Name)
		}
	}

	vidStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO videos (id, source_id, title, youtube_id, thumbnail_url, duration, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportStats{}, eris.Wrap(err, "sqlite: prepare insert video")
	}
	defer vidStmt.Close() //nolint:errcheck

	linkStmt, err := tx.PrepareContext(ctx, `INSERT INTO category_video (category_id, video_id) VALUES (?, ?)`)
	if err != nil {
		return ImportStats{}, eris.Wrap(err, "sqlite: prepare insert link")
	}
	defer linkStmt.Close() //nolint:errcheck

	links := 0
	for _, v := range videos {
		if _, err := vidStmt.ExecContext(ctx,
			v.ID, v.SourceID, v.Title, v.YouTubeID, v.ThumbnailURL, v.Duration, v.StartTime, v.EndTime,
		); err != nil {
			return ImportStats{}, eris.Wrapf(err, "sqlite: insert video %s", v.YouTubeID)
		}
		if v.CategoryID == "" {
			continue
		}
		if _, err := linkStmt.ExecContext(ctx, v.CategoryID, v.ID); err != nil {
			return ImportStats{}, eris.Wrapf(err, "sqlite: link video %s", v.YouTubeID)
		}
		links++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, eris.Wrap(err, "sqlite: commit")
	}
	return ImportStats{Categories: len(categories), Videos: len(videos), Links: links}, nil
}

func (s *SQLiteStore) CountVideos(ctx context.Context) (int, error) {
	return s.count(ctx, "videos")
}

func (s *SQLiteStore) CountCategories(ctx context.Context) (int, error) {
	return s.count(ctx, "categories")
}

func (s *SQLiteStore) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "sqlite: count %s", table)
	}
	return n, nil
}

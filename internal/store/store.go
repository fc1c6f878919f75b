package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/barmania-cli/internal/model"
)

// ImportStats counts the rows written by ReplaceLibrary.
type ImportStats struct {
	Categories int `json:"categories"`
	Videos     int `json:"videos"`
	Links      int `json:"links"`
}

// Store defines the persistence interface for the clip library.
type Store interface {
	// ReplaceLibrary deletes the current library and writes categories and
	// videos in one transaction.
	ReplaceLibrary(ctx context.Context, categories []model.Category, videos []model.Video) (ImportStats, error)
	CountVideos(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store for driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "barmania.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", driver)
	}
}

func linkCount(videos []model.Video) int {
	n := 0
	for _, v := range videos {
		if v.CategoryID != "" {
			n++
		}
	}
	return n
}

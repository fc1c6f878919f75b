// Package library turns a fetched clip collection into categories and
// videos and loads them into a store.
package library

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/barmania-cli/internal/model"
	"github.com/sells-group/barmania-cli/internal/store"
)

const progressEvery = 500

// Library is the relational view of a clip collection.
type Library struct {
	Categories []model.Category
	Videos     []model.Video
	Skipped    int // clips without a video code
}

// Build converts clips into categories and videos. Categories are created
// for each distinct non-empty category name in first-seen order. Records
// without a video code, including ones that are not objects, are skipped.
// newID
// generates row ids; nil uses random UUIDs.
func Build(clips []model.Clip, newID func() string) Library {
	if newID == nil {
		newID = uuid.NewString
	}

	var lib Library
	catIDs := make(map[string]string)

	for _, clip := range clips {
		name := clip.Category()
		if name == "" {
			continue
		}
		if _, ok := catIDs[name]; ok {
			continue
		}
		id := newID()
		catIDs[name] = id
		lib.Categories = append(lib.Categories, model.Category{ID: id, Name: name, Slug: Slug(name)})
	}

	for _, clip := range clips {
		code := clip.Code()
		if code == "" {
			lib.Skipped++
			continue
		}

		title := clip.Title()
		if title == "" {
			title = "Unknown"
		}
		raw := clip.Duration()
		if raw == "" {
			raw = "0:00"
		}
		secs := model.ParseDuration(raw)

		lib.Videos = append(lib.Videos, model.Video{
			ID:           newID(),
			SourceID:     clip.ID(),
			Title:        title,
			YouTubeID:    code,
			ThumbnailURL: model.ThumbnailURL(clip.Thumb(), code),
			Duration:     secs,
			StartTime:    0,
			EndTime:      secs,
			CategoryID:   catIDs[clip.Category()],
		})

		if n := len(lib.Videos); n%progressEvery == 0 {
			zap.L().Info("prepared videos", zap.Int("count", n))
		}
	}

	return lib
}

// Import migrates st and replaces its library with the one built from clips.
func Import(ctx context.Context, st store.Store, clips []model.Clip) (store.ImportStats, error) {
	lib := Build(clips, nil)
	if lib.Skipped > 0 {
		zap.L().Warn("skipped clips without a video code", zap.Int("skipped", lib.Skipped))
	}

	if err := st.Migrate(ctx); err != nil {
		return store.ImportStats{}, eris.Wrap(err, "library: migrate")
	}

	stats, err := st.ReplaceLibrary(ctx, lib.Categories, lib.Videos)
	if err != nil {
		return store.ImportStats{}, eris.Wrap(err, "library: replace")
	}

	zap.L().Info("library imported",
		zap.Int("categories", stats.Categories),
		zap.Int("videos", stats.Videos),
		zap.Int("links", stats.Links),
	)
	return stats, nil
}

// Slug makes a URL-safe identifier: diacritics removed, lower-case ASCII
// letters and digits, other runs collapsed to a single dash.
func Slug(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

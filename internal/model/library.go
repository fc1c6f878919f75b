package model

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultThumb is the placeholder image the site uses for clips without a thumbnail.
const DefaultThumb = "images/banaan.gif"

// Category is a clip category in the imported library.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Video is one imported clip.
type Video struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	Title        string `json:"title"`
	YouTubeID    string `json:"youtube_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	StartTime    int    `json:"start_time"`
	EndTime      int    `json:"end_time"`
	CategoryID   string `json:"category_id,omitempty"`
}

// ThumbnailURL picks the thumbnail for a clip, falling back to the YouTube
// medium-quality still when the site has none.
func ThumbnailURL(thumb, code string) string {
	if thumb == "" || thumb == DefaultThumb {
		return "https://img.youtube.com/vi/" + code + "/mqdefault.jpg"
	}
	return thumb
}

// ParseDuration converts "S", "M:S" or "H:M:S" to seconds. Parts beyond
// hours are ignored; unparsable parts count as zero.
func ParseDuration(s string) int {
	parts := strings.Split(s, ":")
	mul := []int{1, 60, 3600}

	secs := 0
	for i := 0; i < len(parts) && i < len(mul); i++ {
		secs += leadingInt(parts[len(parts)-1-i]) * mul[i]
	}
	return secs
}

// leadingInt parses the optional sign and digits at the start of s.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

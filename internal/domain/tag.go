package domain

import (
	"strings"
	"time"
)

// Tag is a topical label shared across crumbs.
// Slug is the source of truth: lowercase, hyphenated, unique.
// Tags are created on first use and orphans persist.
type Tag struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	CrumbCount int       `json:"crumb_count"` // Denormalized usage count, filled by list queries
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// DisplayName renders the slug for humans: "slow-burn" → "Slow Burn".
func (t *Tag) DisplayName() string {
	words := strings.Split(t.Slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CrumbTag is the many-to-many relationship between crumbs and tags.
type CrumbTag struct {
	CrumbID   string    `json:"crumb_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

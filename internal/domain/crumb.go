package domain

import "time"

// Visibility is the publication state of a crumb.
type Visibility string

// Visibility values.
const (
	VisibilityDraft     Visibility = "draft"
	VisibilityPublished Visibility = "published"
)

// IsValid reports whether v is one of the two known states.
func (v Visibility) IsValid() bool {
	return v == VisibilityDraft || v == VisibilityPublished
}

// Crumb is a single timestamped markdown note, the atomic content unit
// of the stream. Crumbs are never hard-deleted.
type Crumb struct {
	ID         string     `json:"id"`
	BodyMD     string     `json:"body_md"`
	Visibility Visibility `json:"visibility"`
	UnitID     string     `json:"unit_id,omitempty"` // optional writing session
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Crumb) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

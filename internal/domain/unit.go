package domain

import "time"

// Unit is a named writing session grouping zero or more crumbs.
// Units are append-only; the name is a display label and is NOT
// unique — two sessions may share a name and are told apart by
// CreatedAt.
type Unit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

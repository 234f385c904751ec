package domain

import "time"

// SavedFilter is a named snapshot of list query parameters.
type SavedFilter struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Filters   map[string]any `json:"filters"`
	CreatedAt time.Time      `json:"createdAt"`
}

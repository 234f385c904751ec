package domain

import "time"

// Token represents an issued authentication token.
type Token struct {
	Value     string
	SubjectID string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

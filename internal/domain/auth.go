package domain

import "time"

// Token describes an issued access token.
type Token struct {
	Value     string
	SubjectID string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

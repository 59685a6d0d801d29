package audit

import "time"

// Record is an immutable snapshot appended after a successful ingestion. It
// is observational only: no authorization or business decision consults it.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Token        string    `json:"token"`
	UserID       string    `json:"user_id"`
	DeclaredType string    `json:"declared_type"`
	Verified     bool      `json:"verified"`
	StoragePath  string    `json:"storage_path"`
}

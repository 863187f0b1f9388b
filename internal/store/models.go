package store

import (
	"encoding/json"
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// AuditRecord is one persisted survey-to-analysis cycle. Records are
// append-only: created on successful validation, never mutated or deleted.
type AuditRecord struct {
	ID         string          `json:"id"` // Using UUID for external ID
	UserID     int64           `json:"user_id"`
	InputData  json.RawMessage `json:"input_data"`  // Survey input, stored verbatim
	AIResponse json.RawMessage `json:"ai_response"` // Validated AuditResult
	CreatedAt  time.Time       `json:"created_at"`
}

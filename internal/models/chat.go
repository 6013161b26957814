package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Role      ChatRole  `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered conversation stored on a session. Insertion order
// is meaningful and is never re-sorted on read.
type Transcript []ChatTurn

func (t Transcript) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal(Transcript{})
	}
	return json.Marshal(t)
}

func (t *Transcript) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("Transcript: Scan failed, expected []byte but got %T", value)
	}
	return json.Unmarshal(b, t)
}

// ChatSession groups the turns of one conversation for a user.
type ChatSession struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Conversation    Transcript `json:"conversation" db:"conversation"`
	SessionStart    time.Time  `json:"session_start" db:"session_start"`
	SessionEnd      *time.Time `json:"session_end,omitempty" db:"session_end"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

package content

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrWritesDisabled = errors.New("writes are disabled for this store")
	ErrInvalid        = errors.New("invalid input")
)

// Question is a single exam-style prompt belonging to one paper.
// JSON field names follow the persisted column names so the admin UI can
// consume list responses as-is.
type Question struct {
	ID        int64     `json:"id" bson:"id"`
	PaperType string    `json:"paper_type" bson:"paper_type"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at"`
}

// Flashcard is a front/back pair belonging to one level (sl or hl).
type Flashcard struct {
	ID        int64     `json:"id" bson:"id"`
	Type      string    `json:"type" bson:"type"`
	Front     string    `json:"front" bson:"front"`
	Back      string    `json:"back" bson:"back"`
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Image represents an uploaded image. The binary payload is stored inline;
// it is already a compressed format, so no further encoding is applied at
// rest. The ID is a ULID, which keeps the table in creation order.
type Image struct {
	ID          string    `json:"id" db:"id"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	Filename    string    `json:"filename" db:"filename"`
	Caption     string    `json:"caption" db:"caption"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	ContentType string    `json:"content_type" db:"content_type"`
	Data        []byte    `json:"-" db:"data"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

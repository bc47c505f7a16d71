// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Elementlead/PbimageS/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository defines user account data operations. Username and email
// uniqueness is case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ImageRepository defines image data operations. All reads and deletes are
// scoped to the owning user.
type ImageRepository interface {
	Create(ctx context.Context, img *models.Image) error
	// ListByOwner returns the user's images newest first, optionally
	// filtered by visibility, capped at limit.
	ListByOwner(ctx context.Context, userID uuid.UUID, private *bool, limit int) ([]*models.Image, error)
	// Delete removes the image when it belongs to the user; ErrNotFound
	// otherwise.
	Delete(ctx context.Context, userID uuid.UUID, imageID string) error
}

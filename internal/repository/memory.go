package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Elementlead/PbimageS/internal/models"
)

// MemoryUserRepository is an in-memory UserRepository. It backs tests and
// single-binary dev runs where no Postgres is configured.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, user.Username) ||
			strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// MemoryImageRepository is an in-memory ImageRepository.
type MemoryImageRepository struct {
	mu     sync.RWMutex
	images map[string]*models.Image
}

// NewMemoryImageRepository creates an empty in-memory image repository.
func NewMemoryImageRepository() *MemoryImageRepository {
	return &MemoryImageRepository{images: make(map[string]*models.Image)}
}

func (r *MemoryImageRepository) Create(_ context.Context, img *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.images[img.ID]; exists {
		return ErrDuplicate
	}
	img.CreatedAt = time.Now().UTC()

	stored := *img
	r.images[img.ID] = &stored
	return nil
}

func (r *MemoryImageRepository) ListByOwner(_ context.Context, userID uuid.UUID, private *bool, limit int) ([]*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var images []*models.Image
	for _, img := range r.images {
		if img.UserID != userID {
			continue
		}
		if private != nil && img.IsPrivate != *private {
			continue
		}
		copied := *img
		images = append(images, &copied)
	}

	// Newest first; ULIDs break ties in creation order.
	sort.Slice(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		}
		return images[i].ID > images[j].ID
	})

	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}
	return images, nil
}

func (r *MemoryImageRepository) Delete(_ context.Context, userID uuid.UUID, imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, exists := r.images[imageID]
	if !exists || img.UserID != userID {
		return ErrNotFound
	}
	delete(r.images, imageID)
	return nil
}

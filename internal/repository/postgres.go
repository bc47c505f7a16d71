package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elementlead/PbimageS/internal/models"
)

const uniqueViolation = "23505"

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)`

	var user models.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

type imageRepo struct {
	pool *pgxpool.Pool
}

// NewImageRepository creates a Postgres-backed image repository.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepo{pool: pool}
}

func (r *imageRepo) Create(ctx context.Context, img *models.Image) error {
	query := `
		INSERT INTO images (id, user_id, filename, caption, is_private, content_type, data, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		img.ID,
		img.UserID,
		img.Filename,
		img.Caption,
		img.IsPrivate,
		img.ContentType,
		img.Data,
		img.FileSize,
	).Scan(&img.CreatedAt)
}

func (r *imageRepo) ListByOwner(ctx context.Context, userID uuid.UUID, private *bool, limit int) ([]*models.Image, error) {
	query := `
		SELECT id, user_id, filename, caption, is_private, content_type, data, file_size, created_at
		FROM images
		WHERE user_id = $1 AND ($2::boolean IS NULL OR is_private = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, private, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(
			&img.ID,
			&img.UserID,
			&img.Filename,
			&img.Caption,
			&img.IsPrivate,
			&img.ContentType,
			&img.Data,
			&img.FileSize,
			&img.CreatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

func (r *imageRepo) Delete(ctx context.Context, userID uuid.UUID, imageID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM images WHERE id = $1 AND user_id = $2`, imageID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

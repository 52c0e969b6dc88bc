package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (backend_id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET backend_id = EXCLUDED.backend_id,
			full_name = EXCLUDED.full_name,
			updated_at = $4
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.BackendID, user.Email, user.FullName, time.Now()).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, backend_id, email, full_name, created_at, updated_at FROM users WHERE email = $1`
	row := r.db.QueryRowContext(ctx, query, email)

	var user models.User
	err := row.Scan(&user.ID, &user.BackendID, &user.Email, &user.FullName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &user, nil
}

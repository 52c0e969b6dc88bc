package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postpilothq/postpilot/internal/models"
)

// SubmissionHistoryRepository records one row per submission attempt,
// successful or not. The history backs the analytics views.
type SubmissionHistoryRepository interface {
	Create(ctx context.Context, record *models.SubmissionRecord) (int64, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]*models.SubmissionRecord, error)
}

type submissionHistoryRepository struct {
	db *sql.DB
}

func NewSubmissionHistoryRepository(db *sql.DB) SubmissionHistoryRepository {
	return &submissionHistoryRepository{db: db}
}

func (r *submissionHistoryRepository) Create(ctx context.Context, record *models.SubmissionRecord) (int64, error) {
	query := `
		INSERT INTO submission_history (email, kind, endpoint, media_count, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		record.Email, record.Kind, record.Endpoint, record.MediaCount, record.Status, record.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *submissionHistoryRepository) ListByEmail(ctx context.Context, email string, limit int) ([]*models.SubmissionRecord, error) {
	query := `
		SELECT id, email, kind, endpoint, media_count, status, error_message, created_at
		FROM submission_history
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, email, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.SubmissionRecord
	for rows.Next() {
		var record models.SubmissionRecord
		err := rows.Scan(&record.ID, &record.Email, &record.Kind, &record.Endpoint,
			&record.MediaCount, &record.Status, &record.ErrorMessage, &record.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &record)
	}
	return records, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	statusTTL      = 10 * time.Minute
	activeUsersKey = "active_users"
)

// ConnectionStatusRepository caches the last webhook-reported platform
// connection flags per user and tracks which users were recently active so
// the refresh job knows whose status to re-fetch.
type ConnectionStatusRepository interface {
	SaveStatus(ctx context.Context, email string, status *models.ConnectionStatus) error
	GetStatus(ctx context.Context, email string) (*models.ConnectionStatus, error)
	MarkActive(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]string, error)
}

type connectionStatusRepository struct {
	rdb *redis.Client
}

func NewConnectionStatusRepository(rdb *redis.Client) ConnectionStatusRepository {
	return &connectionStatusRepository{rdb: rdb}
}

func statusKey(email string) string {
	return fmt.Sprintf("connection_status:%s", email)
}

func (r *connectionStatusRepository) SaveStatus(ctx context.Context, email string, status *models.ConnectionStatus) error {
	b, err := json.Marshal(status)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := r.rdb.Set(ctx, statusKey(email), b, statusTTL).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *connectionStatusRepository) GetStatus(ctx context.Context, email string) (*models.ConnectionStatus, error) {
	b, err := r.rdb.Get(ctx, statusKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	var status models.ConnectionStatus
	if err := json.Unmarshal(b, &status); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &status, nil
}

func (r *connectionStatusRepository) MarkActive(ctx context.Context, email string) error {
	if err := r.rdb.SAdd(ctx, activeUsersKey, email).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *connectionStatusRepository) ListActive(ctx context.Context) ([]string, error) {
	emails, err := r.rdb.SMembers(ctx, activeUsersKey).Result()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return emails, nil
}

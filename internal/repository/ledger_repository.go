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

// PendingPostRepository is the single-slot recovery ledger. One record per
// user, last write wins; Save overwrites whatever is there, including an
// unresolved "posting" entry.
type PendingPostRepository interface {
	Save(ctx context.Context, email, state string, draft *models.PostDraft) error
	Load(ctx context.Context, email string) (*models.PendingPost, error)
	Clear(ctx context.Context, email string) error
}

type pendingPostRepository struct {
	rdb *redis.Client
}

func NewPendingPostRepository(rdb *redis.Client) PendingPostRepository {
	return &pendingPostRepository{rdb: rdb}
}

func pendingKey(email string) string {
	return fmt.Sprintf("pending_post:%s", email)
}

func (r *pendingPostRepository) Save(ctx context.Context, email, state string, draft *models.PostDraft) error {
	record := models.PendingPost{
		State:     state,
		Draft:     *draft,
		Timestamp: time.Now(),
	}

	b, err := json.Marshal(record)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := r.rdb.Set(ctx, pendingKey(email), b, 0).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pendingPostRepository) Load(ctx context.Context, email string) (*models.PendingPost, error) {
	b, err := r.rdb.Get(ctx, pendingKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	var record models.PendingPost
	if err := json.Unmarshal(b, &record); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &record, nil
}

func (r *pendingPostRepository) Clear(ctx context.Context, email string) error {
	if err := r.rdb.Del(ctx, pendingKey(email)).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

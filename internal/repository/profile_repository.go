package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// ProfileRepository keeps the per-user key-value state (name, follower
// totals, connected usernames, analytics totals). The backend account id is
// encrypted at rest.
type ProfileRepository interface {
	Save(ctx context.Context, p *models.Profile) error
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type profileRepository struct {
	rdb       *redis.Client
	secretKey string
}

func NewProfileRepository(rdb *redis.Client, secretKey string) ProfileRepository {
	return &profileRepository{rdb: rdb, secretKey: secretKey}
}

func profileKey(email string) string {
	return fmt.Sprintf("profile:%s", email)
}

func (r *profileRepository) Save(ctx context.Context, p *models.Profile) error {
	stored := *p
	if stored.BackendID != "" {
		encrypted, err := utils.Encrypt([]byte(stored.BackendID), []byte(r.secretKey))
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		stored.BackendID = encrypted
	}

	b, err := json.Marshal(&stored)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := r.rdb.Set(ctx, profileKey(p.Email), b, 0).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	b, err := r.rdb.Get(ctx, profileKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	var p models.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if p.BackendID != "" {
		decrypted, err := utils.Decrypt(p.BackendID, []byte(r.secretKey))
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		p.BackendID = decrypted
	}
	return &p, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
)

type UserService interface {
	Info(ctx context.Context, email string) (*models.Profile, error)
}

type userService struct {
	profiles repository.ProfileRepository
}

func NewUserService(profiles repository.ProfileRepository) UserService {
	return &userService{profiles: profiles}
}

func (s *userService) Info(ctx context.Context, email string) (*models.Profile, error) {
	if email == "" {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile not found")
	}
	return profile, nil
}

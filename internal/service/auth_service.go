package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/transfer"
	"github.com/postpilothq/postpilot/pkg/utils"
)

const sessionDuration = 72 * time.Hour

// AuthService signs the user in against the auth webhook, persists a local
// user row plus the profile keys, and issues a session token.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.Profile, string, error)
}

type authService struct {
	cfg      config.Config
	ur       repository.UserRepository
	profiles repository.ProfileRepository
	client   *http.Client
}

func NewAuthService(cfg config.Config, ur repository.UserRepository, profiles repository.ProfileRepository, client *http.Client) AuthService {
	if client == nil {
		client = http.DefaultClient
	}
	return &authService{cfg: cfg, ur: ur, profiles: profiles, client: client}
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Profile, string, error) {
	if email == "" || password == "" {
		return nil, "", &ValidationError{Reason: "email and password are required"}
	}

	resp, err := s.postCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "Invalid email or password"
		}
		return nil, "", &DomainError{StatusCode: http.StatusUnauthorized, Message: message}
	}

	user := models.User{
		BackendID: resp.User.ID,
		Email:     email,
		FullName:  resp.User.FullName,
	}
	if _, err := s.ur.Upsert(ctx, &user); err != nil {
		slog.Info(err.Error())
	}

	profile := models.Profile{
		Email:               email,
		FullName:            resp.User.FullName,
		BackendID:           resp.User.ID,
		TotalFollowers:      resp.User.TotalFollowers,
		ConnectedUsernames:  resp.User.ConnectedUsernames,
		InstagramProfileURL: resp.User.InstagramProfileURL,
		AnalyticsTotals:     resp.User.AnalyticsTotals,
		PlatformFollowers:   resp.User.PlatformFollowers,
	}
	if err := s.profiles.Save(ctx, &profile); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(s.cfg.SecretKey, email, sessionDuration)
	if err != nil {
		return nil, "", err
	}

	return &profile, token, nil
}

func (s *authService) postCredentials(ctx context.Context, email, password string) (*transfer.SignInResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("email", email)
	w.WriteField("password", password)
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Webhooks.SignInURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, domainErrorFromBody(httpResp.StatusCode, body)
	}

	var resp transfer.SignInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DomainError{StatusCode: httpResp.StatusCode, Message: "unexpected sign-in response"}
	}
	return &resp, nil
}

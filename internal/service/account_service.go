package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/notify"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/transfer"
)

const (
	instagramPollTimeout  = 60 * time.Second
	instagramPollInterval = 3 * time.Second
)

// ErrPollTimeout means the Instagram link was still not reported connected
// when the polling deadline passed.
var ErrPollTimeout = errors.New("timed out waiting for Instagram connection")

// AccountService fetches per-platform connection flags from the status
// webhook. Nothing is enforced locally; the UI renders the last fetch.
type AccountService interface {
	Status(ctx context.Context, email string, force bool) (*models.ConnectionStatus, error)
	PollInstagram(ctx context.Context, email string) (*models.ConnectionStatus, error)
}

type accountService struct {
	cfg          config.Config
	sr           repository.ConnectionStatusRepository
	center       *notify.Center
	client       *http.Client
	pollTimeout  time.Duration
	pollInterval time.Duration
}

func NewAccountService(cfg config.Config, sr repository.ConnectionStatusRepository, center *notify.Center, client *http.Client) AccountService {
	if client == nil {
		client = http.DefaultClient
	}
	return &accountService{
		cfg:          cfg,
		sr:           sr,
		center:       center,
		client:       client,
		pollTimeout:  instagramPollTimeout,
		pollInterval: instagramPollInterval,
	}
}

func (s *accountService) Status(ctx context.Context, email string, force bool) (*models.ConnectionStatus, error) {
	if !force {
		cached, err := s.sr.GetStatus(ctx, email)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	status, err := s.fetchStatus(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.sr.SaveStatus(ctx, email, status); err != nil {
		slog.Info(err.Error())
	}
	if err := s.sr.MarkActive(ctx, email); err != nil {
		slog.Info(err.Error())
	}

	return status, nil
}

// PollInstagram re-checks the status webhook every few seconds until
// Instagram reports connected or the deadline passes. This is the only
// client-side deadline in the system.
func (s *accountService) PollInstagram(ctx context.Context, email string) (*models.ConnectionStatus, error) {
	deadline := time.Now().Add(s.pollTimeout)

	for {
		status, err := s.fetchStatus(ctx, email)
		if err != nil {
			slog.Info(err.Error())
		} else if status.Instagram {
			if err := s.sr.SaveStatus(ctx, email, status); err != nil {
				slog.Info(err.Error())
			}
			s.center.Show(email, notify.TypeSuccess, "Instagram connected! 🎉", false)
			return status, nil
		}

		if time.Now().Add(s.pollInterval).After(deadline) {
			s.center.Show(email, notify.TypeFailed, "Couldn't confirm your Instagram connection.", false)
			return nil, ErrPollTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *accountService) fetchStatus(ctx context.Context, email string) (*models.ConnectionStatus, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Webhooks.StatusURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainErrorFromBody(resp.StatusCode, body)
	}

	flags, err := decodeStatusBody(body)
	if err != nil {
		return nil, err
	}

	return &models.ConnectionStatus{
		Instagram: flags.IsInstagramConnect,
		YouTube:   flags.IsYoutubeConnect,
		TikTok:    flags.IsTiktokConnect,
		CheckedAt: time.Now(),
	}, nil
}

// decodeStatusBody tolerates both the bare object and the array-wrapped
// variants the backend is known to return.
func decodeStatusBody(body []byte) (*transfer.ConnectionStatusResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var wrapped []transfer.ConnectionStatusResponse
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding status response: %w", err)
		}
		if len(wrapped) == 0 {
			return nil, errors.New("empty status response")
		}
		return &wrapped[0], nil
	}

	var flags transfer.ConnectionStatusResponse
	if err := json.Unmarshal(trimmed, &flags); err != nil {
		return nil, fmt.Errorf("decoding status response: %w", err)
	}
	return &flags, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/transfer"
)

// CaptionService asks the language-model webhook for a fresh caption.
type CaptionService interface {
	Regenerate(ctx context.Context, prompt string, isReel bool) (string, error)
}

type captionService struct {
	cfg    config.Config
	client *http.Client
}

func NewCaptionService(cfg config.Config, client *http.Client) CaptionService {
	if client == nil {
		client = http.DefaultClient
	}
	return &captionService{cfg: cfg, client: client}
}

func (s *captionService) Regenerate(ctx context.Context, prompt string, isReel bool) (string, error) {
	if prompt == "" {
		return "", &ValidationError{Reason: "caption prompt is empty"}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"captionpromt": prompt,
		"isReel":       isReel,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Webhooks.CaptionURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domainErrorFromBody(resp.StatusCode, body)
	}

	var results []transfer.CaptionResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return "", errors.New("unexpected caption response shape")
	}
	if len(results) == 0 || len(results[0].Content) == 0 || results[0].Content[0].Text == "" {
		return "", errors.New("caption service returned no content")
	}

	return results[0].Content[0].Text, nil
}

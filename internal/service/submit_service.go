package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/media"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/transfer"
)

// SubmitService assembles one multipart request per draft and posts it to
// the automation backend endpoint selected by content kind.
type SubmitService interface {
	Submit(ctx context.Context, draft *models.PostDraft, assets []*media.Asset) (*transfer.SubmissionResult, error)
	EndpointFor(kind models.ContentKind, carousel, hasVideo bool) string
}

type submitService struct {
	webhooks config.Webhooks
	client   *http.Client
}

func NewSubmitService(webhooks config.Webhooks, client *http.Client) SubmitService {
	if client == nil {
		client = http.DefaultClient
	}
	return &submitService{webhooks: webhooks, client: client}
}

// EndpointFor picks the target URL. Story wins over everything, carousel
// over video detection, video over the generic post endpoint.
func (s *submitService) EndpointFor(kind models.ContentKind, carousel, hasVideo bool) string {
	switch {
	case kind == models.ContentKindStory:
		return s.webhooks.StoryURL
	case carousel:
		return s.webhooks.CarouselURL
	case hasVideo:
		return s.webhooks.ReelURL
	default:
		return s.webhooks.PostURL
	}
}

func (s *submitService) Submit(ctx context.Context, draft *models.PostDraft, assets []*media.Asset) (*transfer.SubmissionResult, error) {
	endpoint := s.EndpointFor(draft.Kind, draft.Carousel, draft.HasVideo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, asset := range assets {
		if err := writeMediaPart(w, asset); err != nil {
			return nil, err
		}
	}

	// The carousel and story endpoints use their own narrower field sets.
	// That asymmetry is the external contract, not a choice made here.
	switch {
	case draft.Kind == models.ContentKindStory:
		w.WriteField("titlePromt", draft.Caption)
		w.WriteField("bannerId", draft.BannerID)
	case draft.Carousel:
		w.WriteField("captionPromt", draft.Caption)
		for _, tag := range draft.Tags {
			w.WriteField("userTags", tag)
		}
		w.WriteField("Platforms", "instagram")
		writeScheduleFields(w, draft.ScheduledAt)
	default:
		w.WriteField("caption", draft.Caption)
		for _, tag := range draft.Tags {
			w.WriteField("tags", tag)
		}
		for _, platform := range draft.Platforms {
			w.WriteField("Platforms", platform)
		}
		w.WriteField("isReel", strconv.FormatBool(draft.HasVideo()))
		w.WriteField("isCarousel", strconv.FormatBool(draft.Carousel))
		writeScheduleFields(w, draft.ScheduledAt)
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainErrorFromBody(resp.StatusCode, respBody)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		parsed = nil
	}

	return &transfer.SubmissionResult{
		Body:    parsed,
		Message: successMessage(draft),
	}, nil
}

func writeMediaPart(w *multipart.Writer, asset *media.Asset) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="media"; filename="%s"`, asset.FileName))
	header.Set("Content-Type", asset.MIMEType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(asset.Bytes)
	return err
}

func writeScheduleFields(w *multipart.Writer, scheduledAt *time.Time) {
	if scheduledAt == nil {
		w.WriteField("publishnow", "true")
		return
	}
	w.WriteField("publishnow", "false")
	w.WriteField("scheduledFor", FormatScheduledFor(*scheduledAt))
}

// FormatScheduledFor renders the schedule timestamp the way the backend
// expects it: RFC 3339 UTC with the milliseconds stripped.
func FormatScheduledFor(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

func successMessage(draft *models.PostDraft) string {
	label := "Post"
	switch {
	case draft.Kind == models.ContentKindStory:
		label = "Story"
	case draft.HasVideo() && !draft.Carousel:
		label = "Reel"
	}

	if draft.ScheduledAt == nil {
		return fmt.Sprintf("%s is Live Now! 🎉", label)
	}
	return fmt.Sprintf("%s scheduled for %s 🎉", label,
		draft.ScheduledAt.Format("Jan 2, 2006 at 3:04 PM"))
}

func domainErrorFromBody(statusCode int, body []byte) *DomainError {
	var webhookErr transfer.WebhookError
	if err := json.Unmarshal(body, &webhookErr); err == nil {
		if webhookErr.Message != "" {
			return &DomainError{StatusCode: statusCode, Message: webhookErr.Message}
		}
		if webhookErr.Error != "" {
			return &DomainError{StatusCode: statusCode, Message: webhookErr.Error}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return &DomainError{StatusCode: statusCode, Message: text}
	}
	return &DomainError{StatusCode: statusCode, Message: "Something went wrong while posting"}
}

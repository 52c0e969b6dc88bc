package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/postpilothq/postpilot/internal/media"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/notify"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/transfer"
)

// ErrSubmissionInFlight means a submission for the same user is already
// running. The duplicate attempt is dropped, not queued.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

type PostService interface {
	Create(ctx context.Context, email string, pc *transfer.PostCreation, files []*multipart.FileHeader) (*transfer.SubmissionResult, error)
	Retry(ctx context.Context, email string) (*transfer.SubmissionResult, error)
	Pending(ctx context.Context, email string) (*models.PendingPost, error)
	History(ctx context.Context, email string, limit int) ([]*models.SubmissionRecord, error)
}

type postService struct {
	ledger       repository.PendingPostRepository
	history      repository.SubmissionHistoryRepository
	submit       SubmitService
	materializer *media.Materializer
	storage      StorageService
	center       *notify.Center

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewPostService(
	ledger repository.PendingPostRepository,
	history repository.SubmissionHistoryRepository,
	submit SubmitService,
	materializer *media.Materializer,
	storage StorageService,
	center *notify.Center) PostService {
	return &postService{
		ledger:       ledger,
		history:      history,
		submit:       submit,
		materializer: materializer,
		storage:      storage,
		center:       center,
		inFlight:     make(map[string]bool),
	}
}

func (s *postService) Create(ctx context.Context, email string, pc *transfer.PostCreation, files []*multipart.FileHeader) (*transfer.SubmissionResult, error) {
	if !s.begin(email) {
		return nil, ErrSubmissionInFlight
	}
	defer s.end(email)

	draft, err := s.buildDraft(pc, files)
	if err != nil {
		s.center.Show(email, notify.TypeFailed, err.Error(), false)
		return nil, err
	}

	return s.submitDraft(ctx, email, draft)
}

// Retry replays the draft saved in the pending slot. The slot is cleared
// before resubmission starts; a fresh failure writes a fresh record.
func (s *postService) Retry(ctx context.Context, email string) (*transfer.SubmissionResult, error) {
	if !s.begin(email) {
		return nil, ErrSubmissionInFlight
	}
	defer s.end(email)

	record, err := s.ledger.Load(ctx, email)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &ValidationError{Reason: "nothing to retry"}
	}

	if err := s.ledger.Clear(ctx, email); err != nil {
		return nil, err
	}

	draft := record.Draft
	return s.submitDraft(ctx, email, &draft)
}

func (s *postService) Pending(ctx context.Context, email string) (*models.PendingPost, error) {
	return s.ledger.Load(ctx, email)
}

func (s *postService) History(ctx context.Context, email string, limit int) ([]*models.SubmissionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.history.ListByEmail(ctx, email, limit)
}

func (s *postService) buildDraft(pc *transfer.PostCreation, files []*multipart.FileHeader) (*models.PostDraft, error) {
	kind := models.ContentKind(pc.Kind)
	if kind == "" {
		kind = models.ContentKindPost
	}
	switch kind {
	case models.ContentKindPost, models.ContentKindReel, models.ContentKindStory:
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown content kind %q", pc.Kind)}
	}

	if len(pc.MediaURIs) == 0 && len(files) == 0 {
		return nil, &ValidationError{Reason: "no media attached"}
	}

	if kind != models.ContentKindStory && len(pc.Platforms) == 0 {
		return nil, &ValidationError{Reason: "no target platforms selected"}
	}

	var scheduledAt *time.Time
	if pc.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, pc.ScheduledTime)
		if err != nil {
			return nil, &ValidationError{Reason: "invalid schedule time"}
		}
		scheduledAt = &t
	}

	tags := pc.Tags
	if len(tags) > models.MaxTags {
		tags = tags[:models.MaxTags]
	}

	draft := &models.PostDraft{
		Kind:        kind,
		Carousel:    pc.Carousel,
		Caption:     pc.Caption,
		Tags:        tags,
		ScheduledAt: scheduledAt,
		Platforms:   pc.Platforms,
		BannerID:    pc.BannerID,
	}

	for _, uri := range pc.MediaURIs {
		draft.Media = append(draft.Media, models.MediaReference{URI: uri, MIMEType: pc.MediaHint})
	}

	for _, file := range files {
		ref, err := s.spoolUpload(file)
		if err != nil {
			return nil, err
		}
		draft.Media = append(draft.Media, *ref)
	}

	return draft, nil
}

func (s *postService) spoolUpload(file *multipart.FileHeader) (*models.MediaReference, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	src, err := s.materializer.Spool(file.Filename, f)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}

	return &models.MediaReference{
		URI:      src.URI,
		FileName: file.Filename,
		MIMEType: file.Header.Get("Content-Type"),
		Temp:     true,
	}, nil
}

// submitDraft runs the common pipeline: materialize sequentially, save the
// posting slot, submit, then settle the ledger and the banner.
func (s *postService) submitDraft(ctx context.Context, email string, draft *models.PostDraft) (*transfer.SubmissionResult, error) {
	assets, err := s.materializeAll(ctx, draft)
	defer s.cleanupAssets(assets)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.center.Show(email, notify.TypeFailed, err.Error(), false)
			return nil, err
		}
		s.settleFailure(ctx, email, draft, assets, err)
		return nil, err
	}

	s.center.Show(email, notify.TypePosting, postingMessage(draft), false)
	if err := s.ledger.Save(ctx, email, models.PendingStatePosting, draft); err != nil {
		slog.Info(err.Error())
	}

	result, err := s.submit.Submit(ctx, draft, assets)
	if err != nil {
		s.settleFailure(ctx, email, draft, assets, err)
		return nil, err
	}

	if err := s.ledger.Clear(ctx, email); err != nil {
		slog.Info(err.Error())
	}
	s.center.Show(email, notify.TypeSuccess, result.Message, false)
	s.recordHistory(ctx, email, draft, "")

	return result, nil
}

var allowedMediaTypes = map[string]struct{}{
	"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
}

// materializeAll resolves media one item at a time. Peak memory stays
// bounded by the largest item; latency scales with item count.
func (s *postService) materializeAll(ctx context.Context, draft *models.PostDraft) ([]*media.Asset, error) {
	var assets []*media.Asset
	for i := range draft.Media {
		ref := &draft.Media[i]
		src := media.Resolve(ref.URI)
		src.Temp = ref.Temp

		asset, err := s.materializer.Materialize(ctx, src, ref.MIMEType)
		if err != nil {
			return assets, err
		}

		kind, err := filetype.Match(asset.Bytes)
		if err != nil || kind == types.Unknown {
			assets = append(assets, asset)
			return assets, &ValidationError{Reason: "unsupported file type"}
		}
		if _, ok := allowedMediaTypes[kind.Extension]; !ok {
			assets = append(assets, asset)
			return assets, &ValidationError{Reason: fmt.Sprintf("file type %s is not allowed", kind.Extension)}
		}

		ref.MIMEType = asset.MIMEType
		if ref.FileName == "" {
			ref.FileName = asset.FileName
		}
		ref.IsVideo = strings.HasPrefix(asset.MIMEType, "video/")

		assets = append(assets, asset)
	}
	return assets, nil
}

// settleFailure archives scratch media so the saved draft stays replayable,
// writes the failed slot, raises the retry banner and logs history.
func (s *postService) settleFailure(ctx context.Context, email string, draft *models.PostDraft, assets []*media.Asset, cause error) {
	for i := range draft.Media {
		ref := &draft.Media[i]
		if !ref.Temp || i >= len(assets) {
			continue
		}
		url, err := s.storage.Archive(ctx, assets[i])
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		ref.URI = url
		ref.Temp = false
	}

	if err := s.ledger.Save(ctx, email, models.PendingStateFailed, draft); err != nil {
		slog.Info(err.Error())
	}
	s.center.Show(email, notify.TypeFailed, failureMessage(cause), true)
	s.recordHistory(ctx, email, draft, cause.Error())
}

func (s *postService) recordHistory(ctx context.Context, email string, draft *models.PostDraft, errorMessage string) {
	status := models.SubmissionStatusPublished
	if errorMessage != "" {
		status = models.SubmissionStatusFailed
	} else if draft.ScheduledAt != nil {
		status = models.SubmissionStatusScheduled
	}

	record := models.SubmissionRecord{
		Email:        email,
		Kind:         string(draft.Kind),
		Endpoint:     s.submit.EndpointFor(draft.Kind, draft.Carousel, draft.HasVideo()),
		MediaCount:   len(draft.Media),
		Status:       status,
		ErrorMessage: errorMessage,
	}
	if _, err := s.history.Create(ctx, &record); err != nil {
		slog.Info(err.Error())
	}
}

func (s *postService) cleanupAssets(assets []*media.Asset) {
	for _, asset := range assets {
		s.materializer.Cleanup(asset)
	}
}

func (s *postService) begin(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[email] {
		return false
	}
	s.inFlight[email] = true
	return true
}

func (s *postService) end(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, email)
}

func postingMessage(draft *models.PostDraft) string {
	if draft.ScheduledAt != nil {
		return "Scheduling your post..."
	}
	return "Posting..."
}

func failureMessage(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network issue while posting. Tap to retry."
	}

	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Message
	}

	var fetchErr *media.FetchError
	if errors.As(err, &fetchErr) {
		return "Couldn't load one of your media files. Tap to retry."
	}

	var missingErr *media.FileMissingError
	if errors.As(err, &missingErr) {
		return "One of your media files is no longer available. Tap to retry."
	}

	return err.Error()
}

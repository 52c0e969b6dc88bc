package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/service"
)

// StatusRefreshJob re-fetches connection status for recently active users so
// the cached flags stay close to what the backend would report.
type StatusRefreshJob struct {
	sr repository.ConnectionStatusRepository
	as service.AccountService
}

func NewStatusRefreshJob(sr repository.ConnectionStatusRepository, as service.AccountService) *StatusRefreshJob {
	return &StatusRefreshJob{sr: sr, as: as}
}

func (j *StatusRefreshJob) RefreshStatuses() {
	ctx := context.Background()

	emails, err := j.sr.ListActive(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, email := range emails {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(email string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if _, err := j.as.Status(ctx, email, true); err != nil {
				slog.Info("Unable to refresh connection status", "email", email)
			}
		}(email)
	}

	wg.Wait()
}

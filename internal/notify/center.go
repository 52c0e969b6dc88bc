package notify

import (
	"sync"
	"time"
)

type Type string

const (
	TypePosting Type = "posting"
	TypeSuccess Type = "success"
	TypeFailed  Type = "failed"
)

// DefaultDismissAfter is how long a success banner stays up before it clears
// itself.
const DefaultDismissAfter = 5 * time.Second

// Banner is the single visible notification for one user. Retryable marks a
// failure that can be replayed from the pending ledger.
type Banner struct {
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	ShownAt   time.Time `json:"shown_at"`
}

// Center holds at most one banner per user. Show replaces outright; there is
// no queue and no stacking. It is injected into whatever needs to raise or
// read notifications rather than living as an ambient singleton.
type Center struct {
	mu           sync.Mutex
	banners      map[string]*Banner
	timers       map[string]*time.Timer
	dismissAfter time.Duration
}

func NewCenter(dismissAfter time.Duration) *Center {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Center{
		banners:      make(map[string]*Banner),
		timers:       make(map[string]*time.Timer),
		dismissAfter: dismissAfter,
	}
}

func (c *Center) Show(userKey string, t Type, message string, retryable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[userKey]; ok {
		timer.Stop()
		delete(c.timers, userKey)
	}

	c.banners[userKey] = &Banner{
		Type:      t,
		Message:   message,
		Retryable: retryable,
		ShownAt:   time.Now(),
	}

	if t == TypeSuccess {
		c.timers[userKey] = time.AfterFunc(c.dismissAfter, func() {
			c.Hide(userKey)
		})
	}
}

func (c *Center) Hide(userKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[userKey]; ok {
		timer.Stop()
		delete(c.timers, userKey)
	}
	delete(c.banners, userKey)
}

// Current returns a copy of the visible banner, or nil when none is up.
func (c *Center) Current(userKey string) *Banner {
	c.mu.Lock()
	defer c.mu.Unlock()

	banner, ok := c.banners[userKey]
	if !ok {
		return nil
	}
	copied := *banner
	return &copied
}

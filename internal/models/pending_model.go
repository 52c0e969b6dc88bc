package models

import "time"

// States of the single pending-post slot. A slot left in "posting" means the
// process died mid-request and the true outcome is unknown; it is still
// offered for retry.
const (
	PendingStatePosting = "posting"
	PendingStateFailed  = "failed"
)

// PendingPost is the single-slot recovery record. Last write wins; there is
// no queue of failed drafts.
type PendingPost struct {
	State     string    `json:"state"`
	Draft     PostDraft `json:"post_data"`
	Timestamp time.Time `json:"timestamp"`
}

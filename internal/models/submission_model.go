package models

import "time"

const (
	SubmissionStatusPublished = "published"
	SubmissionStatusScheduled = "scheduled"
	SubmissionStatusFailed    = "failed"
)

// SubmissionRecord is one row of submission history, written per attempt
// whether it succeeded or not.
type SubmissionRecord struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Kind         string    `db:"kind" json:"kind"`
	Endpoint     string    `db:"endpoint" json:"endpoint"`
	MediaCount   int       `db:"media_count" json:"media_count"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

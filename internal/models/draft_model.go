package models

import "time"

type ContentKind string

const (
	ContentKindPost  ContentKind = "post"
	ContentKindReel  ContentKind = "reel"
	ContentKindStory ContentKind = "story"
)

const MaxTags = 3

// MediaReference points at one picked media item. The URI may be a data URI,
// a remote URL or a local path; it is consumed (read once) during
// materialization.
type MediaReference struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mime_type"`
	FileName string `json:"file_name"`
	IsVideo  bool   `json:"is_video"`
	Temp     bool   `json:"temp,omitempty"`
}

// PostDraft is the full set of user-entered fields for one submission. It is
// created fresh per request and only ever persisted as a pending-slot
// snapshot.
type PostDraft struct {
	Kind        ContentKind      `json:"kind"`
	Carousel    bool             `json:"carousel"`
	Caption     string           `json:"caption"`
	Media       []MediaReference `json:"media"`
	Tags        []string         `json:"tags"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty"`
	Platforms   []string         `json:"platforms"`
	BannerID    string           `json:"banner_id,omitempty"`
}

func (d *PostDraft) HasVideo() bool {
	for _, m := range d.Media {
		if m.IsVideo {
			return true
		}
	}
	return false
}

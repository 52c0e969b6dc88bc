package models

import "time"

// ConnectionStatus mirrors the last fetch from the connection-status
// webhook. Nothing is enforced locally; callers render whatever was last
// reported.
type ConnectionStatus struct {
	Instagram bool      `json:"instagram"`
	YouTube   bool      `json:"youtube"`
	TikTok    bool      `json:"tiktok"`
	CheckedAt time.Time `json:"checked_at"`
}

func (s ConnectionStatus) Connected(platform string) bool {
	switch platform {
	case "instagram":
		return s.Instagram
	case "youtube":
		return s.YouTube
	case "tiktok":
		return s.TikTok
	}
	return false
}

// Profile holds the per-user key-value state the client keeps between
// sessions.
type Profile struct {
	Email               string            `json:"email"`
	FullName            string            `json:"full_name"`
	BackendID           string            `json:"backend_id"`
	TotalFollowers      int64             `json:"total_followers"`
	ConnectedUsernames  map[string]string `json:"connected_usernames"`
	InstagramProfileURL string            `json:"instagram_profile_url"`
	AnalyticsTotals     map[string]int64  `json:"platform_analytics_totals"`
	PlatformFollowers   map[string]int64  `json:"platform_followers"`
}

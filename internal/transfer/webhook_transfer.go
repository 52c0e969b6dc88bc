package transfer

// ConnectionStatusResponse is the connection-status webhook payload. The
// backend sometimes wraps it in a single-element array; the service
// unwraps before decoding into this shape.
type ConnectionStatusResponse struct {
	IsInstagramConnect bool `json:"isInstagramConnect"`
	IsYoutubeConnect   bool `json:"isYoutubeConnect"`
	IsTiktokConnect    bool `json:"isTiktokConnect"`
}

// CaptionResponse is one element of the caption webhook's array response.
type CaptionResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type SignInUser struct {
	ID                  string            `json:"_id"`
	FullName            string            `json:"fullName"`
	Email               string            `json:"email"`
	TotalFollowers      int64             `json:"totalFollowers"`
	ConnectedUsernames  map[string]string `json:"connectedUsernames"`
	InstagramProfileURL string            `json:"instagramProfileUrl"`
	AnalyticsTotals     map[string]int64  `json:"platformAnalyticsTotals"`
	PlatformFollowers   map[string]int64  `json:"platformFollowers"`
}

type SignInResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    SignInUser `json:"user"`
}

// WebhookError is the structured error body some webhook responses carry.
type WebhookError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

package transfer

// PostCreation carries the raw form fields of a create-post request before
// they are folded into a draft.
type PostCreation struct {
	Kind          string
	Carousel      bool
	Caption       string
	Tags          []string
	ScheduledTime string
	Platforms     []string
	BannerID      string
	MediaURIs     []string
	MediaHint     string
}

// SubmissionResult is what the submission client hands back on HTTP
// success: the parsed response body (nil when unparsable) and the
// human-readable banner message.
type SubmissionResult struct {
	Body    map[string]interface{}
	Message string
}

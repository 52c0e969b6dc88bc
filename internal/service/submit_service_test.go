package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/media"
	"github.com/postpilothq/postpilot/internal/models"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}

func testWebhooks(baseURL string) config.Webhooks {
	return config.Webhooks{
		PostURL:     baseURL + "/post",
		ReelURL:     baseURL + "/reel",
		CarouselURL: baseURL + "/carousel",
		StoryURL:    baseURL + "/story",
	}
}

func jpegAsset(name string) *media.Asset {
	return &media.Asset{Bytes: jpegBytes, MIMEType: "image/jpeg", FileName: name}
}

func TestEndpointFor(t *testing.T) {
	s := NewSubmitService(testWebhooks("http://backend"), nil)

	tests := []struct {
		name     string
		kind     models.ContentKind
		carousel bool
		hasVideo bool
		want     string
	}{
		{"story", models.ContentKindStory, false, false, "http://backend/story"},
		{"story with video", models.ContentKindStory, false, true, "http://backend/story"},
		{"story carousel", models.ContentKindStory, true, false, "http://backend/story"},
		{"story carousel video", models.ContentKindStory, true, true, "http://backend/story"},
		{"carousel", models.ContentKindPost, true, false, "http://backend/carousel"},
		{"carousel with video", models.ContentKindPost, true, true, "http://backend/carousel"},
		{"video", models.ContentKindPost, false, true, "http://backend/reel"},
		{"plain post", models.ContentKindPost, false, false, "http://backend/post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.EndpointFor(tt.kind, tt.carousel, tt.hasVideo))
		})
	}
}

func TestSubmit_PublishNow(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string
	var gotMediaNames []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = r.MultipartForm.Value
		for _, f := range r.MultipartForm.File["media"] {
			gotMediaNames = append(gotMediaNames, f.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{
		Kind:      models.ContentKindPost,
		Caption:   "hi",
		Platforms: []string{"instagram"},
		Media:     []models.MediaReference{{URI: "/a.jpg", FileName: "a.jpg"}},
	}

	result, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})
	require.NoError(t, err)

	assert.Equal(t, "/post", gotPath)
	assert.Equal(t, []string{"a.jpg"}, gotMediaNames)
	assert.Equal(t, []string{"hi"}, gotForm["caption"])
	assert.Equal(t, []string{"instagram"}, gotForm["Platforms"])
	assert.Equal(t, []string{"true"}, gotForm["publishnow"])
	assert.Equal(t, []string{"false"}, gotForm["isReel"])
	assert.Equal(t, []string{"false"}, gotForm["isCarousel"])
	assert.NotContains(t, gotForm, "scheduledFor")

	assert.Equal(t, "Post is Live Now! 🎉", result.Message)
	assert.Equal(t, true, result.Body["ok"])
}

func TestSubmit_Scheduled(t *testing.T) {
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = r.MultipartForm.Value
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	scheduledAt := time.Date(2026, 9, 15, 10, 30, 0, 123_000_000, time.UTC)
	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{
		Kind:        models.ContentKindPost,
		Caption:     "later",
		Platforms:   []string{"instagram"},
		ScheduledAt: &scheduledAt,
		Media:       []models.MediaReference{{URI: "/a.jpg"}},
	}

	result, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})
	require.NoError(t, err)

	assert.Equal(t, []string{"false"}, gotForm["publishnow"])
	assert.Equal(t, []string{"2026-09-15T10:30:00Z"}, gotForm["scheduledFor"])
	assert.NotContains(t, result.Message, "Live Now")
	assert.Contains(t, result.Message, "Sep 15, 2026")
}

func TestSubmit_ReelWhenVideoPresent(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = r.MultipartForm.Value
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{
		Kind:      models.ContentKindPost,
		Caption:   "clip",
		Platforms: []string{"instagram", "tiktok"},
		Media:     []models.MediaReference{{URI: "/a.mp4", IsVideo: true}},
	}

	result, err := s.Submit(context.Background(), draft, []*media.Asset{{Bytes: jpegBytes, MIMEType: "video/mp4", FileName: "a.mp4"}})
	require.NoError(t, err)

	assert.Equal(t, "/reel", gotPath)
	assert.Equal(t, []string{"true"}, gotForm["isReel"])
	assert.Equal(t, []string{"instagram", "tiktok"}, gotForm["Platforms"])
	assert.Equal(t, "Reel is Live Now! 🎉", result.Message)
}

func TestSubmit_CarouselFieldSet(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = r.MultipartForm.Value
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{
		Kind:      models.ContentKindPost,
		Carousel:  true,
		Caption:   "three pics",
		Tags:      []string{"travel", "sunset"},
		Platforms: []string{"instagram", "tiktok"},
		Media: []models.MediaReference{
			{URI: "/a.jpg"}, {URI: "/b.jpg"}, {URI: "/c.jpg"},
		},
	}

	assets := []*media.Asset{jpegAsset("a.jpg"), jpegAsset("b.jpg"), jpegAsset("c.jpg")}
	_, err := s.Submit(context.Background(), draft, assets)
	require.NoError(t, err)

	assert.Equal(t, "/carousel", gotPath)
	assert.Equal(t, []string{"three pics"}, gotForm["captionPromt"])
	assert.Equal(t, []string{"travel", "sunset"}, gotForm["userTags"])
	// The carousel contract takes exactly one platform, always Instagram.
	assert.Equal(t, []string{"instagram"}, gotForm["Platforms"])
	assert.NotContains(t, gotForm, "caption")
	assert.NotContains(t, gotForm, "isCarousel")
}

func TestSubmit_StoryFieldSet(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotForm = r.MultipartForm.Value
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{
		Kind:     models.ContentKindStory,
		Caption:  "story time",
		BannerID: "banner-7",
		Media:    []models.MediaReference{{URI: "/a.jpg"}},
	}

	result, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})
	require.NoError(t, err)

	assert.Equal(t, "/story", gotPath)
	assert.Equal(t, []string{"story time"}, gotForm["titlePromt"])
	assert.Equal(t, []string{"banner-7"}, gotForm["bannerId"])
	assert.NotContains(t, gotForm, "caption")
	assert.NotContains(t, gotForm, "publishnow")
	assert.Equal(t, "Story is Live Now! 🎉", result.Message)
}

func TestSubmit_DomainErrorFromJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"caption too long"}`))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{Kind: models.ContentKindPost, Platforms: []string{"instagram"}}

	_, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})
	require.Error(t, err)

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, http.StatusUnprocessableEntity, domErr.StatusCode)
	assert.Equal(t, "caption too long", domErr.Message)
}

func TestSubmit_DomainErrorFromRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{Kind: models.ContentKindPost, Platforms: []string{"instagram"}}

	_, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "upstream exploded", domErr.Message)
}

func TestSubmit_DomainErrorGenericWhenBodyEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{Kind: models.ContentKindPost, Platforms: []string{"instagram"}}

	_, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "Something went wrong while posting", domErr.Message)
}

func TestSubmit_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{Kind: models.ContentKindPost, Platforms: []string{"instagram"}}

	_, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestSubmit_UnparsableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	s := NewSubmitService(testWebhooks(server.URL), nil)
	draft := &models.PostDraft{Kind: models.ContentKindPost, Platforms: []string{"instagram"}}

	result, err := s.Submit(context.Background(), draft, []*media.Asset{jpegAsset("a.jpg")})
	require.NoError(t, err)
	assert.Nil(t, result.Body)
	assert.NotEmpty(t, result.Message)
}

func TestFormatScheduledFor(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	t1 := time.Date(2026, 1, 2, 9, 4, 5, 999_000_000, loc)
	assert.Equal(t, "2026-01-02T03:34:05Z", FormatScheduledFor(t1))
}

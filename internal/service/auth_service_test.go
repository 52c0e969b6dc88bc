package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/pkg/utils"
)

type userRepoStub struct {
	upserted *models.User
}

func (u *userRepoStub) Upsert(ctx context.Context, user *models.User) (int64, error) {
	u.upserted = user
	return 1, nil
}

func (u *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.upserted, nil
}

type profileRepoStub struct {
	saved *models.Profile
}

func (p *profileRepoStub) Save(ctx context.Context, profile *models.Profile) error {
	p.saved = profile
	return nil
}

func (p *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return p.saved, nil
}

func authConfig(signInURL string) config.Config {
	return config.Config{
		SecretKey: "0123456789abcdef0123456789abcdef",
		Webhooks:  config.Webhooks{SignInURL: signInURL},
	}
}

func TestSignIn(t *testing.T) {
	var gotEmail, gotPassword string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotEmail = r.MultipartForm.Value["email"][0]
		gotPassword = r.MultipartForm.Value["password"][0]
		w.Write([]byte(`{
			"success": true,
			"user": {
				"_id": "abc123",
				"fullName": "Sam Poster",
				"email": "u@test.dev",
				"totalFollowers": 1200,
				"connectedUsernames": {"instagram": "samposts"},
				"platformFollowers": {"instagram": 1200}
			}
		}`))
	}))
	defer server.Close()

	users := &userRepoStub{}
	profiles := &profileRepoStub{}
	cfg := authConfig(server.URL)
	s := NewAuthService(cfg, users, profiles, nil)

	profile, token, err := s.SignIn(context.Background(), "u@test.dev", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "u@test.dev", gotEmail)
	assert.Equal(t, "hunter2", gotPassword)

	assert.Equal(t, "abc123", profile.BackendID)
	assert.Equal(t, "Sam Poster", profile.FullName)
	assert.EqualValues(t, 1200, profile.TotalFollowers)
	assert.Equal(t, "samposts", profile.ConnectedUsernames["instagram"])

	require.NotNil(t, users.upserted)
	assert.Equal(t, "abc123", users.upserted.BackendID)
	require.NotNil(t, profiles.saved)

	claims, err := utils.ValidateToken(cfg.SecretKey, token)
	require.NoError(t, err)
	assert.Equal(t, "u@test.dev", claims.Email)
}

func TestSignIn_MissingCredentials(t *testing.T) {
	s := NewAuthService(authConfig("http://backend.invalid"), &userRepoStub{}, &profileRepoStub{}, nil)

	_, _, err := s.SignIn(context.Background(), "", "hunter2")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, _, err = s.SignIn(context.Background(), "u@test.dev", "")
	require.ErrorAs(t, err, &vErr)
}

func TestSignIn_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "Wrong password"}`))
	}))
	defer server.Close()

	s := NewAuthService(authConfig(server.URL), &userRepoStub{}, &profileRepoStub{}, nil)
	_, _, err := s.SignIn(context.Background(), "u@test.dev", "wrong")

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, http.StatusUnauthorized, domErr.StatusCode)
	assert.Equal(t, "Wrong password", domErr.Message)
}

func TestSignIn_RejectedWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	s := NewAuthService(authConfig(server.URL), &userRepoStub{}, &profileRepoStub{}, nil)
	_, _, err := s.SignIn(context.Background(), "u@test.dev", "wrong")

	var domErr *DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "Invalid email or password", domErr.Message)
}

func TestSignIn_WebhookUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewAuthService(authConfig(server.URL), &userRepoStub{}, &profileRepoStub{}, nil)
	_, _, err := s.SignIn(context.Background(), "u@test.dev", "hunter2")

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicBase string
}

// Webhooks holds the fixed endpoint URLs on the automation backend. The
// backend is an opaque contract: four content endpoints plus status, caption
// and sign-in.
type Webhooks struct {
	PostURL     string
	ReelURL     string
	CarouselURL string
	StoryURL    string
	StatusURL   string
	CaptionURL  string
	SignInURL   string
}

type Config struct {
	PostgresURI string
	RedisURI    string
	FrontendURL string
	Webhooks    Webhooks
	R2          R2
	ScratchDir  string
	SecretKey   string
	CookieName  string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		Webhooks: Webhooks{
			PostURL:     getEnv("WEBHOOK_POST_URL", ""),
			ReelURL:     getEnv("WEBHOOK_REEL_URL", ""),
			CarouselURL: getEnv("WEBHOOK_CAROUSEL_URL", ""),
			StoryURL:    getEnv("WEBHOOK_STORY_URL", ""),
			StatusURL:   getEnv("WEBHOOK_STATUS_URL", ""),
			CaptionURL:  getEnv("WEBHOOK_CAPTION_URL", ""),
			SignInURL:   getEnv("WEBHOOK_SIGNIN_URL", ""),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicBase: getEnv("R2_PUBLIC_BASE", ""),
		},
		ScratchDir: getEnv("SCRATCH_DIR", os.TempDir()),
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postpilot_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

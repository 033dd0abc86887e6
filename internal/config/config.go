package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RemoteAPIURL   string
	RemoteAPIToken string
	RemoteTimeout  time.Duration

	RedisAddr     string
	RedisPassword string

	SessionTTL     time.Duration
	MaxUploadBytes int64

	NotifyPollInterval time.Duration
}

func Load() Config {

	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		RemoteAPIURL:   os.Getenv("REMOTE_API_URL"),
		RemoteAPIToken: os.Getenv("REMOTE_API_TOKEN"),
		RemoteTimeout:  getduration("REMOTE_TIMEOUT", 10*time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionTTL:     getduration("SESSION_TTL", 24*time.Hour),
		MaxUploadBytes: getbytes("MAX_UPLOAD_BYTES", 1<<20),

		NotifyPollInterval: getduration("NOTIFY_POLL_INTERVAL", time.Minute),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getbytes(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int64
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int64(c-'0')
	}
	if n <= 0 {
		return fallback
	}
	return n
}

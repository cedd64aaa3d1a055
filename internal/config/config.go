package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, loaded from the environment with
// an optional .env file.
type Config struct {
	Port    string
	TempDir string
	Verbose bool

	// Object store (Cloudinary)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadFolder        string

	// Project store (optional; empty URI disables bookkeeping)
	MongoURI      string
	MongoDatabase string

	// Wall-clock bound on a whole render call
	RenderTimeout time.Duration
}

// Load reads configuration from .env.local/.env (when present) and the
// process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "5174"),
		TempDir:             getEnv("TEMP_DIR", os.TempDir()),
		Verbose:             getEnvBool("VERBOSE", false),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		UploadFolder:        getEnv("UPLOAD_FOLDER", "lyricforge/outputs"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "lyricforge"),
		RenderTimeout:       getEnvDuration("RENDER_TIMEOUT", 2*time.Minute),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

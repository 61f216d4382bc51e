package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	S3Endpoint   string
	BucketName   string

	PagerURL        string
	PagerTimeoutSec int

	AIAPIKey   string
	EmbedModel string
	EmbedDim   int

	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int

	SearchLimit    int
	ScoreThreshold float64

	MaxUploadMB       int64
	PresignExpirySec  int
	ProcessTimeoutSec int

	Port string
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		BucketName:   getEnv("BUCKET_NAME", "docsearch-files"),

		PagerURL:        getEnv("PAGER_URL", ""),
		PagerTimeoutSec: getEnvInt("PAGER_TIMEOUT_SEC", 120),

		AIAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbedModel: getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:   getEnvInt("EMBED_DIM", 512),

		ChunkSize:      getEnvInt("CHUNK_SIZE", 150),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 50),
		EmbedBatchSize: getEnvInt("EMBED_BATCH_SIZE", 16),

		SearchLimit:    getEnvInt("SEARCH_LIMIT", 5),
		ScoreThreshold: getEnvFloat("SCORE_THRESHOLD", 0.5),

		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 40)),
		PresignExpirySec:  getEnvInt("PRESIGN_EXPIRY_SEC", 3600),
		ProcessTimeoutSec: getEnvInt("PROCESS_TIMEOUT_SEC", 300),

		Port: getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.PagerURL == "" {
		log.Fatal("PAGER_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not a float, using default %g", key, v, def)
		return def
	}
	return f
}

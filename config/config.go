package config

import (
	"os"
	"strconv"

	"github.com/jsphweid/notegen/constants"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreDynamoDB = "dynamodb"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Port        string
	SentryDSN   string

	// OutPath is where the file clip store and written MIDI files live.
	OutPath string

	MaxExpandedTokens int
	MelodyCandidates  int
	MelodyTopK        int
	// MelodyWorkers bounds parallel candidate generation, 0 means one per CPU.
	MelodyWorkers int

	// ClipStore is one of memory, file or dynamodb.
	ClipStore        string
	DynamoDBEndpoint string
	DynamoDBRegion   string
	DynamoDBTable    string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		OutPath:           constants.GetOutDir(),
		MaxExpandedTokens: getEnvInt("MAX_EXPANDED_TOKENS", constants.DefaultMaxExpandedTokens),
		MelodyCandidates:  getEnvInt("MELODY_CANDIDATES", 8),
		MelodyTopK:        getEnvInt("MELODY_TOP_K", 3),
		MelodyWorkers:     getEnvInt("MELODY_WORKERS", 0),
		ClipStore:         getEnv("CLIP_STORE", StoreMemory),
		DynamoDBEndpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
		DynamoDBRegion:    getEnv("DYNAMODB_REGION", "us-east-1"),
		DynamoDBTable:     getEnv("DYNAMODB_TABLE", "notegen-clips"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

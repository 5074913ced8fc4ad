package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Document store
	StoreBackend      string // memory, postgres, mongo
	DatabaseURL       string
	TablePrefix       string
	MongoURI          string
	MongoDatabase     string
	FoldersCollection string
	ContentCollection string

	// Binary object store
	ObjectBackend         string // memory, minio, s3, azure
	ObjectBucket          string
	MinioEndpoint         string
	MinioAccessKey        string
	MinioSecretKey        string
	MinioUseSSL           bool
	S3Region              string
	S3Endpoint            string
	S3AccessKey           string
	S3SecretKey           string
	AzureConnectionString string
	ObjectPublicURL       string // objects are private when empty
	URLExpiry             time.Duration
	URLCacheSize          int

	// Content behaviour
	FolderDeletePolicy string // reparent, orphan, cascade
	MaxUploadBytes     int64

	// Auth
	JWKSURL      string
	AuthDisabled bool
	DevSurface   string

	// Logging
	LogDir      string
	LogMaxFiles int

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		StoreBackend:      getEnv("STORE_BACKEND", "memory"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TablePrefix:       getTablePrefix(env),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "lms"),
		FoldersCollection: getEnv("FOLDERS_COLLECTION", "folders"),
		ContentCollection: getEnv("CONTENT_COLLECTION", "learnflow_content"),

		ObjectBackend:         getEnv("OBJECT_BACKEND", "memory"),
		ObjectBucket:          getEnv("OBJECT_BUCKET", "lms-content"),
		MinioEndpoint:         getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:           getEnv("MINIO_USE_SSL", "false") == "true",
		S3Region:              getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:            getEnv("S3_ENDPOINT", ""),
		S3AccessKey:           getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:           getEnv("S3_SECRET_KEY", ""),
		AzureConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		ObjectPublicURL:       getEnv("OBJECT_PUBLIC_URL", ""),
		URLExpiry:             getDuration("URL_EXPIRY", time.Hour),
		URLCacheSize:          getInt("URL_CACHE_SIZE", 1024),

		FolderDeletePolicy: strings.ToLower(getEnv("FOLDER_DELETE_POLICY", "reparent")),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_MB", 512)) << 20,

		JWKSURL:      getEnv("JWKS_URL", ""),
		AuthDisabled: getEnv("AUTH_DISABLED", getDefaultDebug(env)) == "true",
		DevSurface:   getEnv("DEV_SURFACE", "admin"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

// URLCacheTTL keeps cached retrieval URLs well inside their signed lifetime.
func (c *Config) URLCacheTTL() time.Duration {
	return c.URLExpiry * 3 / 4
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

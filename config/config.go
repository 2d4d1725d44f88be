package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Play counter policies accepted by SCHEMA_PLAY_COUNTER.
const (
	PlayCounterAuto  = "auto"  // probe once at startup
	PlayCounterOn    = "on"    // column known to exist
	PlayCounterOff   = "off"   // column known to be absent
	PlayCounterProbe = "probe" // re-probe on every call
)

// Config stores the application configuration.
type Config struct {
	ServerPort string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBAutoMigrate  bool

	// SchemaPlayCounter decides how the optional song.play_count column is detected.
	SchemaPlayCounter string

	// Override passwords accepted for any active account. Every use is logged and audited.
	AuthOverrideEnabled   bool
	AuthOverridePasswords []string
	AdminAuthRequired     bool

	// Redis backs the override audit trail and is optional.
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioRegion    string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPassword:     os.Getenv("DB_PASSWORD"), // no hardcoded default for the password
		DBName:         getEnv("DB_NAME", "artist_studio"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBAutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", false),

		SchemaPlayCounter: strings.ToLower(getEnv("SCHEMA_PLAY_COUNTER", PlayCounterAuto)),

		AuthOverrideEnabled:   getEnvBool("AUTH_OVERRIDE_ENABLED", true),
		AuthOverridePasswords: getEnvList("AUTH_OVERRIDE_PASSWORDS", []string{"admin2024", "demo123"}),
		AdminAuthRequired:     getEnvBool("ADMIN_AUTH_REQUIRED", true),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "artiststudio"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@artiststudio.com"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	switch cfg.SchemaPlayCounter {
	case PlayCounterAuto, PlayCounterOn, PlayCounterOff, PlayCounterProbe:
	default:
		log.Printf("Unknown SCHEMA_PLAY_COUNTER %q, falling back to %q", cfg.SchemaPlayCounter, PlayCounterAuto)
		cfg.SchemaPlayCounter = PlayCounterAuto
	}
	if !cfg.AuthOverrideEnabled {
		cfg.AuthOverridePasswords = nil
	}
	return cfg
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

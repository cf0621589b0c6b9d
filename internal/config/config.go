package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
type AppConfig struct {
	AppPort string
	GinMode string

	// Remote REST backend, e.g. http://localhost:8000
	APIBaseURL  string
	HTTPTimeout time.Duration

	ForumName     string
	SiteURL       string
	TopicsPerPage int
	StatsCacheTTL time.Duration

	// Session storage: "cookie" keeps token and user inside the signed cookie,
	// "postgres" keeps them in the session_entries table.
	SessionName    string
	SessionSecret  string
	SessionBackend string
	DatabaseURL    string

	RateLimitPerMinute int
	// RegisterCaptcha adds an arithmetic challenge to the registration form.
	RegisterCaptcha bool

	TemplatesDir string
	StaticDir    string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

const (
	SessionBackendCookie   = "cookie"
	SessionBackendPostgres = "postgres"
)

var cfg AppConfig
var loaded bool

// Load reads .env (if any), applies defaults and then environment overrides.
// It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg = FromEnv()
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// FromEnv builds a configuration from defaults and the current environment
// without touching the cached copy.
func FromEnv() AppConfig {
	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c
}

func applyDefaults(c *AppConfig) {
	c.AppPort = "8080"
	c.GinMode = "release"
	c.APIBaseURL = "http://localhost:8000"
	c.HTTPTimeout = 30 * time.Second
	c.ForumName = "Forum"
	c.SiteURL = "http://localhost:8080"
	c.TopicsPerPage = 20
	c.StatsCacheTTL = time.Minute
	c.SessionName = "forum_session"
	c.SessionSecret = "secret_key_change_me"
	c.SessionBackend = SessionBackendCookie
	c.RateLimitPerMinute = 60
	c.TemplatesDir = "./web/templates"
	c.StaticDir = "./web/static"
	c.LogLevel = "info"
	c.LogMaxSizeMB = 100
	c.LogMaxBackups = 3
	c.LogMaxAgeDays = 7
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("PORT", c.AppPort)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.APIBaseURL = strings.TrimRight(getEnv("API_URL", c.APIBaseURL), "/")
	c.HTTPTimeout = getDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.ForumName = getEnv("FORUM_NAME", c.ForumName)
	c.SiteURL = strings.TrimRight(getEnv("SITE_URL", c.SiteURL), "/")
	c.TopicsPerPage = getInt("TOPICS_PER_PAGE", c.TopicsPerPage)
	c.StatsCacheTTL = getDuration("STATS_CACHE_TTL", c.StatsCacheTTL)
	c.SessionName = getEnv("SESSION_NAME", c.SessionName)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SessionBackend = strings.ToLower(getEnv("SESSION_BACKEND", c.SessionBackend))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RateLimitPerMinute = getInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.RegisterCaptcha = getBool("REGISTER_CAPTCHA", c.RegisterCaptcha)
	c.TemplatesDir = getEnv("TEMPLATES_DIR", c.TemplatesDir)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.LogMaxSizeMB = getInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
	c.LogCompress = getBool("LOG_COMPRESS", c.LogCompress)

	if c.TopicsPerPage <= 0 {
		c.TopicsPerPage = 20
	}
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Printf("invalid integer for %s: %q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return i
}

func getBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return defaultVal
	}
	return b
}

// getDuration accepts Go durations ("90s", "2m") or a bare number of seconds.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}

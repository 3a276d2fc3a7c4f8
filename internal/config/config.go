package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source backends.
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the service and the warmer job.
type Config struct {
	Env  string
	Port int

	// Hosted data source
	DataSource     string
	RestURL        string
	RestKey        string
	RestRPS        float64
	RequestTimeout time.Duration
	PostgresDSN    string
	Migrate        bool

	// Snapshot cache
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheTTL       time.Duration
	StaleAfter     time.Duration
	RefreshWorkers int

	// HTTP
	RateLimit int

	// Warmer job
	WarmInterval time.Duration
	WarmRunOnce  bool
}

// IsDev reports whether the service runs in development mode. Diagnostics
// about degraded reads are only logged there.
func (c *Config) IsDev() bool { return c.Env == "development" }

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            Get("APP_ENV", "production"),
		Port:           GetInt("PORT", 4002),
		DataSource:     strings.ToLower(Get("DATA_SOURCE", SourceREST)),
		RestURL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		RestKey:        os.Getenv("SUPABASE_ANON_KEY"),
		RestRPS:        GetFloat("SUPABASE_RPS", 10),
		PostgresDSN:    os.Getenv("PG_DSN"),
		Migrate:        GetBool("PG_MIGRATE", true),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        GetInt("REDIS_DB", 0),
		CacheTTL:       GetDuration("CACHE_TTL", time.Hour),
		StaleAfter:     GetDuration("CACHE_STALE_AFTER", 5*time.Minute),
		RefreshWorkers: GetInt("REFRESH_WORKERS", 2),
		RateLimit:      GetInt("RATE_LIMIT_PER_MIN", 100),
		WarmInterval:   GetDuration("WARM_INTERVAL", 10*time.Minute),
		WarmRunOnce:    GetBool("WARM_RUN_ONCE", false),
	}

	// Local stacks answer slowly on cold start.
	def := 15 * time.Second
	if strings.Contains(cfg.RestURL, "localhost") || strings.Contains(cfg.RestURL, "127.0.0.1") {
		def = 30 * time.Second
	}
	cfg.RequestTimeout = GetDuration("REQUEST_TIMEOUT", def)

	switch cfg.DataSource {
	case SourceREST:
		if cfg.RestURL == "" || cfg.RestKey == "" {
			return nil, fmt.Errorf("config: SUPABASE_URL and SUPABASE_ANON_KEY are required for DATA_SOURCE=%s", SourceREST)
		}
	case SourcePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("config: PG_DSN is required for DATA_SOURCE=%s", SourcePostgres)
		}
	default:
		return nil, fmt.Errorf("config: unknown DATA_SOURCE %q", cfg.DataSource)
	}
	return cfg, nil
}

func Get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func GetInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetDuration accepts Go durations ("90s") or a bare number of seconds.
func GetDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return def
}

func GetBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	DataDir      string
	StoreBackend string // file|mysql
	WatchData    bool
	MySQLDSN     string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	// APIBaseURL makes the HTML pages fetch through the public API instead of in-process.
	APIBaseURL   string
	APIRateLimit int // requests per minute per IP
	CORSOrigins  []string

	IngestWorkers int
	DisplayTZ     *time.Location
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		DataDir:       env("DATA_DIR", "data/eiendommer"),
		StoreBackend:  strings.ToLower(env("STORE_BACKEND", "file")),
		WatchData:     boolEnv("WATCH_DATA", true),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/eiendom?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		APIBaseURL:    strings.TrimRight(env("API_BASE_URL", ""), "/"),
		APIRateLimit:  atoi("API_RATE_LIMIT", 100),
		CORSOrigins:   splitList(env("CORS_ORIGINS", "*")),
		IngestWorkers: atoi("INGEST_WORKERS", 4),
		DisplayTZ:     location(env("DISPLAY_TZ", "Europe/Oslo")),
	}
	if c.StoreBackend != "file" && c.StoreBackend != "mysql" {
		log.Warn().Str("backend", c.StoreBackend).Msg("unknown STORE_BACKEND, using file")
		c.StoreBackend = "file"
	}
	if c.IngestWorkers < 1 {
		c.IngestWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("tz", name).Msg("unknown DISPLAY_TZ, using UTC")
		return time.UTC
	}
	return loc
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration, read from the environment after an
// optional .env load.
type Config struct {
	Port      string
	WordsFile string
	PublicURL string
	Debug     bool

	RoundSeconds int
	TickInterval time.Duration
	StartDelay   time.Duration
	RestartDelay time.Duration
}

// Load reads configuration with sane defaults. Missing or malformed values
// fall back to the defaults rather than failing startup.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         "8080",
		WordsFile:    "data/words.txt",
		PublicURL:    "http://localhost:8080",
		RoundSeconds: 90,
		TickInterval: time.Second,
		StartDelay:   3 * time.Second,
		RestartDelay: 10 * time.Second,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("WORDS_FILE"); v != "" {
		cfg.WordsFile = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.PublicURL = v
	}
	cfg.Debug = os.Getenv("DEBUG") != ""

	if v := os.Getenv("ROUND_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoundSeconds = n
		}
	}
	if d, ok := duration("TICK_INTERVAL"); ok {
		cfg.TickInterval = d
	}
	if d, ok := duration("START_DELAY"); ok {
		cfg.StartDelay = d
	}
	if d, ok := duration("RESTART_DELAY"); ok {
		cfg.RestartDelay = d
	}

	return cfg
}

func duration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

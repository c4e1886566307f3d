// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the session coordinator. Values come from
// the environment with defaults matching the reference deployment.
type Config struct {
	Addr      string // listen address, e.g. ":8080"
	RedisAddr string
	RedisDB   int

	TotalRounds   int           // rounds per game
	RoundDuration time.Duration // length of one round
	TickInterval  time.Duration // timer-update broadcast period
	AdvanceDelay  time.Duration // pause between a correct guess and the next round
	GracePeriod   time.Duration // seat hold after a disconnect
	SessionTTL    time.Duration // store record expiration, refreshed on write

	WordsFile string // optional newline-separated word list override
}

// Load reads configuration from the environment.
func Load() Config {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		Addr:      addr,
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		TotalRounds:   getEnvInt("TOTAL_ROUNDS", 5),
		RoundDuration: getEnvDuration("ROUND_DURATION", 60*time.Second),
		TickInterval:  time.Second,
		AdvanceDelay:  time.Second,
		GracePeriod:   getEnvDuration("GRACE_PERIOD", 30*time.Second),
		SessionTTL:    getEnvDuration("SESSION_TTL", time.Hour),

		WordsFile: os.Getenv("WORDS_FILE"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

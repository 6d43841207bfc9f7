package config // package config loads gateway configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The gateway keeps no database of its own; the
// only backing services are the reservation API, redis and the message
// broker.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	APIURL         string // base URL of the reservation API, e.g. http://localhost:8000/api
	SessionSecret  string // secret used to sign the session cookie JWT
	SessionTTLDays int    // browser session lifetime in days
	AMQPURL        string // broker URL for reservation events (empty disables the consumer)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            getenvDefault("APP_ENV", "dev"),
		Port:           must("APP_PORT"),
		APIURL:         must("API_URL"),
		SessionSecret:  must("SESSION_SECRET"),
		SessionTTLDays: envIntDefault("SESSION_TTL_DAYS", 30),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

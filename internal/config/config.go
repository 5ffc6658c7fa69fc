package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the gateway's startup configuration. The upstream API key and
// per-mode model overrides are deliberately absent: they are read from the
// environment at request time (APIKey, persona.Router) so rotated
// credentials are picked up without a restart.
type Config struct {
	ListenAddr      string
	UpstreamBaseURL string
	AllowedOrigins  []string
}

// Load parses flags and environment variables, loading a .env file first
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":8080"), "Gateway listen address")
	flag.StringVar(&cfg.UpstreamBaseURL, "upstream-base-url", getEnv("UPSTREAM_BASE_URL", "https://api.openai.com"), "LLM provider base URL or full chat-completions endpoint URL")

	var origins string
	flag.StringVar(&origins, "allowed-origins", getEnv("ALLOWED_ORIGINS", ""), "Comma-separated origin allow-list (first entry is the default CORS origin)")

	flag.Parse()

	cfg.AllowedOrigins = splitOrigins(origins)
	return cfg
}

// APIKey returns the upstream API key, read from the environment on every
// call.
func APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

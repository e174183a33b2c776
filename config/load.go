package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := App{
		APIBaseURL:     must("LOOP_API_URL"),
		SessionFile:    getenv("LOOP_SESSION_FILE", defaultSessionFile()),
		HTTPTimeoutSec: getint("LOOP_HTTP_TIMEOUT_SEC", 10),
		PayPalBaseURL:  getenv("LOOP_PAYPAL_URL", "https://api-m.sandbox.paypal.com"),
		Env:            getenv("APP_ENV", "dev"),
	}
	return cfg
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".localloop", "session.db")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

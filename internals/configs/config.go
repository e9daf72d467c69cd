package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string
	AppEnv    string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppEnv = GetEnv("APP_ENV", "development")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

/* =========================================================
   Direct-debit processor settings
   Built once at bootstrap and injected into the gateway
   client. No package-level client singletons.
========================================================= */

type ProcessorConfig struct {
	BaseURL   string
	SecretKey string
	Currency  string
	Timeout   time.Duration
}

func LoadProcessorConfig() ProcessorConfig {
	cfg := ProcessorConfig{
		BaseURL:   GetEnv("PROCESSOR_BASE_URL", "https://api.processor.example"),
		SecretKey: GetEnv("PROCESSOR_SECRET_KEY"),
		Currency:  GetEnv("PROCESSOR_CURRENCY", "NGN"),
		Timeout:   15 * time.Second,
	}
	if raw := GetEnv("PROCESSOR_TIMEOUT_SECONDS"); raw != "" {
		if d, err := time.ParseDuration(raw + "s"); err == nil {
			cfg.Timeout = d
		}
	}
	if cfg.SecretKey == "" {
		log.Println("❌ PROCESSOR_SECRET_KEY is not set!")
	}
	return cfg
}

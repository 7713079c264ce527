package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DBUrl        string
	RedisAddr    string
	SettingsPath string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string

	// TentativeBlocks define se eventos "tentative" bloqueiam um slot.
	// Padrão seguro: bloqueiam.
	TentativeBlocks bool

	// MaxProviderCalls limita chamadas concorrentes ao provider.
	MaxProviderCalls int

	ProviderTimeout time.Duration
	SlotStepMinutes int
}

func Load() *Config {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBUrl:        getEnv("DATABASE_URL", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		SettingsPath: getEnv("SETTINGS_PATH", "config/settings.json"),

		JWTSecret:         getEnv("JWT_SECRET", "changeme"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@kunde.dk"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		GraphTenantID:     getEnv("GRAPH_TENANT_ID", ""),
		GraphClientID:     getEnv("GRAPH_CLIENT_ID", ""),
		GraphClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),

		TentativeBlocks:  getEnvBool("TENTATIVE_BLOCKS", true),
		MaxProviderCalls: getEnvInt("MAX_PROVIDER_CALLS", 8),
		ProviderTimeout:  getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		SlotStepMinutes:  getEnvInt("SLOT_STEP_MINUTES", 30),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabaseDriver   string
	DatabasePath     string
	DatabaseDSN      string
	DatabaseLogLevel string
	SessionSecret    string
	SessionName      string
	SessionMaxAge    time.Duration
	SessionSecure    bool
	GinMode          string
	StaticDir        string
	BcryptCost       int
	AuthRateWindow   time.Duration
	AuthRateMax      int
	AdminUsername    string
	AdminEmail       string
	AdminPassword    string
}

const defaultSessionSecret = "cuteblog-dev-secret"

// LoadDotEnv 读取 .env 文件（若存在），已设置的环境变量不会被覆盖。
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("[config] failed to load %s: %v", path, err)
		}
	}
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := envString("PORT", "8080")

	listenAddr := envString("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	sessionSecret := envString("SESSION_SECRET", "")
	if sessionSecret == "" {
		log.Printf("[config] SESSION_SECRET not set, using development secret")
		sessionSecret = defaultSessionSecret
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabaseDriver:   strings.ToLower(envString("DATABASE_DRIVER", "sqlite")),
		DatabasePath:     envString("DATABASE_PATH", "cuteblog.db"),
		DatabaseDSN:      envString("DATABASE_DSN", ""),
		DatabaseLogLevel: strings.ToLower(envString("DATABASE_LOG_LEVEL", "warn")),
		SessionSecret:    sessionSecret,
		SessionName:      envString("SESSION_NAME", "sessionId"),
		SessionMaxAge:    envDuration("SESSION_MAX_AGE", time.Hour),
		SessionSecure:    envBool("SESSION_SECURE", false),
		GinMode:          envString("GIN_MODE", "release"),
		StaticDir:        envString("STATIC_DIR", "web/static"),
		BcryptCost:       envInt("BCRYPT_COST", 10),
		AuthRateWindow:   envDuration("AUTH_RATE_LIMIT_WINDOW", 15*time.Minute),
		AuthRateMax:      envInt("AUTH_RATE_LIMIT_MAX", 4),
		AdminUsername:    envString("ADMIN_USERNAME", ""),
		AdminEmail:       envString("ADMIN_EMAIL", ""),
		AdminPassword:    envString("ADMIN_PASSWORD", ""),
	}
}

// DatabaseTarget 返回当前驱动实际使用的连接串。
func (c AppConfig) DatabaseTarget() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseDSN
	}
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

func envString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := envString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("[config] invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	raw := envString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %t", key, raw, fallback)
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := envString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return value
}

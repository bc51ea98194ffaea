package config

import (
	"fmt"
	"strings"
	"time"
	// зона сервиса должна грузиться и в образах без системной tzdata
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// AppConfig хранит настройки процесса: адреса, секрет токенов, локаль, Redis.
type AppConfig struct {
	Env      string
	LogLevel string

	HTTPAddr         string
	GRPCAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	CORSOrigins      []string

	JWTSecret string

	// Единственная локаль сервиса: "сегодня" и день недели считаются в ней.
	Location *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration
}

// LoadDotEnv подхватывает .env, если он есть. Отсутствие файла не ошибка.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

func LoadAppConfig() (*AppConfig, error) {
	tz := getEnv("APP_TIMEZONE", "America/Santiago")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	cfg := &AppConfig{
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:         getEnv("GRPC_ADDR", ":50051"),
		HTTPReadTimeout:  time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
		HTTPWriteTimeout: time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		Location:         loc,
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		LockTTL:          time.Duration(getEnvInt("BOOKING_LOCK_TTL_SEC", 10)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("invalid app config: JWT_SECRET must not be empty")
	}
	if cfg.LockTTL <= 0 {
		return nil, fmt.Errorf("invalid app config: BOOKING_LOCK_TTL_SEC must be positive")
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
)

// UnknownInstanceID подставляется, когда переменная с идентификатором экземпляра не задана.
const UnknownInstanceID = "unknown"

type Config struct {
	Env      string `validate:"required"`
	Server   ServerConfig
	Instance InstanceConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host            string
	Port            int           `validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	// BodyLimit в формате echo ("512K", "1M"), пустое значение - без ограничения.
	BodyLimit string
}

// InstanceConfig описывает идентичность процесса, которую отдает /echo.
type InstanceConfig struct {
	// IDEnvKey - имя переменной окружения, из которой читается идентификатор.
	// Пустое имя дает UnknownInstanceID.
	IDEnvKey string
	ID       string `validate:"required"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled bool
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	shutdownTimeout, err := parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            serverPort,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
		BodyLimit:       strings.TrimSpace(getEnv("SERVER_BODY_LIMIT", "")),
	}

	if err := validateBodyLimit(cfg.Server.BodyLimit); err != nil {
		return cfg, err
	}

	idEnvKey := strings.TrimSpace(getEnv("INSTANCE_ID_ENV", "HOSTNAME"))
	cfg.Instance = InstanceConfig{
		IDEnvKey: idEnvKey,
		ID:       resolveInstanceID(idEnvKey),
	}

	cfg.Log = LogConfig{
		Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return cfg, err
	}

	cfg.Metrics = MetricsConfig{Enabled: metricsEnabled}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Addr возвращает адрес для net/http сервера.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel переводит LOG_LEVEL в уровень slog.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var envNames = map[string]string{
	"Env":             "APP_ENV",
	"Port":            "SERVER_PORT",
	"ReadTimeout":     "SERVER_READ_TIMEOUT",
	"WriteTimeout":    "SERVER_WRITE_TIMEOUT",
	"IdleTimeout":     "SERVER_IDLE_TIMEOUT",
	"ShutdownTimeout": "SERVER_SHUTDOWN_TIMEOUT",
	"ID":              "instance id",
	"Level":           "LOG_LEVEL",
}

func (c Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	first := ve[0]
	name, ok := envNames[first.Field()]
	if !ok {
		name = first.Namespace()
	}

	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", name, first.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", name, first.Param())
	case "lte":
		return fmt.Errorf("%s must be less than or equal to %s", name, first.Param())
	default:
		return fmt.Errorf("%s failed %s validation", name, first.Tag())
	}
}

// validateBodyLimit проверяет значение заранее, иначе middleware.BodyLimit паникует при старте.
func validateBodyLimit(limit string) error {
	if limit == "" {
		return nil
	}

	parsed, err := bytes.Parse(limit)
	if err != nil {
		return fmt.Errorf("SERVER_BODY_LIMIT must be a size like 1M: %w", err)
	}

	if parsed <= 0 {
		return fmt.Errorf("SERVER_BODY_LIMIT must be greater than 0")
	}

	return nil
}

func resolveInstanceID(key string) string {
	if key == "" {
		return UnknownInstanceID
	}

	if value := os.Getenv(key); value != "" {
		return value
	}

	return UnknownInstanceID
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/schedule"
	"github.com/joho/godotenv"
)

// Attendance backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Employee directory sources
const (
	DirectoryMemory   = "memory"
	DirectoryPostgres = "postgres"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
	Shift      schedule.ShiftCalendar
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr             string
	Password         string
	DB               int
	AttendanceKey    string
	EmployeeCacheTTL time.Duration
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	Location       *time.Location
	AllowedOrigins []string
}

type AttendanceConfig struct {
	Backend           string
	EmployeeDirectory string
}

type StorageConfig struct {
	BasePath string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file found, using process environment")
	}

	return FromEnv()
}

// FromEnv builds and validates the configuration from environment variables.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_timekeeping"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("EMPLOYEE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLOYEE_CACHE_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:             getEnv("REDIS_ADDR", ""),
		Password:         getEnv("REDIS_PASSWORD", ""),
		DB:               redisDB,
		AttendanceKey:    getEnv("REDIS_ATTENDANCE_KEY", "hris:attendance:records"),
		EmployeeCacheTTL: cacheTTL,
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_TOPIC", "hris.attendance.notifications"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	timezone := getEnv("APP_TIMEZONE", "Asia/Jakarta")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       timezone,
		Location:       location,
		AllowedOrigins: origins,
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Attendance = AttendanceConfig{
		Backend:           strings.ToLower(getEnv("ATTENDANCE_BACKEND", BackendMemory)),
		EmployeeDirectory: strings.ToLower(getEnv("EMPLOYEE_DIRECTORY", DirectoryMemory)),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
	}

	// Shift calendar
	defaults := schedule.DefaultShiftCalendar()
	shift := schedule.ShiftCalendar{}
	for _, b := range []struct {
		key      string
		fallback schedule.ClockTime
		dst      *schedule.ClockTime
	}{
		{"SHIFT_MORNING_START", defaults.MorningStart, &shift.MorningStart},
		{"SHIFT_MORNING_END", defaults.MorningEnd, &shift.MorningEnd},
		{"SHIFT_AFTERNOON_START", defaults.AfternoonStart, &shift.AfternoonStart},
		{"SHIFT_AFTERNOON_END", defaults.AfternoonEnd, &shift.AfternoonEnd},
	} {
		c, err := schedule.ParseClockTime(getEnv(b.key, b.fallback.String()))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", b.key, err)
		}
		*b.dst = c
	}
	config.Shift = shift

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Attendance.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("REDIS_ADDR is required for the redis attendance backend")
		}
		if c.Redis.AttendanceKey == "" {
			return fmt.Errorf("REDIS_ATTENDANCE_KEY is required for the redis attendance backend")
		}
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres attendance backend")
		}
	default:
		return fmt.Errorf("unknown ATTENDANCE_BACKEND %q", c.Attendance.Backend)
	}

	switch c.Attendance.EmployeeDirectory {
	case DirectoryMemory:
	case DirectoryPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres employee directory")
		}
	default:
		return fmt.Errorf("unknown EMPLOYEE_DIRECTORY %q", c.Attendance.EmployeeDirectory)
	}

	if c.Redis.EmployeeCacheTTL < 0 {
		return fmt.Errorf("EMPLOYEE_CACHE_TTL must not be negative")
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	if err := c.Shift.Validate(); err != nil {
		return err
	}
	return nil
}

// UsesPostgres reports whether any component needs the database pool.
func (c *Config) UsesPostgres() bool {
	return c.Attendance.Backend == BackendPostgres || c.Attendance.EmployeeDirectory == DirectoryPostgres
}

// SlogLevel parses App.LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

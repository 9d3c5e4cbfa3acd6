package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Lock backends.
const (
	LockMutex = "mutex"
	LockRedis = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
	Calendar     CalendarConfig
	Assignment   AssignmentConfig
	Directory    DirectoryConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects and configures the ticket document store.
type StoreConfig struct {
	Driver    string
	DataFile  string
	BackupDir string
	Lock      string
	LockTTL   time.Duration
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	SMSFrom    string
	SlackURL   string
}

// SchedulerConfig holds cron expressions for background jobs. Empty disables a job.
type SchedulerConfig struct {
	BackupSchedule     string
	EscalationSchedule string
}

// CalendarConfig describes the business hours used for response deadlines.
type CalendarConfig struct {
	WorkStartHour int
	WorkEndHour   int
	WorkWeekends  bool
}

// AssignmentConfig lists the agents used for round-robin assignment.
type AssignmentConfig struct {
	Agents []string
}

// DirectoryConfig points at an optional YAML employee directory.
type DirectoryConfig struct {
	File  string
	Watch bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "help-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFile)),
			DataFile:  getEnv("STORE_DATA_FILE", "helpdesk_data.json"),
			BackupDir: getEnv("STORE_BACKUP_DIR", "."),
			Lock:      strings.ToLower(getEnv("STORE_LOCK", LockMutex)),
			LockTTL:   time.Duration(getEnvAsInt("STORE_LOCK_TTL_SECONDS", 10)) * time.Second,
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "helpdesk@company.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			SMSFrom:    getEnv("NOTIFY_SMS_FROM", ""),
			SlackURL:   getEnv("NOTIFY_SLACK_URL", ""),
		},
		Scheduler: SchedulerConfig{
			BackupSchedule:     os.Getenv("BACKUP_SCHEDULE"),
			EscalationSchedule: getEnv("ESCALATION_SCHEDULE", "*/15 * * * *"),
		},
		Calendar: CalendarConfig{
			WorkStartHour: getEnvAsInt("CALENDAR_WORK_START_HOUR", 9),
			WorkEndHour:   getEnvAsInt("CALENDAR_WORK_END_HOUR", 17),
			WorkWeekends:  getEnvAsBool("CALENDAR_WORK_WEEKENDS", false),
		},
		Assignment: AssignmentConfig{
			Agents: getEnvAsList("ASSIGN_AGENTS", []string{
				"John Smith (IT)",
				"Sarah Johnson (IT)",
				"Mike Wilson (IT)",
				"Lisa Brown (IT)",
			}),
		},
		Directory: DirectoryConfig{
			File:  os.Getenv("DIRECTORY_FILE"),
			Watch: getEnvAsBool("DIRECTORY_WATCH", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverFile:
		if c.Store.DataFile == "" {
			return fmt.Errorf("STORE_DATA_FILE must not be empty")
		}
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.Lock != LockMutex && c.Store.Lock != LockRedis {
		return fmt.Errorf("unsupported STORE_LOCK %q", c.Store.Lock)
	}
	if c.Calendar.WorkStartHour < 0 || c.Calendar.WorkEndHour > 24 || c.Calendar.WorkStartHour >= c.Calendar.WorkEndHour {
		return fmt.Errorf("invalid business hours %d-%d", c.Calendar.WorkStartHour, c.Calendar.WorkEndHour)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	MinSchedulerInterval = time.Minute
	MaxSchedulerInterval = 5 * time.Minute
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Gemini    GeminiConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int `validate:"min=1,max=65535"`
	Env             string
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	// AllowedOrigins limits websocket upgrades; empty allows any origin.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int `validate:"min=1"`
	MaxIdleConns int `validate:"min=0"`
}

// RedisConfig is optional; an empty host disables the shared tick lock.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int `validate:"min=0"`
}

type JWTConfig struct {
	AccessSecret string `validate:"required,min=32"`
}

type StorageConfig struct {
	Type string `validate:"oneof=postgres memory"`
	// SeedFile is a JSON array of profiles loaded into memory storage at start.
	SeedFile string
}

type SchedulerConfig struct {
	Interval  time.Duration
	Retention time.Duration `validate:"gt=0"`
	// LeadTime is how long before an event starts its matching is triggered.
	LeadTime time.Duration `validate:"gt=0"`
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration `validate:"gt=0"`
}

type LoggingConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// Flags returns the command-line flags Load understands.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("party-match", pflag.ContinueOnError)
	fs.String("config", ".env", "path to the env file")
	fs.String("storage", "", "storage backend: postgres or memory")
	fs.Int("port", 0, "HTTP port")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)

	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("STORAGE_TYPE", StoragePostgres)

	v.SetDefault("SCHEDULER_INTERVAL", time.Minute)
	v.SetDefault("EVENT_RETENTION", 24*time.Hour)
	v.SetDefault("MATCHING_LEAD_TIME", 24*time.Hour)

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	v.SetDefault("GEMINI_TIMEOUT", 20*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads configuration from the env file, the environment and flags, in
// increasing order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	configFile := ".env"
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			configFile = f.Value.String()
		}
		if err := bindFlag(v, flags, "SERVER_PORT", "port"); err != nil {
			return nil, err
		}
		if err := bindFlag(v, flags, "STORAGE_TYPE", "storage"); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			Env:             v.GetString("ENV"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  v.GetStringSlice("WS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Storage: StorageConfig{
			Type:     v.GetString("STORAGE_TYPE"),
			SeedFile: v.GetString("MEMORY_SEED_FILE"),
		},
		Scheduler: SchedulerConfig{
			Interval:  v.GetDuration("SCHEDULER_INTERVAL"),
			Retention: v.GetDuration("EVENT_RETENTION"),
			LeadTime:  v.GetDuration("MATCHING_LEAD_TIME"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			Timeout: v.GetDuration("GEMINI_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// bindFlag binds a flag to key only when it was set, so an unset flag's zero
// default never shadows the environment.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) error {
	f := flags.Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag --%s: %w", name, err)
	}
	return nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Storage.Type == StoragePostgres {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	}
	if c.Scheduler.Interval < MinSchedulerInterval || c.Scheduler.Interval > MaxSchedulerInterval {
		return fmt.Errorf("scheduler interval must be between %s and %s, got %s",
			MinSchedulerInterval, MaxSchedulerInterval, c.Scheduler.Interval)
	}
	return nil
}

func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

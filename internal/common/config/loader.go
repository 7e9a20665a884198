// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, the APP_ENVIRONMENT overlay and the
// environment, in that order of increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	// Zero is a valid sample rate, so the default is applied before
	// unmarshalling rather than on the zero value.
	v.SetDefault("tracing.sample_rate", 1.0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnv enables overrides like SERVER_ADDRESS. AutomaticEnv only applies to
// keys viper already knows, so every leaf key is registered up front.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"server.address", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "server.static_dir",
		"catalog.seed_file",
		"logging.level", "logging.format",
		"metrics.enabled",
		"tracing.enabled", "tracing.exporter", "tracing.sample_rate", "tracing.service_name",
		"audit.postgres.enabled", "audit.postgres.host", "audit.postgres.port",
		"audit.postgres.database", "audit.postgres.user", "audit.postgres.password",
		"audit.postgres.max_connections", "audit.postgres.max_idle", "audit.postgres.sslmode",
		"audit.redis.enabled", "audit.redis.address", "audit.redis.password", "audit.redis.db",
		"audit.redis.channel", "audit.redis.recent_key", "audit.redis.recent_limit",
		"audit.kafka.enabled", "audit.kafka.brokers", "audit.kafka.topic",
		"audit.sns.enabled", "audit.sns.region", "audit.sns.topic_arn",
		"audit.email.enabled", "audit.email.region", "audit.email.from_email",
		"audit.timeout",
	} {
		_ = v.BindEnv(key)
	}
}

// loadEnvFile loads the first .env found from the working directory upward.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "mergington-activities"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "./static"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = "none"
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = cfg.App.Name
	}

	pg := &cfg.Audit.Postgres
	if pg.Port == 0 {
		pg.Port = 5432
	}
	if pg.MaxConnections == 0 {
		pg.MaxConnections = 10
	}
	if pg.MaxIdle == 0 {
		pg.MaxIdle = 2
	}
	if pg.SSLMode == "" {
		pg.SSLMode = "disable"
	}

	rd := &cfg.Audit.Redis
	if rd.Channel == "" {
		rd.Channel = "activities:registrations"
	}
	if rd.RecentKey == "" {
		rd.RecentKey = "activities:registrations:recent"
	}
	if rd.RecentLimit == 0 {
		rd.RecentLimit = 100
	}

	if cfg.Audit.Timeout == 0 {
		cfg.Audit.Timeout = 2000
	}
	if cfg.Audit.Kafka.Topic == "" {
		cfg.Audit.Kafka.Topic = "activities.registrations"
	}

	if cfg.Audit.SNS.Region == "" {
		cfg.Audit.SNS.Region = "us-east-1"
	}
	if cfg.Audit.Email.Region == "" {
		cfg.Audit.Email.Region = "us-east-1"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Tracing.Exporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("tracing.exporter must be none or stdout, got %q", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be within [0,1]")
	}
	if cfg.Audit.Timeout < 0 {
		return fmt.Errorf("audit.timeout must not be negative")
	}

	if cfg.Audit.Postgres.Enabled {
		if cfg.Audit.Postgres.Host == "" {
			return fmt.Errorf("audit.postgres.host is required")
		}
		if cfg.Audit.Postgres.Database == "" {
			return fmt.Errorf("audit.postgres.database is required")
		}
		if cfg.Audit.Postgres.User == "" {
			return fmt.Errorf("audit.postgres.user is required")
		}
	}

	if cfg.Audit.Redis.Enabled && cfg.Audit.Redis.Address == "" {
		return fmt.Errorf("audit.redis.address is required")
	}
	if cfg.Audit.Redis.RecentLimit < 0 {
		return fmt.Errorf("audit.redis.recent_limit must not be negative")
	}

	if cfg.Audit.Kafka.Enabled && len(cfg.Audit.Kafka.Brokers) == 0 {
		return fmt.Errorf("audit.kafka.brokers is required")
	}

	if cfg.Audit.SNS.Enabled && cfg.Audit.SNS.TopicARN == "" {
		return fmt.Errorf("audit.sns.topic_arn is required")
	}
	if cfg.Audit.Email.Enabled && cfg.Audit.Email.FromEmail == "" {
		return fmt.Errorf("audit.email.from_email is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Audit   AuditConfig   `mapstructure:"audit"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	StaticDir       string `mapstructure:"static_dir"`
}

// CatalogConfig selects the seed catalog. An empty SeedFile means the
// built-in catalog.
type CatalogConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // none | stdout
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// --- Audit trail backends ---

type AuditConfig struct {
	// Timeout bounds how long a roster change waits on audit backends.
	Timeout  int                 `mapstructure:"timeout"` // milliseconds
	Postgres PostgresAuditConfig `mapstructure:"postgres"`
	Redis    RedisAuditConfig    `mapstructure:"redis"`
	Kafka    KafkaAuditConfig    `mapstructure:"kafka"`
	SNS      SNSAuditConfig      `mapstructure:"sns"`
	Email    EmailAuditConfig    `mapstructure:"email"`
}

type PostgresAuditConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	PostgresConfig `mapstructure:",squash"`
}

type RedisAuditConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RedisConfig `mapstructure:",squash"`
	Channel     string `mapstructure:"channel"`
	RecentKey   string `mapstructure:"recent_key"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

type KafkaAuditConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// SNSAuditConfig publishes registration events to a topic.
type SNSAuditConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// EmailAuditConfig sends students a confirmation through SES.
type EmailAuditConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	FromEmail string `mapstructure:"from_email"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

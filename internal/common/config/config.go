// internal/common/config/config.go
package config

import "fmt"

// Config is the main suite configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Env           string              `mapstructure:"env"`
	Target        Environment         `mapstructure:"-"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Runner        RunnerConfig        `mapstructure:"runner"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
}

// --- Core App Config ---
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// HTTPConfig tunes the transport. Base URL and timeout always come from Target.
type HTTPConfig struct {
	RetryCount int    `mapstructure:"retry_count"`
	RetryWait  int    `mapstructure:"retry_wait"` // milliseconds
	UserAgent  string `mapstructure:"user_agent"`
	Debug      bool   `mapstructure:"debug"`
}

type RunnerConfig struct {
	Parallelism     int      `mapstructure:"parallelism"`
	Tags            []string `mapstructure:"tags"`
	FailFast        bool     `mapstructure:"fail_fast"`
	ReportDir       string   `mapstructure:"report_dir"`
	ReportFormats   []string `mapstructure:"report_formats"`
	CatalogPath     string   `mapstructure:"catalog_path"`
	DefaultPassword string   `mapstructure:"default_password"`
	ScenarioTimeout int      `mapstructure:"scenario_timeout"` // milliseconds, 0 derives from Target
}

// --- Result storage and caches ---

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TokenTTL int    `mapstructure:"token_ttl"` // seconds
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
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

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// NotificationConfig controls run summaries sent through AWS.
type NotificationConfig struct {
	OnlyOnFailure bool   `mapstructure:"only_on_failure"`
	Region        string `mapstructure:"region"`
	SNS           struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		To        []string `mapstructure:"to"`
	} `mapstructure:"ses"`
}

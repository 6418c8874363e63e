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

// EnvKey is the viper key holding the environment name. It is bound to ENV.
const EnvKey = "env"

// LoadOptions lets callers such as the CLI override the file-and-env sources.
type LoadOptions struct {
	// ConfigFile, when set, is read instead of searching ConfigPaths.
	ConfigFile  string
	ConfigPaths []string
	// Env, when non-empty, wins over the ENV variable and config files.
	Env string
	// SkipDotEnv disables .env discovery (tests).
	SkipDotEnv bool
}

func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	return LoadWithOverrides(LoadOptions{ConfigFile: path})
}

func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	if !opts.SkipDotEnv {
		loadEnvFile()
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(EnvKey, "ENV"); err != nil {
		return nil, fmt.Errorf("bind env key: %w", err)
	}
	registerDefaults(v)

	// 1. base config
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		paths := opts.ConfigPaths
		if len(paths) == 0 {
			paths = defaultConfigPaths()
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}
	}

	if opts.Env != "" {
		v.Set(EnvKey, opts.Env)
	}
	env := v.GetString(EnvKey)

	// 2. per-environment overlay, only when a name was given
	if env != "" && opts.ConfigFile == "" {
		v.SetConfigName("config." + env)
		_ = v.MergeInConfig() // optional
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Env = env
	cfg.Target = Resolve(env)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func defaultConfigPaths() []string {
	paths := []string{"./configs", "."}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, "configs"))
	}
	return paths
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
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

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			// unset variables expand to "" so applyDefaults can fill the key
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// registerDefaults makes every key known to viper so AutomaticEnv can override it.
func registerDefaults(v *viper.Viper) {
	v.SetDefault(EnvKey, "")
	v.SetDefault("app.name", "serverest-suite")
	v.SetDefault("app.version", "dev")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("http.retry_count", 0)
	v.SetDefault("http.retry_wait", 500)
	v.SetDefault("http.user_agent", "serverest-suite")
	v.SetDefault("http.debug", false)

	v.SetDefault("runner.parallelism", 4)
	v.SetDefault("runner.tags", []string{"~@ignore"})
	v.SetDefault("runner.fail_fast", false)
	v.SetDefault("runner.report_dir", "target/reports")
	v.SetDefault("runner.report_formats", []string{"junit", "json"})
	v.SetDefault("runner.catalog_path", "")
	v.SetDefault("runner.default_password", "SenhaSegura@123")
	v.SetDefault("runner.scenario_timeout", 0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.token_ttl", 540)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "serverest_suite")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.max_connections", 5)
	v.SetDefault("postgres.max_idle", 2)
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.index", "serverest-suite-results")

	v.SetDefault("notifications.only_on_failure", true)
	v.SetDefault("notifications.region", "us-east-1")
	v.SetDefault("notifications.sns.enabled", false)
	v.SetDefault("notifications.sns.topic_arn", "")
	v.SetDefault("notifications.ses.enabled", false)
	v.SetDefault("notifications.ses.from_email", "")
	v.SetDefault("notifications.ses.to", []string{})
}

// applyDefaults fills values that a config file may have blanked out.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "serverest-suite"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "serverest-suite"
	}
	if cfg.Runner.ReportDir == "" {
		cfg.Runner.ReportDir = "target/reports"
	}
	if cfg.Runner.DefaultPassword == "" {
		cfg.Runner.DefaultPassword = "SenhaSegura@123"
	}
	if cfg.Redis.TokenTTL == 0 {
		cfg.Redis.TokenTTL = 540
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "serverest-suite-results"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", cfg.Logging.Format)
	}
	if cfg.Runner.Parallelism < 1 {
		return fmt.Errorf("runner.parallelism must be at least 1")
	}
	if cfg.Runner.ScenarioTimeout < 0 {
		return fmt.Errorf("runner.scenario_timeout must not be negative")
	}
	if cfg.HTTP.RetryCount < 0 {
		return fmt.Errorf("http.retry_count must not be negative")
	}
	for _, f := range cfg.Runner.ReportFormats {
		if f != "junit" && f != "json" {
			return fmt.Errorf("runner.report_formats: unknown format %q", f)
		}
	}
	if cfg.Postgres.Enabled && (cfg.Postgres.Host == "" || cfg.Postgres.Database == "" || cfg.Postgres.User == "") {
		return fmt.Errorf("postgres.host, postgres.database and postgres.user are required when postgres is enabled")
	}
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses is required when elasticsearch is enabled")
	}
	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}
	if cfg.Notifications.SES.Enabled && (cfg.Notifications.SES.FromEmail == "" || len(cfg.Notifications.SES.To) == 0) {
		return fmt.Errorf("notifications.ses.from_email and notifications.ses.to are required when ses is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// ScenarioTimeout is the deadline for a whole scenario: the configured value or
// six request timeouts of the resolved target.
func (c *Config) ScenarioTimeout() time.Duration {
	if c.Runner.ScenarioTimeout > 0 {
		return GetDuration(c.Runner.ScenarioTimeout)
	}
	return 6 * c.Target.TimeoutDuration()
}

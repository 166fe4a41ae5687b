package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

// ConfigFileEnv names the environment variable holding an optional YAML config file path.
const ConfigFileEnv = "EXPENSE_CONFIG"

type Config struct {
	PostgresAddress  string `koanf:"postgres.address"`
	PostgresPort     string `koanf:"postgres.port"`
	PostgresDB       string `koanf:"postgres.db"`
	PostgresUsername string `koanf:"postgres.username"`
	PostgresPassword string `koanf:"postgres.password"`
	PostgresSSLMode  string `koanf:"postgres.sslmode"`

	HTTPPort       string `koanf:"http.port"`
	HTTPCORSOrigin string `koanf:"http.corsorigin"`

	AuthSecret   string `koanf:"auth.secret"`
	AuthIssuer   string `koanf:"auth.issuer"`
	AuthAudience string `koanf:"auth.audience"`

	LogLevel string `koanf:"log.level"`

	OperatorWorkers   int `koanf:"operator.workers"`
	OperatorQueueSize int `koanf:"operator.queuesize"`
}

// envSections lists the top-level keys that may be overridden from the environment.
var envSections = []string{"postgres", "http", "auth", "log", "operator"}

// defaults match the docker compose setup.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"postgres.address":   "localhost",
		"postgres.port":      "5433",
		"postgres.db":        "postgres",
		"postgres.username":  "postgres",
		"postgres.password":  "testpassword",
		"postgres.sslmode":   "disable",
		"http.port":          "4000",
		"http.corsorigin":    "*",
		"auth.secret":        "",
		"auth.issuer":        "",
		"auth.audience":      "",
		"log.level":          "info",
		"operator.workers":   4,
		"operator.queuesize": 1000,
	}
}

// ProcessEnvironmentVariables layers defaults, an optional YAML file and the
// environment (POSTGRES_ADDRESS -> postgres.address) into a Config.
func ProcessEnvironmentVariables() (*Config, error) {
	// .env is a local development convenience; absence is fine
	_ = godotenv.Load()

	return Load(os.Getenv(ConfigFileEnv))
}

// Load builds the Config from defaults, the YAML file at path (if any) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// envKey maps SECTION_NAME to section.name and drops variables outside known sections.
func envKey(s string) string {
	section, name, ok := strings.Cut(strings.ToLower(s), "_")
	if !ok || name == "" {
		return ""
	}
	for _, known := range envSections {
		if section == known {
			return section + "." + strings.ReplaceAll(name, "_", "")
		}
	}
	return ""
}

// Validate returns every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid http port '%s': must be a number", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid http port %d: must be between 1 and 65535", port))
	}

	if c.PostgresAddress == "" {
		problems = append(problems, "postgres address cannot be empty")
	}
	if c.PostgresDB == "" {
		problems = append(problems, "postgres database cannot be empty")
	}

	if c.AuthSecret == "" {
		problems = append(problems, "auth secret is required to verify bearer tokens")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.OperatorWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid operator workers %d: must be at least 1", c.OperatorWorkers))
	}
	if c.OperatorQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid operator queue size %d: must be at least 1", c.OperatorQueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// PostgresURL returns the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=" + c.PostgresSSLMode
}

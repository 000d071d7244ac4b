// Package config loads application settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/blogem/loan-approval/models"
)

// Invalid-submission policies
const (
	// InvalidReject renders an error and writes nothing to the ledger
	InvalidReject = "reject"
	// InvalidRecord writes a row with Prediction "Invalid"
	InvalidRecord = "record"
)

// Config holds every runtime setting
type Config struct {
	Port               string `yaml:"port"`
	LedgerPath         string `yaml:"ledger_path"`
	UsersPath          string `yaml:"users_path"`
	AuditDBPath        string `yaml:"audit_db_path"`
	DecisionStrategy   string `yaml:"decision_strategy"`
	ModelPath          string `yaml:"model_path"`
	InvalidSubmissions string `yaml:"invalid_submissions"`
	RequireLogin       bool   `yaml:"require_login"`
	UseHTTPS           bool   `yaml:"use_https"`
	SeedUsers          string `yaml:"seed_users"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogDev    bool   `yaml:"log_dev"`

	OIDC OIDCConfig `yaml:"oidc"`
}

// OIDCConfig holds the optional single sign-on settings
type OIDCConfig struct {
	Domain       string `yaml:"domain"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// Enabled reports whether single sign-on is configured
func (c OIDCConfig) Enabled() bool {
	return c.Domain != ""
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:               "10000",
		LedgerPath:         "predictions.csv",
		UsersPath:          "users.csv",
		AuditDBPath:        "loan_audit.db",
		DecisionStrategy:   "rule",
		ModelPath:          "model/loan_model.yaml",
		InvalidSubmissions: InvalidReject,
		RequireLogin:       true,
		SeedUsers:          "admin:admin123,user:user123",
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.mergeEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the keys present in a YAML file
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays the environment variables that are set
func (c *Config) mergeEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("PORT", &c.Port)
	str("LEDGER_PATH", &c.LedgerPath)
	str("USERS_PATH", &c.UsersPath)
	str("AUDIT_DB_PATH", &c.AuditDBPath)
	str("DECISION_STRATEGY", &c.DecisionStrategy)
	str("MODEL_PATH", &c.ModelPath)
	str("INVALID_SUBMISSIONS", &c.InvalidSubmissions)
	boolean("REQUIRE_LOGIN", &c.RequireLogin)
	boolean("USE_HTTPS", &c.UseHTTPS)
	str("SEED_USERS", &c.SeedUsers)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	boolean("LOG_DEV", &c.LogDev)
	str("OIDC_DOMAIN", &c.OIDC.Domain)
	str("OIDC_CLIENT_ID", &c.OIDC.ClientID)
	str("OIDC_CLIENT_SECRET", &c.OIDC.ClientSecret)
	str("OIDC_CALLBACK_URL", &c.OIDC.CallbackURL)
}

// Validate rejects settings the application cannot start with
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}

	switch c.DecisionStrategy {
	case "rule", "model":
	default:
		return fmt.Errorf("invalid decision strategy %q (must be rule or model)", c.DecisionStrategy)
	}

	switch c.InvalidSubmissions {
	case InvalidReject, InvalidRecord:
	default:
		return fmt.Errorf("invalid submissions policy %q (must be %s or %s)", c.InvalidSubmissions, InvalidReject, InvalidRecord)
	}

	if c.LedgerPath == "" || c.UsersPath == "" {
		return errors.New("ledger and users paths are required")
	}

	if _, err := c.SeedIdentities(); err != nil {
		return err
	}

	return nil
}

// SeedIdentities parses SeedUsers ("name:password,name:password")
func (c Config) SeedIdentities() ([]models.Identity, error) {
	var identities []models.Identity
	for _, pair := range strings.Split(c.SeedUsers, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		username, password, ok := strings.Cut(pair, ":")
		if !ok || username == "" || password == "" {
			return nil, fmt.Errorf("invalid seed user %q (expected name:password)", pair)
		}
		identities = append(identities, models.Identity{Username: username, Password: password})
	}
	return identities, nil
}

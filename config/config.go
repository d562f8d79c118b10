// Package config loads Pushr configuration from defaults, a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/logging"
	"gopkg.in/yaml.v3"
)

// EnvProvider abstracts environment variable access for testing
type EnvProvider interface {
	Getenv(key string) string
	UserHomeDir() (string, error)
}

// DefaultEnvProvider implements EnvProvider using real OS functions
type DefaultEnvProvider struct{}

func (p *DefaultEnvProvider) Getenv(key string) string {
	return os.Getenv(key)
}

func (p *DefaultEnvProvider) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// Config holds configuration for all services
type Config struct {
	// Name identifies this Pushr instance in the info response and in notifications
	Name string

	// Token authorizes trigger requests. Empty disables the HTTP trigger.
	Token string

	// Core paths
	DataDir string

	// Logging
	LogLevel     string
	LogFile      string
	ColorEnabled bool

	// HTTP server
	HTTPHost string
	HTTPPort int

	// Git
	GitBackend domain.GitBackend
	GitTimeout time.Duration

	// Deploy tool
	DeployTimeout time.Duration
	SuccessMode   domain.SuccessMode

	// Watcher (0 disables polling)
	WatcherPollInterval time.Duration

	// History
	HistoryEnabled bool
	DatabasePath   string

	// Notifications
	NotifyURL      string
	NotifyUsername string
	NotifyPassword string
	NotifyTimeout  time.Duration

	Applications []domain.ApplicationConfig

	// Environment provider for testing
	env EnvProvider
}

// fileConfig mirrors the YAML layout of the config file
type fileConfig struct {
	Name     string `yaml:"name"`
	Token    string `yaml:"token"`
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	HTTP     struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"http"`
	Git struct {
		Backend string        `yaml:"backend"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"git"`
	Deploy struct {
		Timeout     time.Duration `yaml:"timeout"`
		SuccessMode string        `yaml:"success_mode"`
	} `yaml:"deploy"`
	Watcher struct {
		PollInterval *time.Duration `yaml:"poll_interval"`
	} `yaml:"watcher"`
	History struct {
		Enabled      *bool  `yaml:"enabled"`
		DatabasePath string `yaml:"database_path"`
	} `yaml:"history"`
	Notify struct {
		URL      string        `yaml:"url"`
		Username string        `yaml:"username"`
		Password string        `yaml:"password"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"notify"`
	Applications []ApplicationFileConfig `yaml:"applications"`
}

// ApplicationFileConfig is one entry of the applications list
type ApplicationFileConfig struct {
	Name          string `yaml:"name"`
	Path          string `yaml:"path"`
	CachedCopy    string `yaml:"cached_copy"`
	Repository    string `yaml:"repository"`
	DeployCommand string `yaml:"deploy_command"`
	// Cap is the legacy Capistrano form: cap.action "deploy" runs "cap deploy"
	Cap *struct {
		Action string `yaml:"action"`
	} `yaml:"cap"`
	GitAuth *struct {
		HTTP *struct {
			Username string `yaml:"username"`
			Password string `yaml:"password"`
		} `yaml:"http"`
		SSH *struct {
			User           string `yaml:"user"`
			PrivateKey     string `yaml:"private_key"`
			PrivateKeyFile string `yaml:"private_key_file"`
		} `yaml:"ssh"`
	} `yaml:"git_auth"`
}

func getDefaultDataDirWithEnv(env EnvProvider) string {
	// Use XDG_DATA_HOME if set, otherwise fallback to ~/.local/share
	xdgDataHome := env.Getenv("XDG_DATA_HOME")
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "pushr")
	}

	homeDir, _ := env.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "pushr")
}

// NewConfig creates a configuration from the YAML file at configPath.
// An empty configPath skips the file and uses defaults and environment variables only.
func NewConfig(configPath string) (*Config, error) {
	return NewConfigWithEnv(configPath, &DefaultEnvProvider{})
}

// NewConfigWithEnv creates a configuration with custom environment provider (for testing)
func NewConfigWithEnv(configPath string, env EnvProvider) (*Config, error) {
	c := &Config{env: env}

	c.setDefaults()

	if configPath != "" {
		if err := c.loadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	c.loadFromEnv()
	c.derivePaths()

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

// setDefaults sets sensible default values
func (c *Config) setDefaults() {
	c.DataDir = getDefaultDataDirWithEnv(c.env)
	c.LogLevel = "info"
	c.ColorEnabled = true
	c.HTTPHost = "127.0.0.1"
	c.HTTPPort = 4567
	c.GitBackend = domain.GitBackendGoGit
	c.GitTimeout = 5 * time.Minute
	c.DeployTimeout = 30 * time.Minute
	c.SuccessMode = domain.SuccessModeOutput
	c.WatcherPollInterval = 0
	c.HistoryEnabled = true
	c.NotifyTimeout = 10 * time.Second
}

func (c *Config) loadFromFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if fc.Name != "" {
		c.Name = fc.Name
	}
	if fc.Token != "" {
		c.Token = fc.Token
	}
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.HTTP.Host != "" {
		c.HTTPHost = fc.HTTP.Host
	}
	if fc.HTTP.Port != 0 {
		c.HTTPPort = fc.HTTP.Port
	}
	if fc.Git.Backend != "" {
		c.GitBackend = domain.GitBackend(fc.Git.Backend)
	}
	if fc.Git.Timeout != 0 {
		c.GitTimeout = fc.Git.Timeout
	}
	if fc.Deploy.Timeout != 0 {
		c.DeployTimeout = fc.Deploy.Timeout
	}
	if fc.Deploy.SuccessMode != "" {
		c.SuccessMode = domain.SuccessMode(fc.Deploy.SuccessMode)
	}
	if fc.Watcher.PollInterval != nil {
		c.WatcherPollInterval = *fc.Watcher.PollInterval
	}
	if fc.History.Enabled != nil {
		c.HistoryEnabled = *fc.History.Enabled
	}
	if fc.History.DatabasePath != "" {
		c.DatabasePath = fc.History.DatabasePath
	}
	if fc.Notify.URL != "" {
		c.NotifyURL = fc.Notify.URL
	}
	if fc.Notify.Username != "" {
		c.NotifyUsername = fc.Notify.Username
	}
	if fc.Notify.Password != "" {
		c.NotifyPassword = fc.Notify.Password
	}
	if fc.Notify.Timeout != 0 {
		c.NotifyTimeout = fc.Notify.Timeout
	}

	apps := make([]domain.ApplicationConfig, 0, len(fc.Applications))
	for i, a := range fc.Applications {
		app, err := a.ToDomain()
		if err != nil {
			return fmt.Errorf("application %d: %w", i, err)
		}
		apps = append(apps, app)
	}
	c.Applications = apps

	return nil
}

// ToDomain converts a file entry into an ApplicationConfig.
// A missing deploy command is left empty; it is reported when the application is deployed.
func (a ApplicationFileConfig) ToDomain() (domain.ApplicationConfig, error) {
	app := domain.ApplicationConfig{
		Name:          a.Name,
		Path:          a.Path,
		CachedCopy:    a.CachedCopy,
		Repository:    a.Repository,
		DeployCommand: a.DeployCommand,
	}

	if app.DeployCommand == "" && a.Cap != nil && a.Cap.Action != "" {
		app.DeployCommand = "cap " + a.Cap.Action
	}

	if a.GitAuth != nil {
		auth := &domain.GitAuthConfig{}
		if a.GitAuth.HTTP != nil {
			auth.HTTPAuth = &domain.GitHTTPAuthConfig{
				Username: a.GitAuth.HTTP.Username,
				Password: a.GitAuth.HTTP.Password,
			}
		}
		if a.GitAuth.SSH != nil {
			key := a.GitAuth.SSH.PrivateKey
			if key == "" && a.GitAuth.SSH.PrivateKeyFile != "" {
				keyBytes, err := os.ReadFile(a.GitAuth.SSH.PrivateKeyFile)
				if err != nil {
					return domain.ApplicationConfig{}, fmt.Errorf("failed to read SSH private key: %w", err)
				}
				key = string(keyBytes)
			}
			auth.SSHAuth = &domain.GitSSHAuthConfig{
				User:       a.GitAuth.SSH.User,
				PrivateKey: key,
			}
		}
		if auth.HTTPAuth != nil || auth.SSHAuth != nil {
			app.GitAuth = auth
		}
	}

	return app, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if v := c.env.Getenv("PUSHR_TOKEN"); v != "" {
		c.Token = v
	}
	if v := c.env.Getenv("PUSHR_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := c.env.Getenv("PUSHR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := c.env.Getenv("PUSHR_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := c.env.Getenv("PUSHR_COLOR_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.ColorEnabled = enabled
		}
	}
	if v := c.env.Getenv("PUSHR_HTTP_HOST"); v != "" {
		c.HTTPHost = v
	}
	if v := c.env.Getenv("PUSHR_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = port
		}
	}
	if v := c.env.Getenv("PUSHR_GIT_BACKEND"); v != "" {
		c.GitBackend = domain.GitBackend(v)
	}
	if v := c.env.Getenv("PUSHR_GIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.GitTimeout = d
		}
	}
	if v := c.env.Getenv("PUSHR_DEPLOY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DeployTimeout = d
		}
	}
	if v := c.env.Getenv("PUSHR_SUCCESS_MODE"); v != "" {
		c.SuccessMode = domain.SuccessMode(v)
	}
	if v := c.env.Getenv("PUSHR_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.WatcherPollInterval = d
		}
	}
	if v := c.env.Getenv("PUSHR_HISTORY_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.HistoryEnabled = enabled
		}
	}
	if v := c.env.Getenv("PUSHR_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := c.env.Getenv("PUSHR_NOTIFY_URL"); v != "" {
		c.NotifyURL = v
	}
	if v := c.env.Getenv("PUSHR_NOTIFY_USERNAME"); v != "" {
		c.NotifyUsername = v
	}
	if v := c.env.Getenv("PUSHR_NOTIFY_PASSWORD"); v != "" {
		c.NotifyPassword = v
	}
}

// derivePaths calculates dependent paths from the base DataDir
func (c *Config) derivePaths() {
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "pushr.db")
	}
}

// validate ensures configuration values are valid
func (c *Config) validate() error {
	if validLevels := logging.ValidLogLevels(); !slices.Contains(validLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of %s)", c.LogLevel, strings.Join(validLevels, ", "))
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d (must be 1-65535)", c.HTTPPort)
	}

	if !c.GitBackend.IsValid() {
		return fmt.Errorf("invalid git backend: %s (must be gogit or cli)", c.GitBackend)
	}

	if c.GitTimeout <= 0 {
		return fmt.Errorf("git timeout must be positive, got: %v", c.GitTimeout)
	}

	if c.DeployTimeout <= 0 {
		return fmt.Errorf("deploy timeout must be positive, got: %v", c.DeployTimeout)
	}

	if !c.SuccessMode.IsValid() {
		return fmt.Errorf("invalid success mode: %s (must be output, exit_code or strict)", c.SuccessMode)
	}

	if c.WatcherPollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative, got: %v", c.WatcherPollInterval)
	}

	if c.NotifyURL != "" && c.NotifyTimeout <= 0 {
		return fmt.Errorf("notify timeout must be positive, got: %v", c.NotifyTimeout)
	}

	return nil
}

// NotificationsEnabled reports whether a notification sink is configured
func (c *Config) NotificationsEnabled() bool {
	return c.NotifyURL != ""
}

// DefaultConfigFile is looked up in the working directory when no config path is given
const DefaultConfigFile = "config.yml"

// ResolveConfigPath picks the config file: the explicit path, then PUSHR_CONFIG,
// then config.yml in the working directory if it exists. Empty means no file.
func ResolveConfigPath(explicit string) string {
	return resolveConfigPathWithEnv(explicit, &DefaultEnvProvider{})
}

func resolveConfigPathWithEnv(explicit string, env EnvProvider) string {
	if explicit != "" {
		return explicit
	}
	if v := env.Getenv("PUSHR_CONFIG"); v != "" {
		return v
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	// Pick up a .env file if one is present; real env vars win.
	_ = godotenv.Load()

	// Start with defaults
	_loaded = &defaultConfig

	configFile := os.Getenv("SHAREPOOL_CONFIG_FILE")
	if configFile == "" {
		configFile = "sharepool.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()
}

// LoadDefault installs the built-in defaults without touching files or env.
func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host: "0.0.0.0",
			Port: 9090,
		},
		Gateway: gatewayConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			ServerURL: "http://localhost:9090",
		},
		Postgres: postgresConfig{
			User:               "postgres",
			Password:           "postgres",
			Host:               "localhost",
			Port:               5432,
			Database:           "sharepool",
			MaxOpenConnections: 10,
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Gateway  gatewayConfig  `yaml:"gateway"`
	Postgres postgresConfig `yaml:"postgres"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type gatewayConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// ServerURL is the base URL of the backend the gateway forwards to.
	ServerURL string `yaml:"server_url"`
}

type postgresConfig struct {
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Database           string `yaml:"database"`
	MaxOpenConnections int    `yaml:"max_open_connections"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Gateway() gatewayConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Gateway
}

func Postgres() postgresConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Postgres
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	// Override with environment variables if present
	if dbHost := os.Getenv("SHAREPOOL_DB_HOST"); dbHost != "" {
		_loaded.Common.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("SHAREPOOL_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("SHAREPOOL_DB_USER"); dbUser != "" {
		_loaded.Common.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("SHAREPOOL_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("SHAREPOOL_DB_NAME"); dbName != "" {
		_loaded.Common.Postgres.Database = dbName
	}

	if httpHost := os.Getenv("SHAREPOOL_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("SHAREPOOL_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	if gwHost := os.Getenv("SHAREPOOL_GATEWAY_HOST"); gwHost != "" {
		_loaded.Common.Gateway.Host = gwHost
	}
	if gwPort := os.Getenv("SHAREPOOL_GATEWAY_PORT"); gwPort != "" {
		if port, err := strconv.Atoi(gwPort); err == nil {
			_loaded.Common.Gateway.Port = port
		}
	}
	if serverURL := os.Getenv("SHAREPOOL_SERVER_URL"); serverURL != "" {
		_loaded.Common.Gateway.ServerURL = serverURL
	}

	if logLevel := os.Getenv("SHAREPOOL_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("SHAREPOOL_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Data        DataConfig       `mapstructure:"data"`
	FRED        FREDConfig       `mapstructure:"fred"`
	FiscalData  FiscalDataConfig `mapstructure:"fiscaldata"`
	Yahoo       YahooConfig      `mapstructure:"yahoo"`
	Pipelines   PipelinesConfig  `mapstructure:"pipelines"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig locates the processed-data directory, the only contract
// between the pipeline layer and the dashboard.
type DataConfig struct {
	ProcessedDir string `mapstructure:"processed_dir"`
}

type FREDConfig struct {
	APIKey  string `mapstructure:"api_key" json:"-" yaml:"-"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

type FiscalDataConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"`
	PageSize int    `mapstructure:"page_size"`
}

type YahooConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

type PipelinesConfig struct {
	// ContinueOnError keeps the driver running after a pipeline fails.
	// The process still exits non-zero when any pipeline failed.
	ContinueOnError bool `mapstructure:"continue_on_error"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("fred.api_key", "FRED_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind FRED_API_KEY environment variable: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	if config.Data.ProcessedDir == "" {
		return nil, errors.New("data.processed_dir must not be empty")
	}

	return &config, nil
}

// RequireFREDKey verifies the FRED credential is present. The pipeline
// driver calls this at startup, before any client is constructed, so a
// missing key never turns into a mid-run network failure.
func (c *Config) RequireFREDKey() error {
	if c.FRED.APIKey == "" {
		return errors.New("FRED_API_KEY environment variable not set")
	}
	return nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8501)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})

	// Data
	viper.SetDefault("data.processed_dir", "data/processed")

	// FRED
	viper.SetDefault("fred.api_key", "")
	viper.SetDefault("fred.base_url", "https://api.stlouisfed.org/fred")
	viper.SetDefault("fred.timeout", 30)

	// FiscalData
	viper.SetDefault("fiscaldata.base_url", "https://api.fiscaldata.treasury.gov/services/api/fiscal_service")
	viper.SetDefault("fiscaldata.timeout", 60)
	viper.SetDefault("fiscaldata.page_size", 5000)

	// Yahoo Finance
	viper.SetDefault("yahoo.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("yahoo.timeout", 30)

	// Pipelines
	viper.SetDefault("pipelines.continue_on_error", true)
}

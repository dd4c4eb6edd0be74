package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) ToSlog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatPlaintext LogFormat = "plaintext"
	LogFormatJSON      LogFormat = "json"
)

type AppEnv string

const (
	AppEnvDev        AppEnv = "dev"
	AppEnvProduction AppEnv = "production"
)

type Config struct {
	App     AppConfig
	Log     LogConfig
	FedEx   FedExConfig
	Shipper ShipperConfig
	Labels  LabelConfig
	Sentry  SentryConfig
	Notify  NotifyConfig
}

type AppConfig struct {
	Name    string `default:"shipbulk"`
	Version string
	Debug   bool
	Env     AppEnv `default:"production"`
}

type LogConfig struct {
	Format  LogFormat `default:"plaintext"`
	Level   LogLevel
	Verbose bool
}

// FedExConfig holds the API credentials and per-account behavior.
// The sandbox URL is the default on purpose: creating real (billed) labels
// should take a deliberate config change.
type FedExConfig struct {
	APIKey          string `mapstructure:"APIKEY"`
	APISecret       string `mapstructure:"APISECRET"`
	ShippingAccount string `mapstructure:"SHIPPINGACCOUNT"`
	BaseURL         string `default:"https://apis-sandbox.fedex.com" mapstructure:"BASEURL"`
	VerifyAddresses bool   `                                         mapstructure:"VERIFYADDRESSES"`
	FallbackPhone   string `default:"5032611266"                     mapstructure:"FALLBACKPHONE"`
}

// ShipperConfig is the fixed sender block stamped on every label.
type ShipperConfig struct {
	PersonName  string `mapstructure:"PERSONNAME"`
	PhoneNumber string `mapstructure:"PHONENUMBER"`
	CompanyName string `mapstructure:"COMPANYNAME"`
	Street      string
	City        string
	State       string
	PostalCode  string `mapstructure:"POSTALCODE"`
	Country     string `default:"US"`
}

type LabelConfig struct {
	Dir       string `default:"labels"`
	StockType string `default:"PAPER_4X6" mapstructure:"STOCKTYPE"`
}

type SentryConfig struct {
	Enabled    bool
	DSN        string
	SampleRate float64
}

// NotifyConfig configures the optional completion e-mail.
type NotifyConfig struct {
	Enabled  bool
	Host     string
	Port     int `default:"587"`
	User     string
	Password string
	From     string
	To       string
}

func (c *Config) IsTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test") ||
		strings.Contains(os.Args[0], "/_test/")
}

// Load the configuration file from the specified filesystem.
// You can specify additional .env files to load, by default this only checks for ".env" in the
// current working directory.
func Load(configFS fs.FS, dotenvFiles ...string) (*Config, error) {
	file, err := configFS.Open("config.toml")
	if err != nil {
		return nil, fmt.Errorf("could not find config.toml in the configFS: %w", err)
	}

	reader := viper.NewWithOptions(viper.KeyDelimiter("_"))
	reader.SetConfigType("toml")

	if err = reader.ReadConfig(file); err != nil {
		return nil, fmt.Errorf("could not load the app configuration: %w", err)
	}

	// Environment override
	err = godotenv.Load(dotenvFiles...)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No .env file found, continuing...")
	} else if err != nil {
		return nil, fmt.Errorf(".env file found, but could not load it: %w", err)
	}
	reader.AutomaticEnv()

	var config Config
	if err := reader.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	if config.FedEx.BaseURL == "" {
		config.FedEx.BaseURL = "https://apis-sandbox.fedex.com"
	}
	if config.FedEx.FallbackPhone == "" {
		config.FedEx.FallbackPhone = "5032611266"
	}
	if config.Labels.Dir == "" {
		config.Labels.Dir = "labels"
	}
	if config.Labels.StockType == "" {
		config.Labels.StockType = "PAPER_4X6"
	}

	if config.App.Debug && !config.IsTest() {
		slog.Warn("APP_DEBUG is turned on, do not run this mode in production!")
	}

	return &config, nil
}

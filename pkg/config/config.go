// Package config loads the ranking service configuration. Values come from
// built-in defaults, then an optional TOML file, then RANKING_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"ranking/pkg/ranking"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

const EnvPrefix = "RANKING"

type Config struct {
	Server   ServerConfig    `toml:"server"`
	Google   GoogleConfig    `toml:"google"`
	Workbook WorkbookConfig  `toml:"workbook"`
	Sheets   ranking.Sheets  `toml:"sheets"`
	Run      RunConfig       `toml:"run"`
	Lock     LockConfig      `toml:"lock"`
	Trace    TraceConfig     `toml:"trace"`
	Columns  ranking.Columns `toml:"columns"`
	Weights  ranking.Weights `toml:"weights"`
}

type ServerConfig struct {
	Host              string   `toml:"host" split_words:"true"`
	Port              int      `toml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout" split_words:"true"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout" split_words:"true"`
}

// Addr is the listen address of the trigger endpoint.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type GoogleConfig struct {
	CredentialsFile   string  `toml:"credentials_file" split_words:"true"`
	CredentialsJSON   string  `toml:"credentials_json" split_words:"true"`
	SpreadsheetID     string  `toml:"spreadsheet_id" split_words:"true"`
	RequestsPerSecond float64 `toml:"requests_per_second" split_words:"true" validate:"gte=0"`
	MaxRetries        int     `toml:"max_retries" split_words:"true" validate:"gte=0,lte=15"`
}

type WorkbookConfig struct {
	Path string `toml:"path" split_words:"true"`
}

type RunConfig struct {
	Timeout Duration `toml:"timeout" split_words:"true"`
}

type LockConfig struct {
	RedisAddr string   `toml:"redis_addr" split_words:"true" validate:"omitempty,hostname_port"`
	RedisKey  string   `toml:"redis_key" split_words:"true"`
	TTL       Duration `toml:"ttl" split_words:"true"`
}

type TraceConfig struct {
	Exporter    string  `toml:"exporter" split_words:"true" validate:"oneof=none stdout"`
	SampleRatio float64 `toml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadHeaderTimeout: Duration{2 * time.Second},
			ShutdownTimeout:   Duration{10 * time.Second},
		},
		Google: GoogleConfig{
			CredentialsFile:   "service_account.json",
			RequestsPerSecond: 1,
			MaxRetries:        5,
		},
		Sheets: ranking.DefaultSheets(),
		Run: RunConfig{
			Timeout: Duration{60 * time.Second},
		},
		Lock: LockConfig{
			RedisKey: "ranking:run-lock",
			TTL:      Duration{2 * time.Minute},
		},
		Trace: TraceConfig{
			Exporter:    "none",
			SampleRatio: 1,
		},
		Columns: ranking.DefaultColumns(),
		Weights: ranking.DefaultWeights(),
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field ranges and the cross-field rules validator tags
// cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch {
	case c.Google.SpreadsheetID == "" && c.Workbook.Path == "":
		return errors.New("one of google.spreadsheet_id or workbook.path is required")
	case c.Google.SpreadsheetID != "" && c.Workbook.Path != "":
		return errors.New("google.spreadsheet_id and workbook.path are mutually exclusive")
	}

	if c.Run.Timeout.Duration <= 0 {
		return errors.New("run.timeout must be positive")
	}
	if c.Lock.RedisAddr != "" && c.Lock.TTL.Duration <= 0 {
		return errors.New("lock.ttl must be positive")
	}

	s := c.Sheets
	if s.Source == "" || s.Individual == "" || s.Group == "" {
		return errors.New("sheet names must not be empty")
	}
	if s.Individual == s.Source || s.Group == s.Source || s.Individual == s.Group {
		return fmt.Errorf("sheets %q, %q and %q must be distinct", s.Source, s.Individual, s.Group)
	}
	return nil
}

// UsesWorkbook reports whether runs go against a local .xlsx file instead
// of Google Sheets.
func (c *Config) UsesWorkbook() bool {
	return c.Workbook.Path != ""
}

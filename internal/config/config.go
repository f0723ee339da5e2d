package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, logging, page fetching, email
// cleaning, output and metrics.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Log contains logging related configurations
	Log struct {
		// Level overrides the environment default log level (debug, info, warn, error)
		Level string `env:"LOG_LEVEL" yaml:"level"`
		// File is the path of the log file written next to console output
		File string `env:"LOG_FILE" env-default:"extractor.log" yaml:"file"`
		// MaxSizeMB is the size in megabytes at which the log file is rotated
		MaxSizeMB int `env:"LOG_MAX_SIZE_MB" env-default:"10" yaml:"maxSizeMb"`
		// MaxBackups is the number of rotated log files to keep
		MaxBackups int `env:"LOG_MAX_BACKUPS" env-default:"3" yaml:"maxBackups"`
		// MaxAgeDays is the number of days rotated log files are kept
		MaxAgeDays int `env:"LOG_MAX_AGE_DAYS" env-default:"30" yaml:"maxAgeDays"`
	} `yaml:"log"`

	// Fetcher contains page fetching related configurations
	Fetcher struct {
		// Timeout bounds a single page request
		Timeout time.Duration `env:"FETCHER_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// Delay is the pause after every page fetch attempt
		Delay time.Duration `env:"FETCHER_DELAY" env-default:"1s" yaml:"delay"`
		// UserAgent is sent with every request
		UserAgent string `env:"FETCHER_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" yaml:"userAgent"` //nolint: lll
		// MaxBodyBytes caps how much of a page body is read
		MaxBodyBytes int64 `env:"FETCHER_MAX_BODY_BYTES" env-default:"2097152" yaml:"maxBodyBytes"`
		// Paths are the page paths requested for every website, in order. Empty uses the built-in list.
		Paths []string `env:"FETCHER_PATHS" yaml:"paths"`
		// RespectRobots makes the fetcher skip paths disallowed by the site's robots.txt
		RespectRobots bool `env:"FETCHER_RESPECT_ROBOTS" env-default:"false" yaml:"respectRobots"`
	} `yaml:"fetcher"`

	// Cleaner contains email exclusion rules. Empty lists use the built-in rules.
	Cleaner struct {
		// Extensions are file extensions (without dot) that disqualify a candidate email
		Extensions []string `env:"CLEANER_EXTENSIONS" yaml:"extensions"`
		// PlaceholderPatterns are regular expressions matching placeholder or test addresses
		PlaceholderPatterns []string `env:"CLEANER_PLACEHOLDER_PATTERNS" yaml:"placeholderPatterns"`
	} `yaml:"cleaner"`

	// Output contains result file related configurations
	Output struct {
		// Path is the CSV file results are written to
		Path string `env:"OUTPUT_PATH" env-default:"emails_extracted_v2.csv" yaml:"path"`
	} `yaml:"output"`

	// Metrics contains metrics related configurations
	Metrics struct {
		// File is the Prometheus textfile written at the end of a run. Empty disables it.
		File string `env:"METRICS_FILE" yaml:"file"`
	} `yaml:"metrics"`
}

// Load returns a filled Config. Values come from the yaml file at configPath
// when it exists, then from environment variables, then from defaults. A
// missing file is not an error.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("could not stat config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}

// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/chaincore/params"
	"github.com/kelseyhightower/envconfig"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "chaincore.config"

const envPrefix = "chaincore"

var ErrInvalidConfig = errors.New("invalid config")

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	DatabasePath     string `yaml:"databasePath"     split_words:"true"`
	CompressionLevel string `yaml:"compressionLevel" split_words:"true"`
	Discrimination   string `yaml:"discrimination"`
	MetricsFile      string `yaml:"metricsFile"      split_words:"true"`
	BlockCacheSize   uint64 `yaml:"blockCacheSize"   split_words:"true"`
	IndexCacheSize   uint64 `yaml:"indexCacheSize"   split_words:"true"`
	GcEnabled        bool   `yaml:"gcEnabled"        split_words:"true"`
	EnableEvm        bool   `yaml:"enableEvm"        split_words:"true"`
	Tracing          bool   `yaml:"tracing"`
	TracingStdout    bool   `yaml:"tracingStdout"    split_words:"true"`
}

// DefaultConfig returns a copy of the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:     ".chaincore",
		CompressionLevel: "default",
		Discrimination:   "production",
		BlockCacheSize:   256 << 20,
		IndexCacheSize:   64 << 20,
		GcEnabled:        true,
	}
}

var globalConfig = DefaultConfig()

// Validate checks the enumerated fields
func (c *Config) Validate() error {
	if _, err := c.ZstdLevel(); err != nil {
		return err
	}
	if _, err := c.DiscriminationValue(); err != nil {
		return err
	}
	return nil
}

// ZstdLevel maps the configured compression level name onto a zstd level
func (c *Config) ZstdLevel() (zstd.EncoderLevel, error) {
	switch c.CompressionLevel {
	case "fastest":
		return zstd.SpeedFastest, nil
	case "", "default":
		return zstd.SpeedDefault, nil
	case "better":
		return zstd.SpeedBetterCompression, nil
	case "best":
		return zstd.SpeedBestCompression, nil
	default:
		return 0, fmt.Errorf(
			"%w: compressionLevel %q (must be 'fastest', 'default', 'better', or 'best')",
			ErrInvalidConfig,
			c.CompressionLevel,
		)
	}
}

// DiscriminationValue maps the configured network name onto an address
// discrimination
func (c *Config) DiscriminationValue() (params.Discrimination, error) {
	switch c.Discrimination {
	case "", "production":
		return params.DiscriminationProduction, nil
	case "test":
		return params.DiscriminationTest, nil
	default:
		return 0, fmt.Errorf(
			"%w: discrimination %q (must be 'production' or 'test')",
			ErrInvalidConfig,
			c.Discrimination,
		)
	}
}

// DecodeOptions returns the parameter decode capabilities the config
// enables
func (c *Config) DecodeOptions() []params.DecodeOptionFunc {
	return []params.DecodeOptionFunc{params.WithEvmEnabled(c.EnableEvm)}
}

// LoadConfig overlays the YAML config file and then the environment onto
// the defaults. Without an explicit file the user and system locations are
// tried in turn.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		// Check for config file in this path: ~/.chaincore/chaincore.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".chaincore", "chaincore.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/chaincore/chaincore.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/chaincore/chaincore.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	if err := envconfig.Process(envPrefix, globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := globalConfig.Validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}

/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads the caller-facing Config (TLS options, redirect
// budget, default User-Agent, log level, metrics toggle) from YAML via viper,
// validates it, and optionally hot-reloads on file change.
package config

import (
	"fmt"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	libval "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sabouaram/gohttpcli/certificates"
)

// Config is the top-level, file-loaded configuration for a gohttpcli
// deployment: TLS trust, redirect policy, and a default outbound header.
type Config struct {
	TLS             certificates.Config `mapstructure:"tls"`
	RedirectBudget  int                 `mapstructure:"redirectBudget" validate:"gte=0,lte=100"`
	UserAgent       string              `mapstructure:"userAgent" validate:"omitempty,printascii"`
	LogLevel        string              `mapstructure:"logLevel" validate:"omitempty,oneof=panic fatal error warn info debug trace"`
	MetricsEnabled  bool                `mapstructure:"metricsEnabled"`
}

// Default returns the zero-configuration Config: system trust store, the
// spec's default redirect budget, info logging, no metrics, no UA override.
func Default() Config {
	return Config{RedirectBudget: 10, LogLevel: "info"}
}

// Validate runs struct-tag validation, then delegates TLS validation.
func (c *Config) Validate() error {
	if err := libval.New().Struct(c); err != nil {
		if ve, ok := err.(libval.ValidationErrors); ok {
			return fmt.Errorf("config: invalid: %w", ve)
		}
		return err
	}
	return c.TLS.Validate()
}

// Load reads path (YAML, JSON, or TOML, detected by viper from extension)
// through viper, decodes it with mapstructure on top of Default(), and
// validates the result. "~" in path is expanded via go-homedir.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(expanded)
	v.SetConfigType(configType(expanded))

	if err = v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err = v.Unmarshal(&cfg, viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
	})); err != nil {
		return cfg, err
	}

	if err = cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func configType(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

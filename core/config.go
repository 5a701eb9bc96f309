/*
 * Copyright (C) 2025 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package core

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const defaultConfigFile = "nuts-wallet.yaml"
const configFileFlag = "configfile"

const defaultPrefix = "NUTS_WALLET_"
const defaultDelimiter = "."
const configValueListSeparator = ","

// Config holds the global settings of the wallet engine.
// Module settings (issuance, presentation, attestation) are injected into their own structs using InjectInto.
type Config struct {
	Verbosity    string     `koanf:"verbosity"`
	LoggerFormat string     `koanf:"loggerformat"`
	Strictmode   bool       `koanf:"strictmode"`
	HTTP         HTTPConfig `koanf:"http"`
	configMap    *koanf.Koanf
}

// HTTPConfig contains the settings for outbound HTTP calls.
type HTTPConfig struct {
	// Timeout is the maximum duration of a single HTTP request.
	Timeout time.Duration `koanf:"timeout"`
}

// NewConfig creates an initialized empty config
func NewConfig() *Config {
	return &Config{
		configMap: koanf.New(defaultDelimiter),
	}
}

// FlagSet returns the global flags
func FlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("wallet", pflag.ContinueOnError)
	flagSet.String(configFileFlag, defaultConfigFile, "Wallet config file")
	flagSet.String("verbosity", "info", "Log level (trace, debug, info, warn, error)")
	flagSet.String("loggerformat", "text", "Log format (text, json)")
	flagSet.Bool("strictmode", true, "When set, insecure settings are forbidden: all outbound calls must use HTTPS to public hosts.")
	flagSet.Duration("http.timeout", 30*time.Second, "Timeout for outbound HTTP requests.")
	return flagSet
}

// Load loads the config following the load order of defaults, configfile, env vars and then commandline params.
// It also configures logging.
func (c *Config) Load(flags *pflag.FlagSet) error {
	if err := c.loadConfigMap(flags); err != nil {
		return err
	}
	if err := c.configMap.UnmarshalWithConf("", c, koanf.UnmarshalConf{
		FlatPaths: false,
	}); err != nil {
		return err
	}

	lvl, err := logrus.ParseLevel(c.Verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	switch c.LoggerFormat {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid formatter: '%s'", c.LoggerFormat)
	}
	return nil
}

// InjectInto unmarshals the config section identified by key into target.
func (c *Config) InjectInto(key string, target interface{}) error {
	return c.configMap.UnmarshalWithConf(key, target, koanf.UnmarshalConf{
		FlatPaths: false,
	})
}

// PrintConfig return the current config in string form
func (c *Config) PrintConfig() string {
	return c.configMap.Sprint()
}

// loadConfigMap populates the configMap with values from the config file, environment and pFlags
func (c *Config) loadConfigMap(flags *pflag.FlagSet) error {
	if err := loadFromFlagSet(c.configMap, flags); err != nil {
		return err
	}
	if err := loadFromFile(c.configMap, resolveConfigFilePath(flags)); err != nil {
		return err
	}
	if err := loadFromEnv(c.configMap); err != nil {
		return err
	}
	// flags explicitly set on the command line take precedence over everything
	return loadFromFlagSet(c.configMap, flags)
}

// resolveConfigFilePath resolves the path of the config file using the following sources:
// 1. commandline params (using the given flags)
// 2. environment vars,
// 3. default location.
func resolveConfigFilePath(flags *pflag.FlagSet) string {
	k := koanf.New(defaultDelimiter)
	_ = k.Load(env.Provider(defaultPrefix, defaultDelimiter, envKey), nil)
	_ = k.Load(posflag.Provider(flags, defaultDelimiter, k), nil)
	return k.String(configFileFlag)
}

func envKey(rawKey string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(rawKey, defaultPrefix)), "_", defaultDelimiter, -1)
}

func loadFromFile(configMap *koanf.Koanf, filepath string) error {
	if filepath == "" {
		return nil
	}
	if err := configMap.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func loadFromEnv(configMap *koanf.Koanf) error {
	e := env.ProviderWithValue(defaultPrefix, defaultDelimiter, func(rawKey string, rawValue string) (string, interface{}) {
		key := envKey(rawKey)

		// Support multiple values separated by a comma
		if strings.Contains(rawValue, configValueListSeparator) {
			values := strings.Split(rawValue, configValueListSeparator)
			for i, value := range values {
				values[i] = strings.TrimSpace(value)
			}
			return key, values
		}
		return key, rawValue
	})
	// errors can't occur for this provider
	return configMap.Load(e, nil)
}

func loadFromFlagSet(configMap *koanf.Koanf, flags *pflag.FlagSet) error {
	return configMap.Load(posflag.Provider(flags, defaultDelimiter, configMap), nil)
}

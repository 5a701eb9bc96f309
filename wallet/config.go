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

package wallet

import (
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/holder"
	"github.com/nuts-foundation/nuts-wallet/openid4vp"
)

// Config is the complete configuration of the wallet engine.
type Config struct {
	core.Config
	Crypto       nutsCrypto.Config
	Issuance     holder.Config
	Presentation openid4vp.Config
	Attestation  attestation.Config
}

// DefaultConfig returns the configuration with default values for every module.
func DefaultConfig() Config {
	return Config{
		Config: core.Config{
			Verbosity:    "info",
			LoggerFormat: "text",
			Strictmode:   true,
			HTTP:         core.HTTPConfig{Timeout: defaultHTTPTimeout},
		},
		Crypto:       nutsCrypto.DefaultConfig(),
		Issuance:     holder.DefaultConfig(),
		Presentation: openid4vp.DefaultConfig(),
		Attestation:  attestation.DefaultConfig(),
	}
}

// LoadConfig reads the module sections from the loaded global config, on top of their defaults.
func LoadConfig(global *core.Config) (Config, error) {
	result := DefaultConfig()
	result.Config = *global
	sections := map[string]interface{}{
		nutsCrypto.ConfigKey:  &result.Crypto,
		holder.ConfigKey:      &result.Issuance,
		openid4vp.ConfigKey:   &result.Presentation,
		attestation.ConfigKey: &result.Attestation,
	}
	for key, target := range sections {
		if err := global.InjectInto(key, target); err != nil {
			return Config{}, core.ConfigurationError(fmt.Errorf("invalid %s config: %w", key, err))
		}
	}
	return result, nil
}

// Validate checks the settings that can't be checked by the individual modules when they're created.
func (c Config) Validate() error {
	switch c.Issuance.MetadataPolicy {
	case holder.StrictMetadataPolicy, holder.RelaxedMetadataPolicy:
	default:
		return fmt.Errorf("invalid issuance.metadatapolicy: %s", c.Issuance.MetadataPolicy)
	}
	if c.Issuance.ClientID == "" {
		return errors.New("issuance.clientid is required")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	return c.Presentation.Validate()
}

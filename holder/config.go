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

package holder

import "time"

// ConfigKey is the key of the issuance section in the wallet configuration.
const ConfigKey = "issuance"

// MetadataPolicy controls the validation of issuer metadata.
type MetadataPolicy string

const (
	// StrictMetadataPolicy requires the issuer identifiers in the metadata to equal the identifiers they were fetched for.
	StrictMetadataPolicy MetadataPolicy = "strict"
	// RelaxedMetadataPolicy skips the identifier checks.
	RelaxedMetadataPolicy MetadataPolicy = "relaxed"
)

// Config holds the settings of credential issuance.
type Config struct {
	// ClientID is the OAuth client ID of the wallet.
	ClientID string `koanf:"clientid"`
	// RedirectURI is the redirect_uri for the authorization code flow, used when the browser session doesn't provide one.
	RedirectURI string `koanf:"redirecturi"`
	// MetadataPolicy is either strict or relaxed.
	MetadataPolicy MetadataPolicy `koanf:"metadatapolicy"`
	// DPoP enables sender-constrained access tokens when the authorization server supports them.
	DPoP bool       `koanf:"dpop"`
	Poll PollConfig `koanf:"poll"`
}

// PollConfig controls polling of deferred credentials.
type PollConfig struct {
	// Interval is the time to wait between polls, unless the issuer specifies an interval.
	Interval time.Duration `koanf:"interval"`
	// MaxAttempts is the maximum number of polls. 0 means polling continues until the credential is issued or the context is cancelled.
	MaxAttempts uint `koanf:"maxattempts"`
}

// DefaultConfig returns the default issuance settings.
func DefaultConfig() Config {
	return Config{
		ClientID:       "wallet-dev",
		RedirectURI:    "eudi-openid4ci://authorize",
		MetadataPolicy: StrictMetadataPolicy,
		DPoP:           true,
		Poll: PollConfig{
			Interval:    5 * time.Second,
			MaxAttempts: 12,
		},
	}
}

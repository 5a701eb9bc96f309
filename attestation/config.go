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

package attestation

// ConfigKey is the key of the attestation section in the wallet configuration.
const ConfigKey = "attestation"

// Config holds the settings of the wallet attestation.
type Config struct {
	// BackendURL is the base URL of the wallet provider that issues wallet attestations.
	BackendURL string `koanf:"backendurl"`
	// ClientID is the OAuth client ID of the wallet, as registered at the wallet provider.
	ClientID string `koanf:"clientid"`
	// Platform selects the wallet provider's device attestation endpoint (e.g. ios).
	Platform string `koanf:"platform"`
}

// DefaultConfig returns the default attestation settings.
func DefaultConfig() Config {
	return Config{
		BackendURL: "https://dev.wallet-provider.eudiw.dev",
		ClientID:   "wallet-dev",
		Platform:   "ios",
	}
}

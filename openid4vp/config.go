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

package openid4vp

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
)

// ConfigKey is the key of the presentation section in the wallet configuration.
const ConfigKey = "presentation"

// Config holds the settings of credential presentation.
type Config struct {
	// Digest is the hash algorithm for sd_hash (sha-256 or sha3-256).
	Digest string `koanf:"digest"`
	// TrustAnchors contains paths to PEM files with the root certificates of verifiers using an X.509 client_id scheme.
	TrustAnchors []string `koanf:"trustanchors"`
	// Verifiers contains the pre-registered verifiers.
	Verifiers []VerifierConfig `koanf:"verifiers"`
}

// VerifierConfig describes a pre-registered verifier.
type VerifierConfig struct {
	ClientID string `koanf:"clientid"`
	// Algorithm is the JWS algorithm the verifier signs request objects with.
	Algorithm string `koanf:"algorithm"`
	// JWKS contains the verifier's keys as JWK set (JSON). Either JWKS or JWKSURI must be set.
	JWKS string `koanf:"jwks"`
	// JWKSURI is where the verifier's JWK set is retrieved.
	JWKSURI string `koanf:"jwksuri"`
}

// DefaultConfig returns the default presentation settings.
func DefaultConfig() Config {
	return Config{
		Digest: hash.SHA256.String(),
		Verifiers: []VerifierConfig{
			{
				ClientID:  "dev.verifier-backend.eudiw.dev",
				Algorithm: "RS256",
				JWKSURI:   "https://dev.verifier-backend.eudiw.dev/wallet/public-keys.json",
			},
		},
	}
}

// Validate checks the digest and the pre-registered verifiers.
func (c Config) Validate() error {
	if _, err := hash.ParseDigest(c.Digest); err != nil {
		return err
	}
	for _, verifier := range c.Verifiers {
		if verifier.ClientID == "" {
			return errors.New("pre-registered verifier without clientid")
		}
		if verifier.JWKS == "" && verifier.JWKSURI == "" {
			return fmt.Errorf("pre-registered verifier has neither jwks nor jwksuri (client_id=%s)", verifier.ClientID)
		}
	}
	return nil
}

// LoadTrustAnchors reads the trust anchor PEM files into a certificate pool.
// It returns nil if no trust anchors are configured.
func (c Config) LoadTrustAnchors() (*x509.CertPool, error) {
	if len(c.TrustAnchors) == 0 {
		return nil, nil
	}
	pool := x509.NewCertPool()
	for _, file := range c.TrustAnchors {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read trust anchors: %w", err)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("no certificates found in trust anchor file (file=%s)", file)
		}
	}
	return pool, nil
}

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

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/oauth"
)

// PoPType is the typ header of a client attestation proof-of-possession JWT.
const PoPType = "oauth-client-attestation-pop+jwt"

// popLifetime is the validity of a client attestation PoP JWT.
const popLifetime = 300 * time.Second

var nowFunc = time.Now

// ClientAttestation is an attestation JWT together with the key it was issued for,
// used to authenticate the wallet at an authorization server (OAuth 2.0 Attestation-Based Client Authentication).
type ClientAttestation struct {
	// ClientID is the client ID the attestation was issued to.
	ClientID string
	// Attestation is the wallet attestation JWT.
	Attestation string
	// Key is the key the attestation is bound to, which signs the PoP.
	Key nutsCrypto.PrivateKeyHandle
}

// PoP creates a proof-of-possession JWT for the attestation, to be sent to the given audience (the authorization server's issuer).
// The nonce is optional.
func (c ClientAttestation) PoP(audience string, nonce string) (string, error) {
	if c.Key == nil {
		return "", errors.New("client attestation has no key")
	}
	now := nowFunc()
	claims := map[string]interface{}{
		jwt.IssuerKey:     c.ClientID,
		jwt.AudienceKey:   audience,
		jwt.JwtIDKey:      uuid.NewString(),
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: now.Add(popLifetime).Unix(),
	}
	if nonce != "" {
		claims[oauth.NonceParam] = nonce
	}
	headers := map[string]interface{}{
		jws.TypeKey: PoPType,
	}
	return nutsCrypto.SignJWT(c.Key, claims, headers)
}

// Apply adds the attestation and a fresh PoP to the request headers.
func (c ClientAttestation) Apply(request *http.Request, audience string, nonce string) error {
	pop, err := c.PoP(audience, nonce)
	if err != nil {
		return err
	}
	request.Header.Set(oauth.ClientAttestationHeader, c.Attestation)
	request.Header.Set(oauth.ClientAttestationPoPHeader, pop)
	return nil
}

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

package dpop

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
)

const (
	// ATHKey is the claim key of the ath JWT claim for a DPoP token
	ATHKey = "ath"
	// NonceKey is the claim key of the server provided nonce
	NonceKey = "nonce"
	// DPopType is the value of the typ JWT header for a DPoP token
	DPopType = "dpop+jwt"
	HTMKey   = "htm"
	HTUKey   = "htu"
)

// supportedAlgorithms lists the algorithms a DPoP proof may be signed with.
var supportedAlgorithms = []jwa.SignatureAlgorithm{jwa.ES256, jwa.ES384, jwa.ES512, jwa.PS256, jwa.PS384, jwa.PS512, jwa.RS256}

var nowFunc = time.Now

// DPoP represents a DPoP proof for a single HTTP request.
type DPoP struct {
	raw     string
	Headers jws.Headers
	Token   jwt.Token
}

// ErrInvalidDPoP is returned when a DPoP token is invalid
var ErrInvalidDPoP = errors.New("invalid DPoP token")

// New creates a new DPoP proof for the given http request.
// The htu claim is the request URL without query and fragment.
func New(request http.Request) *DPoP {
	result := DPoP{}
	result.Token = jwt.New()
	// errors won't occur
	_ = result.Token.Set(HTMKey, request.Method)
	_ = result.Token.Set(HTUKey, targetURI(request.URL))
	_ = result.Token.Set(jwt.JwtIDKey, uuid.NewString())
	_ = result.Token.Set(jwt.IssuedAtKey, nowFunc())

	result.Headers = jws.NewHeaders()
	_ = result.Headers.Set(jws.TypeKey, DPopType)

	return &result
}

func targetURI(u *url.URL) string {
	if u == nil {
		return ""
	}
	stripped := *u
	stripped.RawQuery = ""
	stripped.Fragment = ""
	return stripped.String()
}

// WithNonce sets the nonce the server provided through the DPoP-Nonce header.
func (t *DPoP) WithNonce(nonce string) *DPoP {
	if nonce != "" {
		_ = t.Token.Set(NonceKey, nonce)
	}
	return t
}

// GenerateProof binds the DPoP proof to the access token.
// It sets the ath claim to the base64 encoded SHA256 hash of the access token
func (t *DPoP) GenerateProof(accessToken string) *DPoP {
	accessTokenHash := hash.SHA256Sum([]byte(accessToken))
	_ = t.Token.Set(ATHKey, base64.RawURLEncoding.EncodeToString(accessTokenHash.Slice()))
	return t
}

// Sign the DPoP token with the given key
// It also adds the jwk and alg header
func (t *DPoP) Sign(key crypto.Signer, alg jwa.SignatureAlgorithm) (string, error) {
	if t.raw != "" {
		return "", errors.New("already signed")
	}
	publicKeyJWK, err := jwk.FromRaw(key.Public())
	if err != nil {
		return "", err
	}
	_ = publicKeyJWK.Set(jwk.AlgorithmKey, alg)
	_ = t.Headers.Set(jws.JWKKey, publicKeyJWK)

	sig, err := jwt.Sign(t.Token, jwt.WithKey(alg, key, jws.WithProtectedHeaders(t.Headers)))
	if err != nil {
		return "", err
	}
	t.raw = string(sig)

	return t.raw, nil
}

// Parse parses a DPoP token from a string.
// The token is validated for the required claims and headers.
func Parse(s string) (*DPoP, error) {
	message, err := jws.ParseString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidDPoP, err)
	}
	// we require exactly one signature
	if len(message.Signatures()) != 1 {
		return nil, fmt.Errorf("%w: invalid number of signatures", ErrInvalidDPoP)
	}
	headers := message.Signatures()[0].ProtectedHeaders()
	if !slices.Contains(supportedAlgorithms, headers.Algorithm()) {
		return nil, fmt.Errorf("%w: invalid alg: %s", ErrInvalidDPoP, headers.Algorithm())
	}
	if headers.Type() != DPopType {
		return nil, fmt.Errorf("%w: invalid type: %s", ErrInvalidDPoP, headers.Type())
	}
	if headers.JWK() == nil {
		return nil, fmt.Errorf("%w: missing jwk header", ErrInvalidDPoP)
	}
	if jwkIsPrivateKey(headers.JWK()) {
		return nil, fmt.Errorf("%w: invalid jwk header", ErrInvalidDPoP)
	}
	token, err := jwt.ParseString(s, jwt.WithKey(headers.Algorithm(), headers.JWK()))
	if err != nil {
		return nil, errors.Join(ErrInvalidDPoP, err)
	}
	if token.IssuedAt().IsZero() {
		return nil, fmt.Errorf("%w: missing iat claim", ErrInvalidDPoP)
	}
	if v, ok := token.Get(HTUKey); !ok || v == "" {
		return nil, fmt.Errorf("%w: missing htu claim", ErrInvalidDPoP)
	}
	if v, ok := token.Get(HTMKey); !ok || v == "" {
		return nil, fmt.Errorf("%w: missing htm claim", ErrInvalidDPoP)
	}
	if token.JwtID() == "" {
		return nil, fmt.Errorf("%w: missing jti claim", ErrInvalidDPoP)
	}
	return &DPoP{raw: s, Token: token, Headers: headers}, nil
}

func jwkIsPrivateKey(jwk jwk.Key) bool {
	// we try to parse it as different private keys, if there's no error, it's a private key
	var rsaPrivateKey rsa.PrivateKey
	if err := jwk.Raw(&rsaPrivateKey); err == nil {
		return true
	}
	var ecPrivateKey ecdsa.PrivateKey
	if err := jwk.Raw(&ecPrivateKey); err == nil {
		return true
	}
	var edPrivateKey ed25519.PrivateKey
	if err := jwk.Raw(&edPrivateKey); err == nil {
		return true
	}
	return false
}

// HTU returns the htu claim of the DPoP token
func (t DPoP) HTU() string {
	return t.stringClaim(HTUKey)
}

// HTM returns the htm claim of the DPoP token
func (t DPoP) HTM() string {
	return t.stringClaim(HTMKey)
}

// Nonce returns the nonce claim of the DPoP token
func (t DPoP) Nonce() string {
	return t.stringClaim(NonceKey)
}

// ATH returns the access token hash claim of the DPoP token
func (t DPoP) ATH() string {
	return t.stringClaim(ATHKey)
}

func (t DPoP) stringClaim(key string) string {
	if v, ok := t.Token.Get(key); ok {
		s, _ := v.(string)
		return s
	}
	return ""
}

func (t DPoP) String() string {
	return t.raw
}

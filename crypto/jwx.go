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

package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrUnsupportedSigningKey is returned when an unsupported private key is used to sign. Currently only ecdsa and rsa keys are supported
var ErrUnsupportedSigningKey = errors.New("signing key algorithm not supported")

// SignJWT signs claims with the given key handle and returns the compacted token.
// The headers param can be used to add additional protected headers (e.g. typ, jwk or kid).
func SignJWT(key PrivateKeyHandle, claims map[string]interface{}, headers map[string]interface{}) (string, error) {
	return SignJWTWithSigner(key, key.Algorithm(), claims, headers)
}

// SignJWTWithSigner is like SignJWT, but signs with a signer that isn't held by the KeyStore (e.g. an external DID or X.509 key).
func SignJWTWithSigner(signer crypto.Signer, alg jwa.SignatureAlgorithm, claims map[string]interface{}, headers map[string]interface{}) (string, error) {
	if err := checkSigner(signer, alg); err != nil {
		return "", err
	}
	t := jwt.New()
	for k, v := range claims {
		if err := t.Set(k, v); err != nil {
			return "", fmt.Errorf("invalid claim %s: %w", k, err)
		}
	}
	hdr, err := convertHeaders(headers)
	if err != nil {
		return "", err
	}
	sig, err := jwt.Sign(t, jwt.WithKey(alg, signer, jws.WithProtectedHeaders(hdr)))
	if err != nil {
		return "", err
	}
	return string(sig), nil
}

// PublicJWK returns the public key of the handle as JWK, with kid, alg and use set.
func PublicJWK(key PrivateKeyHandle) (jwk.Key, error) {
	result, err := jwk.FromRaw(key.Public())
	if err != nil {
		return nil, err
	}
	if err = result.Set(jwk.KeyIDKey, key.KID()); err != nil {
		return nil, err
	}
	if err = result.Set(jwk.AlgorithmKey, key.Algorithm()); err != nil {
		return nil, err
	}
	if err = result.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, err
	}
	return result, nil
}

// JWTKidAlg parses a JWT, does not validate it and returns the 'kid' and 'alg' headers
func JWTKidAlg(tokenString string) (string, jwa.SignatureAlgorithm, error) {
	j, err := jws.ParseString(tokenString)
	if err != nil {
		return "", "", err
	}
	if len(j.Signatures()) != 1 {
		return "", "", errors.New("incorrect amount of signatures in JWT")
	}
	hdrs := j.Signatures()[0].ProtectedHeaders()
	return hdrs.KeyID(), hdrs.Algorithm(), nil
}

// PublicKeyFunc defines a function that resolves a public key based on a kid
type PublicKeyFunc func(kid string) (crypto.PublicKey, error)

// ParseJWT parses a token, validates and verifies it.
func ParseJWT(tokenString string, f PublicKeyFunc, options ...jwt.ParseOption) (jwt.Token, error) {
	kid, alg, err := JWTKidAlg(tokenString)
	if err != nil {
		return nil, err
	}
	key, err := f(kid)
	if err != nil {
		return nil, err
	}
	options = append(options, jwt.WithKey(alg, key), jwt.WithValidate(true))
	return jwt.ParseString(tokenString, options...)
}

func convertHeaders(headers map[string]interface{}) (jws.Headers, error) {
	hdr := jws.NewHeaders()
	for k, v := range headers {
		if err := hdr.Set(k, v); err != nil {
			return nil, fmt.Errorf("invalid header %s: %w", k, err)
		}
	}
	return hdr, nil
}

func checkSigner(signer crypto.Signer, alg jwa.SignatureAlgorithm) error {
	switch pub := signer.Public().(type) {
	case *ecdsa.PublicKey:
		expected, err := ecAlg(pub)
		if err != nil {
			return err
		}
		if expected != alg {
			return fmt.Errorf("%w: %s key can't sign %s", ErrUnsupportedSigningKey, expected, alg)
		}
	case *rsa.PublicKey:
		if alg != jwa.RS256 && alg != jwa.PS256 && alg != jwa.RS384 && alg != jwa.PS384 && alg != jwa.RS512 && alg != jwa.PS512 {
			return fmt.Errorf("%w: RSA key can't sign %s", ErrUnsupportedSigningKey, alg)
		}
	default:
		return ErrUnsupportedSigningKey
	}
	return nil
}

func ecAlg(key *ecdsa.PublicKey) (alg jwa.SignatureAlgorithm, err error) {
	switch key.Params().BitSize {
	case 256:
		alg = jwa.ES256
	case 384:
		alg = jwa.ES384
	case 521:
		alg = jwa.ES512
	default:
		err = ErrUnsupportedSigningKey
	}
	return
}

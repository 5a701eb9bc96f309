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
	"context"
	"crypto"
	"errors"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// ErrKeyNotFound is returned when the key should exist but does not.
var ErrKeyNotFound = errors.New("key not found")

// ErrKeyGenerationFailed is returned when the key store rejects a key generation request.
var ErrKeyGenerationFailed = errors.New("key generation failed")

// ErrUnsupportedAlgorithm is returned when a key is requested for an algorithm the key store can't generate.
var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// PrivateKeyHandle is an opaque reference to a private key held by a KeyStore.
// It can sign and expose its public key, but never the private key material itself.
type PrivateKeyHandle interface {
	crypto.Signer
	// KID returns the identifier of the key in the key store.
	KID() string
	// Algorithm returns the JWA signature algorithm the key was generated for.
	Algorithm() jwa.SignatureAlgorithm
}

// KeyStore is the secure storage backend for private keys, e.g. a platform keychain or secure enclave.
type KeyStore interface {
	// New generates a new key pair for the given algorithm and stores it under the given key ID.
	New(ctx context.Context, alg jwa.SignatureAlgorithm, kid string) (PrivateKeyHandle, error)
	// Resolve returns the handle of a previously generated key.
	// It returns ErrKeyNotFound if the key does not exist.
	Resolve(ctx context.Context, kid string) (PrivateKeyHandle, error)
	// Delete removes the key from the store.
	Delete(ctx context.Context, kid string) error
}

// KeyMaterialProvider generates signing keys and proof-of-possession binding keys.
type KeyMaterialProvider interface {
	// GenerateSigningKeyPair generates a new key pair (ES256 or RS256) and returns its public key as JWK.
	GenerateSigningKeyPair(ctx context.Context, alg jwa.SignatureAlgorithm) (jwk.Key, error)
	// GenerateBindingKey generates a new EC P-256 key and wraps it as JWK-proof binding key.
	GenerateBindingKey(ctx context.Context) (BindingKey, error)
	// Resolve returns the private key handle of a key generated earlier.
	Resolve(ctx context.Context, kid string) (PrivateKeyHandle, error)
}

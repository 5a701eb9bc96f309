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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/crypto/log"
)

const rsaKeySize = 2048

var _ KeyStore = (*MemoryKeyStore)(nil)

// MemoryKeyStore is a KeyStore that keeps private keys in process memory.
// It's meant for the CLI shell and tests; mobile shells provide a KeyStore backed by the platform's secure hardware.
type MemoryKeyStore struct {
	keys map[string]*keyHandle
	mux  sync.RWMutex
}

// NewMemoryKeyStore creates an empty in-memory key store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: map[string]*keyHandle{}}
}

func (m *MemoryKeyStore) New(_ context.Context, alg jwa.SignatureAlgorithm, kid string) (PrivateKeyHandle, error) {
	signer, err := generateKeyPair(alg)
	if err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, exists := m.keys[kid]; exists {
		return nil, core.WrapError(ErrKeyGenerationFailed, fmt.Errorf("key already exists (kid=%s)", kid))
	}
	key := &keyHandle{kid: kid, alg: alg, signer: signer}
	m.keys[kid] = key
	log.Logger().WithField(core.LogFieldKeyID, kid).Debugf("Generated new key pair (alg=%s)", alg)
	return key, nil
}

func (m *MemoryKeyStore) Resolve(_ context.Context, kid string) (PrivateKeyHandle, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	key, ok := m.keys[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

func (m *MemoryKeyStore) Delete(_ context.Context, kid string) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.keys[kid]; !ok {
		return ErrKeyNotFound
	}
	delete(m.keys, kid)
	return nil
}

func generateKeyPair(alg jwa.SignatureAlgorithm) (crypto.Signer, error) {
	switch alg {
	case jwa.ES256:
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case jwa.ES384:
		return ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case jwa.RS256, jwa.PS256:
		return rsa.GenerateKey(rand.Reader, rsaKeySize)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
}

// keyHandle is handed out by reference only, so callers can't copy the key material out of the store.
type keyHandle struct {
	kid    string
	alg    jwa.SignatureAlgorithm
	signer crypto.Signer
}

func (k *keyHandle) Public() crypto.PublicKey {
	return k.signer.Public()
}

func (k *keyHandle) Sign(random io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return k.signer.Sign(random, digest, opts)
}

func (k *keyHandle) KID() string {
	return k.kid
}

func (k *keyHandle) Algorithm() jwa.SignatureAlgorithm {
	return k.alg
}

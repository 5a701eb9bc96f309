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
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/nuts-foundation/nuts-wallet/core"
)

var _ KeyMaterialProvider = (*keyMaterialProvider)(nil)

// NewKeyMaterialProvider creates a KeyMaterialProvider that generates its keys in the given KeyStore.
func NewKeyMaterialProvider(store KeyStore) KeyMaterialProvider {
	return &keyMaterialProvider{store: store}
}

type keyMaterialProvider struct {
	store KeyStore
}

func (p keyMaterialProvider) GenerateSigningKeyPair(ctx context.Context, alg jwa.SignatureAlgorithm) (jwk.Key, error) {
	if alg != jwa.ES256 && alg != jwa.RS256 {
		return nil, core.WrapError(ErrKeyGenerationFailed, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg))
	}
	handle, err := p.generate(ctx, alg)
	if err != nil {
		return nil, err
	}
	return PublicJWK(handle)
}

func (p keyMaterialProvider) GenerateBindingKey(ctx context.Context) (BindingKey, error) {
	handle, err := p.generate(ctx, jwa.ES256)
	if err != nil {
		return nil, err
	}
	publicKey, err := PublicJWK(handle)
	if err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	return JWKBindingKey{
		Algorithm:  jwa.ES256,
		PublicKey:  publicKey,
		PrivateKey: handle,
	}, nil
}

func (p keyMaterialProvider) Resolve(ctx context.Context, kid string) (PrivateKeyHandle, error) {
	return p.store.Resolve(ctx, kid)
}

func (p keyMaterialProvider) generate(ctx context.Context, alg jwa.SignatureAlgorithm) (PrivateKeyHandle, error) {
	handle, err := p.store.New(ctx, alg, uuid.NewString())
	if err != nil {
		if errors.Is(err, ErrKeyGenerationFailed) {
			return nil, err
		}
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	return handle, nil
}

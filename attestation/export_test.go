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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPublicKeyX963(t *testing.T) {
	t.Run("P-256", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

			result, err := ExportPublicKeyX963(&key.PublicKey)

			require.NoError(t, err)
			assert.Len(t, result, 65)
			assert.Equal(t, byte(0x04), result[0])
		}
	})
	t.Run("P-384", func(t *testing.T) {
		key, _ := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)

		_, err := ExportPublicKeyX963(&key.PublicKey)

		assert.ErrorIs(t, err, ErrKeyExportFailed)
		assert.ErrorIs(t, err, ErrNotECKey)
		assert.Equal(t, core.KindCapability, core.KindOf(err))
	})
	t.Run("RSA", func(t *testing.T) {
		key, _ := rsa.GenerateKey(rand.Reader, 2048)

		_, err := ExportPublicKeyX963(&key.PublicKey)

		assert.ErrorIs(t, err, ErrNotECKey)
	})
	t.Run("private key", func(t *testing.T) {
		key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

		_, err := ExportPublicKeyX963(key)

		assert.ErrorIs(t, err, ErrNotECKey)
	})
}

func TestBase64URL_RoundTrip(t *testing.T) {
	for size := 0; size < 100; size++ {
		data := make([]byte, size)
		_, _ = rand.Read(data)

		encoded := base64URL(data)
		decoded, err := base64.RawURLEncoding.DecodeString(encoded)

		require.NoError(t, err)
		assert.Equal(t, data, decoded)
		assert.False(t, strings.ContainsAny(encoded, "+/="), encoded)
	}
}

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
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileSystemKeyStore(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		store, err := NewFileSystemKeyStore("")

		assert.EqualError(t, err, "filesystem path is empty")
		assert.Nil(t, store)
	})
	t.Run("directory is created on first key", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "keys")
		store, err := NewFileSystemKeyStore(dir)
		require.NoError(t, err)
		_, err = os.Stat(dir)
		require.ErrorIs(t, err, os.ErrNotExist)

		_, err = store.New(context.Background(), jwa.ES256, "kid")

		require.NoError(t, err)
		info, err := os.Stat(filepath.Join(dir, "kid_private.pem"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestFileSystemKeyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("resolve returns the generated key", func(t *testing.T) {
		for _, alg := range []jwa.SignatureAlgorithm{jwa.ES256, jwa.ES384, jwa.RS256, jwa.PS256} {
			t.Run(alg.String(), func(t *testing.T) {
				store, _ := NewFileSystemKeyStore(t.TempDir())
				generated, err := store.New(ctx, alg, "kid")
				require.NoError(t, err)

				resolved, err := store.Resolve(ctx, "kid")

				require.NoError(t, err)
				assert.Equal(t, "kid", resolved.KID())
				assert.Equal(t, alg, resolved.Algorithm())
				switch publicKey := generated.Public().(type) {
				case *ecdsa.PublicKey:
					assert.True(t, publicKey.Equal(resolved.Public()))
				case *rsa.PublicKey:
					assert.True(t, publicKey.Equal(resolved.Public()))
				default:
					t.Fatalf("unexpected key type %T", publicKey)
				}
			})
		}
	})
	t.Run("resolved key signs", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())
		_, _ = store.New(ctx, jwa.ES256, "kid")
		handle, err := store.Resolve(ctx, "kid")
		require.NoError(t, err)
		digest := sha256.Sum256([]byte("hello"))

		signature, err := handle.Sign(rand.Reader, digest[:], nil)

		require.NoError(t, err)
		assert.True(t, ecdsa.VerifyASN1(handle.Public().(*ecdsa.PublicKey), digest[:], signature))
	})
	t.Run("existing key is not overwritten", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())
		first, _ := store.New(ctx, jwa.ES256, "kid")

		_, err := store.New(ctx, jwa.ES256, "kid")

		assert.ErrorIs(t, err, ErrKeyGenerationFailed)
		resolved, _ := store.Resolve(ctx, "kid")
		assert.True(t, first.Public().(*ecdsa.PublicKey).Equal(resolved.Public()))
	})
	t.Run("unsupported algorithm", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())

		_, err := store.New(ctx, jwa.EdDSA, "kid")

		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})
	t.Run("key ID with path separator", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())

		_, err := store.New(ctx, jwa.ES256, "../kid")
		assert.ErrorIs(t, err, ErrInvalidKeyID)

		_, err = store.Resolve(ctx, "../kid")
		assert.ErrorIs(t, err, ErrInvalidKeyID)
	})
	t.Run("resolve unknown key", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())

		_, err := store.Resolve(ctx, "unknown")

		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Contains(t, err.Error(), "could not open entry unknown with filename")
	})
	t.Run("resolve invalid file", func(t *testing.T) {
		dir := t.TempDir()
		store, _ := NewFileSystemKeyStore(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "kid_private.pem"), []byte("hello world"), 0o600))

		_, err := store.Resolve(ctx, "kid")

		assert.ErrorContains(t, err, "no private key PEM block found")
	})
	t.Run("delete", func(t *testing.T) {
		store, _ := NewFileSystemKeyStore(t.TempDir())
		_, _ = store.New(ctx, jwa.ES256, "kid")

		require.NoError(t, store.Delete(ctx, "kid"))

		_, err := store.Resolve(ctx, "kid")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "kid"), ErrKeyNotFound)
	})
}

func TestNewKeyStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := NewKeyStore(Config{Storage: MemoryStorage})

		require.NoError(t, err)
		assert.IsType(t, &MemoryKeyStore{}, store)
	})
	t.Run("fs", func(t *testing.T) {
		store, err := NewKeyStore(Config{Storage: FileSystemStorage, FSPath: t.TempDir()})

		require.NoError(t, err)
		assert.IsType(t, &FileSystemKeyStore{}, store)
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := NewKeyStore(Config{Storage: "vault"})

		assert.EqualError(t, err, "invalid crypto.storage: vault")
	})
}

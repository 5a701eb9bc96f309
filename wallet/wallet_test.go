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

package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	attestationCmd "github.com/nuts-foundation/nuts-wallet/attestation/cmd"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	cryptoCmd "github.com/nuts-foundation/nuts-wallet/crypto/cmd"
	"github.com/nuts-foundation/nuts-wallet/holder"
	holderCmd "github.com/nuts-foundation/nuts-wallet/holder/cmd"
	presentationCmd "github.com/nuts-foundation/nuts-wallet/openid4vp/cmd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		instance, err := New(DefaultConfig(), Options{})

		require.NoError(t, err)
		assert.NotNil(t, instance.Keys)
		assert.NotNil(t, instance.Attestation)
		assert.NotNil(t, instance.Offers)
		assert.NotNil(t, instance.Negotiator)
		assert.NotNil(t, instance.Executor)
		assert.NotNil(t, instance.Poller)
		assert.NotNil(t, instance.Requests)
		assert.NotNil(t, instance.Presenter)
	})
	t.Run("metrics are registered once per registry", func(t *testing.T) {
		registry := prometheus.NewRegistry()

		_, err := New(DefaultConfig(), Options{Registerer: registry})
		require.NoError(t, err)
		_, err = New(DefaultConfig(), Options{Registerer: registry})

		assert.NoError(t, err)
	})
	t.Run("invalid metadata policy", func(t *testing.T) {
		config := DefaultConfig()
		config.Issuance.MetadataPolicy = "lenient"

		_, err := New(config, Options{})

		assert.EqualError(t, err, "invalid issuance.metadatapolicy: lenient")
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("invalid digest", func(t *testing.T) {
		config := DefaultConfig()
		config.Presentation.Digest = "md5"

		_, err := New(config, Options{})

		assert.Error(t, err)
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("invalid attestation backend in strict mode", func(t *testing.T) {
		config := DefaultConfig()
		config.Attestation.BackendURL = "http://localhost:8080"

		_, err := New(config, Options{})

		assert.ErrorContains(t, err, "invalid attestation backend URL")
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("missing trust anchor file", func(t *testing.T) {
		config := DefaultConfig()
		config.Presentation.TrustAnchors = []string{filepath.Join(t.TempDir(), "missing.pem")}

		_, err := New(config, Options{})

		assert.ErrorContains(t, err, "unable to read trust anchors")
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("keys are generated in the configured key store", func(t *testing.T) {
		config := DefaultConfig()
		config.Crypto.FSPath = t.TempDir()
		instance, err := New(config, Options{})
		require.NoError(t, err)

		key, err := instance.Keys.GenerateBindingKey(context.Background())
		require.NoError(t, err)

		store, _ := nutsCrypto.NewFileSystemKeyStore(config.Crypto.FSPath)
		handle, ok := nutsCrypto.ExtractPrivateKeyHandle(key)
		require.True(t, ok)
		_, err = store.Resolve(context.Background(), handle.KID())
		assert.NoError(t, err)
	})
	t.Run("invalid key storage", func(t *testing.T) {
		config := DefaultConfig()
		config.Crypto.Storage = "vault"

		_, err := New(config, Options{})

		assert.EqualError(t, err, "invalid crypto.storage: vault")
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("zero HTTP timeout", func(t *testing.T) {
		config := DefaultConfig()
		config.HTTP.Timeout = 0

		_, err := New(config, Options{})

		assert.EqualError(t, err, "http.timeout must be positive")
	})
}

func TestLoadConfig(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	flagSet := func() *pflag.FlagSet {
		flags := core.FlagSet()
		flags.AddFlagSet(cryptoCmd.FlagSet())
		flags.AddFlagSet(holderCmd.FlagSet())
		flags.AddFlagSet(presentationCmd.FlagSet())
		flags.AddFlagSet(attestationCmd.FlagSet())
		return flags
	}

	t.Run("defaults", func(t *testing.T) {
		global := core.NewConfig()
		flags := flagSet()
		require.NoError(t, flags.Parse([]string{"--configfile", ""}))
		require.NoError(t, global.Load(flags))

		config, err := LoadConfig(global)

		require.NoError(t, err)
		expected := DefaultConfig()
		assert.Equal(t, expected.Crypto, config.Crypto)
		assert.Equal(t, expected.Issuance, config.Issuance)
		assert.Equal(t, expected.Attestation, config.Attestation)
		assert.Equal(t, expected.Presentation.Digest, config.Presentation.Digest)
		assert.Equal(t, expected.Presentation.Verifiers, config.Presentation.Verifiers)
		assert.True(t, config.Strictmode)
	})
	t.Run("flags override defaults", func(t *testing.T) {
		global := core.NewConfig()
		flags := flagSet()
		require.NoError(t, flags.Parse([]string{
			"--configfile", "",
			"--issuance.clientid", "my-wallet",
			"--issuance.metadatapolicy", "relaxed",
			"--issuance.poll.interval", "1s",
			"--presentation.digest", "sha3-256",
			"--attestation.platform", "android",
		}))
		require.NoError(t, global.Load(flags))

		config, err := LoadConfig(global)

		require.NoError(t, err)
		assert.Equal(t, "my-wallet", config.Issuance.ClientID)
		assert.Equal(t, holder.RelaxedMetadataPolicy, config.Issuance.MetadataPolicy)
		assert.Equal(t, time.Second, config.Issuance.Poll.Interval)
		assert.Equal(t, "sha3-256", config.Presentation.Digest)
		assert.Equal(t, "android", config.Attestation.Platform)
	})
	t.Run("pre-registered verifiers from config file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "nuts-wallet.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte(`
strictmode: false
presentation:
  verifiers:
    - clientid: verifier.example
      algorithm: ES256
      jwksuri: https://verifier.example/jwks.json
`), 0600))
		global := core.NewConfig()
		flags := flagSet()
		require.NoError(t, flags.Parse([]string{"--configfile", configFile}))
		require.NoError(t, global.Load(flags))

		config, err := LoadConfig(global)

		require.NoError(t, err)
		assert.False(t, config.Strictmode)
		require.Len(t, config.Presentation.Verifiers, 1)
		assert.Equal(t, "verifier.example", config.Presentation.Verifiers[0].ClientID)
		assert.Equal(t, "ES256", config.Presentation.Verifiers[0].Algorithm)
		assert.Equal(t, "https://verifier.example/jwks.json", config.Presentation.Verifiers[0].JWKSURI)
	})
}

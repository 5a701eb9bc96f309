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

// Package wallet wires the issuance, presentation and attestation modules into a single wallet engine.
package wallet

import (
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/browser"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
	"github.com/nuts-foundation/nuts-wallet/holder"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
	"github.com/nuts-foundation/nuts-wallet/openid4vp"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultHTTPTimeout = 30 * time.Second

// Options contains the platform services the application shell provides to the engine.
type Options struct {
	// KeyStore holds the private keys. If nil, the key store is created from the crypto config.
	KeyStore nutsCrypto.KeyStore
	// Session performs the browser redirect of the authorization code flow. If nil, only pre-authorized offers can be redeemed.
	Session browser.Session
	// Oracle performs device attestation. If nil, attestation falls back to JWK attestation.
	Oracle attestation.Oracle
	// Registerer receives the metrics of the engine. If nil, a new registry is used.
	Registerer prometheus.Registerer
	// HTTPClient overrides the outbound HTTP client, e.g. in tests.
	HTTPClient core.HTTPRequestDoer
}

// Wallet is the engine's composition root: it holds one instance of every component, sharing a single key store.
type Wallet struct {
	Keys        nutsCrypto.KeyMaterialProvider
	Attestation attestation.Gateway
	Offers      holder.OfferResolver
	Negotiator  holder.Negotiator
	Executor    holder.Executor
	Poller      holder.Poller
	Requests    openid4vp.RequestResolver
	Presenter   openid4vp.Presenter
	Config      Config
}

// New validates the configuration and creates the wallet engine.
func New(config Config, options Options) (*Wallet, error) {
	if err := config.Validate(); err != nil {
		return nil, core.ConfigurationError(err)
	}
	digest, err := hash.ParseDigest(config.Presentation.Digest)
	if err != nil {
		return nil, core.ConfigurationError(err)
	}
	keyStore := options.KeyStore
	if keyStore == nil {
		if keyStore, err = nutsCrypto.NewKeyStore(config.Crypto); err != nil {
			return nil, core.ConfigurationError(err)
		}
	}
	registerer := options.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = core.NewStrictHTTPClient(config.Strictmode, config.HTTP.Timeout, nil)
	}
	metadataClient := core.NewCachingHTTPRequestDoer(httpClient)

	keys := nutsCrypto.NewKeyMaterialProvider(keyStore)
	gateway, err := attestation.NewGateway(config.Attestation, options.Oracle, httpClient, config.Strictmode)
	if err != nil {
		return nil, err
	}

	holderMetrics, err := holder.NewMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("unable to register issuance metrics: %w", err)
	}
	issuerClient := openid4vci.NewIssuerAPIClient(httpClient, metadataClient, config.Strictmode)
	negotiator := holder.NewNegotiator(issuerClient, options.Session, keys, config.Issuance, holderMetrics)

	presentationMetrics, err := openid4vp.NewMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("unable to register presentation metrics: %w", err)
	}
	trustAnchors, err := config.Presentation.LoadTrustAnchors()
	if err != nil {
		return nil, core.ConfigurationError(err)
	}
	var chains openid4vp.X509ChainTrust
	if trustAnchors != nil {
		chains = openid4vp.CertPoolTrust{Roots: trustAnchors}
	}
	verifierClient := openid4vp.NewVerifierAPIClient(httpClient, metadataClient, config.Strictmode)
	trust := openid4vp.NewTrustPolicy(config.Presentation.Verifiers, chains, verifierClient)

	return &Wallet{
		Keys:        keys,
		Attestation: gateway,
		Offers:      holder.NewOfferResolver(issuerClient, config.Issuance.MetadataPolicy),
		Negotiator:  negotiator,
		Executor:    holder.NewExecutor(issuerClient, keys, gateway, holderMetrics),
		Poller:      holder.NewPoller(issuerClient, negotiator, config.Issuance.Poll, holderMetrics),
		Requests:    openid4vp.NewRequestResolver(verifierClient, trust),
		Presenter:   openid4vp.NewPresenter(verifierClient, digest, presentationMetrics),
		Config:      config,
	}, nil
}

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

package holder

import (
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/cert"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/holder/log"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

var _ Executor = (*executor)(nil)

// NewExecutor creates an Executor.
// The attestation gateway is optional, it's used for configurations that only accept attestation proofs.
func NewExecutor(client openid4vci.IssuerAPIClient, keys nutsCrypto.KeyMaterialProvider, gateway attestation.Gateway, metrics *Metrics) Executor {
	return &executor{
		client:  client,
		keys:    keys,
		gateway: gateway,
		metrics: metrics,
	}
}

type executor struct {
	client  openid4vci.IssuerAPIClient
	keys    nutsCrypto.KeyMaterialProvider
	gateway attestation.Gateway
	metrics *Metrics
}

func (e executor) Execute(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest) (CredentialOutcome, error) {
	if len(offer.CredentialConfigurationIDs) == 0 {
		return nil, core.ConfigurationError(ErrMissingCredentialConfigurationIdentifier)
	}
	// Only the first offered configuration is requested.
	configurationID := offer.CredentialConfigurationIDs[0]
	if len(offer.CredentialConfigurationIDs) > 1 {
		log.Logger().
			WithField(core.LogFieldCredentialIssuer, offer.CredentialIssuer).
			Infof("Offer contains %d credential configurations, only %s is requested", len(offer.CredentialConfigurationIDs), configurationID)
	}
	configuration, _ := offer.CredentialConfiguration(configurationID)
	bindingKey, err := e.bindingKey(ctx, configuration)
	if err != nil {
		return nil, err
	}
	privateKey, _ := nutsCrypto.ExtractPrivateKeyHandle(bindingKey)

	outcome, err := e.Submit(ctx, offer, authorized, configurationID, []nutsCrypto.BindingKey{bindingKey})
	if err != nil {
		return nil, err
	}
	switch o := outcome.(type) {
	case Issued:
		if len(o.Credentials) == 0 {
			return nil, core.ProtocolError(errors.New("credential response contains no credentials"))
		}
		return IssuedCredentialOutcome{
			Credential: o.Credentials[0],
			PrivateKey: privateKey,
			IsSDJWT:    offer.IsSDJWT(),
		}, nil
	case Deferred:
		return DeferredCredentialOutcome{
			TransactionID:     o.TransactionID,
			Interval:          o.Interval,
			AuthorizedRequest: authorized,
			Issuer:            offer,
			IsSDJWT:           offer.IsSDJWT(),
			PrivateKey:        privateKey,
		}, nil
	default:
		return nil, fmt.Errorf("unexpected issuance outcome: %T", outcome)
	}
}

// bindingKey generates a JWK binding key. If the configuration only accepts attestation proofs, the key gets attested.
func (e executor) bindingKey(ctx context.Context, configuration openid4vci.CredentialConfiguration) (nutsCrypto.BindingKey, error) {
	key, err := e.keys.GenerateBindingKey(ctx)
	if err != nil {
		return nil, err
	}
	if configuration.SupportsProofType(openid4vci.ProofTypeJWT) || !configuration.SupportsProofType(openid4vci.ProofTypeAttestation) {
		return key, nil
	}
	jwkKey, ok := key.(nutsCrypto.JWKBindingKey)
	if !ok || e.gateway == nil {
		return nil, core.CapabilityError(errors.New("credential configuration requires a key attestation, but no attestation gateway is configured"))
	}
	keyAttestation, err := e.gateway.Attest(ctx, jwkKey.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("unable to attest binding key: %w", err)
	}
	return nutsCrypto.KeyAttestationBindingKey{
		Algorithm:      jwkKey.Algorithm,
		KeyAttestation: keyAttestation,
		PrivateKey:     jwkKey.PrivateKey,
	}, nil
}

func (e executor) Submit(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest, configurationID string, bindingKeys []nutsCrypto.BindingKey) (IssuanceOutcome, error) {
	logger := log.Logger().
		WithField(core.LogFieldCredentialIssuer, offer.CredentialIssuer).
		WithField(core.LogFieldCredentialConfigurationID, configurationID)
	configuration, ok := offer.CredentialConfiguration(configurationID)
	if !ok {
		return nil, core.ConfigurationError(fmt.Errorf("%w: %s", ErrUnknownCredentialConfiguration, configurationID))
	}
	if authorized.IsExpired(nowFunc()) {
		return nil, core.ProtocolError(ErrAccessTokenExpired)
	}
	nonce, err := e.nonce(ctx, offer, authorized)
	if err != nil {
		return nil, err
	}
	proofs, err := e.buildProofs(offer, authorized, configuration, nonce, bindingKeys)
	if err != nil {
		return nil, err
	}
	request := openid4vci.CredentialRequest{
		CredentialConfigurationID: configurationID,
		Proofs:                    proofs,
	}
	response, err := e.client.RequestCredential(ctx, offer.IssuerMetadata.CredentialEndpoint, request, authorized.callOptions())
	if err != nil {
		var protocolErr openid4vci.Error
		if errors.As(err, &protocolErr) && (protocolErr.Code == openid4vci.InvalidProof || protocolErr.Code == openid4vci.InvalidNonce) {
			e.metrics.issuance("invalid_proof")
			return nil, core.ProtocolError(core.WrapError(ErrInvalidProof, err))
		}
		e.metrics.issuance("failed")
		return nil, err
	}
	credentials, err := response.ParseCredentials()
	if err != nil {
		e.metrics.issuance("failed")
		return nil, core.ProtocolError(err)
	}
	if len(credentials) == 0 && response.TransactionID != "" {
		logger.WithField(core.LogFieldTransactionID, response.TransactionID).Info("Credential issuance deferred")
		e.metrics.issuance("deferred")
		return Deferred{
			TransactionID: response.TransactionID,
			Interval:      time.Duration(response.Interval) * time.Second,
		}, nil
	}
	logger.Infof("Received %d credential(s)", len(credentials))
	e.metrics.issuance("issued")
	return Issued{Credentials: credentials, NotificationID: response.NotificationID}, nil
}

// nonce returns a fresh c_nonce from the issuer's nonce endpoint, or the c_nonce of the token response.
func (e executor) nonce(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest) (string, error) {
	if offer.IssuerMetadata.NonceEndpoint != "" {
		return e.client.Nonce(ctx, offer.IssuerMetadata.NonceEndpoint)
	}
	return authorized.CNonce, nil
}

func (e executor) buildProofs(offer CredentialOffer, authorized AuthorizedRequest, configuration openid4vci.CredentialConfiguration, nonce string, bindingKeys []nutsCrypto.BindingKey) (*openid4vci.Proofs, error) {
	if len(bindingKeys) == 0 {
		return nil, nil
	}
	result := &openid4vci.Proofs{}
	for _, bindingKey := range bindingKeys {
		switch key := bindingKey.(type) {
		case nutsCrypto.AttestationBindingKey:
			result.Attestation = append(result.Attestation, key.Attestation)
			continue
		case nutsCrypto.KeyAttestationBindingKey:
			if !configuration.SupportsProofType(openid4vci.ProofTypeJWT) {
				result.Attestation = append(result.Attestation, key.KeyAttestation)
				continue
			}
		}
		proof, err := e.proofJWT(offer, authorized, nonce, bindingKey)
		if err != nil {
			return nil, fmt.Errorf("unable to create proof: %w", err)
		}
		result.JWT = append(result.JWT, proof)
	}
	if len(result.JWT) > 0 && len(result.Attestation) > 0 {
		return nil, core.ConfigurationError(errors.New("binding keys must use a single proof type"))
	}
	return result, nil
}

// proofJWT creates an openid4vci-proof+jwt, with the key identified in the header according to the binding key variant.
func (e executor) proofJWT(offer CredentialOffer, authorized AuthorizedRequest, nonce string, bindingKey nutsCrypto.BindingKey) (string, error) {
	headers := map[string]interface{}{
		jws.TypeKey: openid4vci.JWTTypeOpenID4VCIProof,
	}
	var signer crypto.Signer
	var alg jwa.SignatureAlgorithm
	switch key := bindingKey.(type) {
	case nutsCrypto.JWKBindingKey:
		headers[jws.JWKKey] = key.PublicKey
		signer, alg = key.PrivateKey, key.Algorithm
	case nutsCrypto.KeyAttestationBindingKey:
		headers[openid4vci.KeyAttestationHeader] = key.KeyAttestation
		signer, alg = key.PrivateKey, key.Algorithm
	case nutsCrypto.DIDBindingKey:
		headers[jws.KeyIDKey] = key.KeyID.String()
		signer, alg = key.Signer, key.Algorithm
	case nutsCrypto.X509BindingKey:
		chain := &cert.Chain{}
		for _, certificate := range key.Chain {
			_ = chain.AddString(base64.StdEncoding.EncodeToString(certificate.Raw))
		}
		headers[jws.X509CertChainKey] = chain
		signer, alg = key.Signer, key.Algorithm
	default:
		return "", fmt.Errorf("unsupported binding key: %T", bindingKey)
	}
	if signer == nil {
		return "", errors.New("binding key has no signer")
	}
	claims := map[string]interface{}{
		jwt.AudienceKey: offer.CredentialIssuer,
		jwt.IssuedAtKey: nowFunc().Unix(),
	}
	if authorized.ClientID != "" {
		claims[jwt.IssuerKey] = authorized.ClientID
	}
	if nonce != "" {
		claims[oauth.NonceParam] = nonce
	}
	return nutsCrypto.SignJWTWithSigner(signer, alg, claims, headers)
}

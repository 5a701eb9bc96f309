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
	"context"
	"crypto"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/nuts-foundation/nuts-wallet/attestation/log"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
)

// clientDataPurpose is the purpose the wallet provider expects in the client data of a key attestation.
const clientDataPurpose = "ios app-attest: secure enclave protected key"

// AttestationResult is the outcome of a platform attestation of a hardware key.
type AttestationResult struct {
	// KeyID is the identifier of the attested platform key.
	KeyID string
	// AttestationObject is the binary attestation object returned by the platform.
	AttestationObject []byte
	// Challenge is the wallet provider's challenge the attestation is bound to.
	Challenge string
}

// Gateway obtains wallet attestations that prove the authenticity of the wallet to issuers.
type Gateway interface {
	// GenerateKeyID creates a new platform attestation key.
	GenerateKeyID(ctx context.Context) (string, error)
	// RequestChallenge requests a fresh challenge from the wallet provider.
	RequestChallenge(ctx context.Context) (string, error)
	// PlatformAttest requests a challenge and has the platform attest the given key over its SHA-256 hash.
	PlatformAttest(ctx context.Context, keyID string) (*AttestationResult, error)
	// GetKeyAttestation exchanges a platform attestation for a wallet unit attestation JWT, bound to the given public key.
	GetKeyAttestation(ctx context.Context, publicKey crypto.PublicKey, result AttestationResult) (string, error)
	// JWKAttest requests a wallet instance attestation JWT for the given public key, without platform attestation.
	JWKAttest(ctx context.Context, publicKey jwk.Key) (string, error)
	// Attest runs device attestation for the given key, falling back to JWK attestation if the device doesn't support it.
	Attest(ctx context.Context, key nutsCrypto.PrivateKeyHandle) (string, error)
}

var _ Gateway = (*gateway)(nil)

// NewGateway creates a Gateway that uses the given platform oracle and the wallet provider configured in config.
// If oracle is nil, device attestation is considered unsupported.
func NewGateway(config Config, oracle Oracle, httpClient core.HTTPRequestDoer, strictmode bool) (Gateway, error) {
	baseURL, err := core.ParsePublicURL(config.BackendURL, strictmode)
	if err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("invalid attestation backend URL: %w", err))
	}
	if oracle == nil {
		oracle = UnsupportedOracle{}
	}
	return &gateway{
		oracle:   oracle,
		backend:  backendClient{baseURL: baseURL, httpClient: httpClient},
		clientID: config.ClientID,
		platform: config.Platform,
	}, nil
}

type gateway struct {
	oracle   Oracle
	backend  backendClient
	clientID string
	platform string
}

func (g gateway) GenerateKeyID(ctx context.Context) (string, error) {
	if !g.oracle.IsSupported() {
		return "", core.CapabilityError(ErrNotSupported)
	}
	keyID, err := g.oracle.GenerateKeyID(ctx)
	if err != nil {
		return "", platformError(err)
	}
	return keyID, nil
}

func (g gateway) RequestChallenge(ctx context.Context) (string, error) {
	challenge, err := g.backend.challenge(ctx)
	if err != nil {
		return "", core.WrapError(ErrAttestationFailed, err)
	}
	if challenge == "" {
		return "", core.ProtocolError(ErrInvalidChallenge)
	}
	return challenge, nil
}

func (g gateway) PlatformAttest(ctx context.Context, keyID string) (*AttestationResult, error) {
	if !g.oracle.IsSupported() {
		return nil, core.CapabilityError(ErrNotSupported)
	}
	challenge, err := g.RequestChallenge(ctx)
	if err != nil {
		return nil, err
	}
	clientDataHash := sha256.Sum256([]byte(challenge))
	attestationObject, err := g.oracle.AttestKey(ctx, keyID, clientDataHash[:])
	if err != nil {
		return nil, platformError(err)
	}
	return &AttestationResult{
		KeyID:             keyID,
		AttestationObject: attestationObject,
		Challenge:         challenge,
	}, nil
}

func (g gateway) GetKeyAttestation(ctx context.Context, publicKey crypto.PublicKey, result AttestationResult) (string, error) {
	point, err := ExportPublicKeyX963(publicKey)
	if err != nil {
		return "", err
	}
	// map keys are marshalled in sorted order
	clientData, err := json.Marshal(map[string]string{
		"purpose":   clientDataPurpose,
		"publicKey": base64URL(point),
		"challenge": result.Challenge,
	})
	if err != nil {
		return "", err
	}
	request := keyAttestationRequest{
		ClientID: g.clientID,
		KeyAttestation: keyAttestation{
			Attestation:    base64.StdEncoding.EncodeToString(result.AttestationObject),
			ClientDataJSON: base64URL(clientData),
		},
		Challenge: result.Challenge,
	}
	jwt, err := g.backend.issueKeyAttestation(ctx, g.platform, request)
	if err != nil {
		return "", core.WrapError(ErrAttestationFailed, err)
	}
	if jwt == "" {
		return "", core.ProtocolError(core.WrapError(ErrAttestationFailed, errors.New("wallet provider returned no attestation")))
	}
	return jwt, nil
}

func (g gateway) JWKAttest(ctx context.Context, publicKey jwk.Key) (string, error) {
	publicKey, err := jwk.PublicKeyOf(publicKey)
	if err != nil {
		return "", core.CapabilityError(core.WrapError(ErrKeyExportFailed, err))
	}
	jwt, err := g.backend.issueJWKAttestation(ctx, jwkAttestationRequest{ClientID: g.clientID, JWK: publicKey})
	if err != nil {
		return "", core.WrapError(ErrAttestationFailed, err)
	}
	if jwt == "" {
		return "", core.ProtocolError(core.WrapError(ErrAttestationFailed, errors.New("wallet provider returned no attestation")))
	}
	return jwt, nil
}

func (g gateway) Attest(ctx context.Context, key nutsCrypto.PrivateKeyHandle) (string, error) {
	jwt, err := g.deviceAttest(ctx, key)
	if err == nil {
		return jwt, nil
	}
	if !errors.Is(err, ErrNotSupported) {
		return "", err
	}
	log.Logger().
		WithField(core.LogFieldKeyID, key.KID()).
		Info("Device attestation not supported, falling back to JWK attestation")
	publicKey, err := nutsCrypto.PublicJWK(key)
	if err != nil {
		return "", core.CapabilityError(core.WrapError(ErrKeyExportFailed, err))
	}
	return g.JWKAttest(ctx, publicKey)
}

func (g gateway) deviceAttest(ctx context.Context, key nutsCrypto.PrivateKeyHandle) (string, error) {
	keyID, err := g.GenerateKeyID(ctx)
	if err != nil {
		return "", err
	}
	result, err := g.PlatformAttest(ctx, keyID)
	if err != nil {
		return "", err
	}
	return g.GetKeyAttestation(ctx, key.Public(), *result)
}

func platformError(err error) error {
	if errors.Is(err, ErrNotSupported) {
		return core.CapabilityError(err)
	}
	return core.WrapError(ErrAttestationFailed, err)
}

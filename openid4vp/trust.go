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

package openid4vp

import (
	"context"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"

	"github.com/lestrrat-go/jwx/v2/cert"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/openid4vp/log"
)

// X509ChainTrust decides whether a certificate chain from a request object's x5c header is trusted.
type X509ChainTrust interface {
	// Verify returns an error if the chain (leaf first) doesn't lead to a trust anchor.
	Verify(chain []*x509.Certificate) error
}

// InsecureTrustAnyChain trusts every certificate chain. Only use it in tests.
type InsecureTrustAnyChain struct{}

func (InsecureTrustAnyChain) Verify(chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return errors.New("empty certificate chain")
	}
	return nil
}

var _ X509ChainTrust = (*CertPoolTrust)(nil)

// CertPoolTrust trusts certificate chains that verify against a pool of root certificates.
type CertPoolTrust struct {
	Roots *x509.CertPool
}

func (t CertPoolTrust) Verify(chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return errors.New("empty certificate chain")
	}
	intermediates := x509.NewCertPool()
	for _, certificate := range chain[1:] {
		intermediates.AddCert(certificate)
	}
	_, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         t.Roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err
}

// TrustPolicy resolves the key that signed a request object, given the verifier's client_id scheme.
type TrustPolicy struct {
	verifiers map[string]VerifierConfig
	chains    X509ChainTrust
	client    VerifierAPIClient
}

// NewTrustPolicy creates a TrustPolicy. If chains is nil, verifiers using an X.509 scheme are not trusted.
func NewTrustPolicy(verifiers []VerifierConfig, chains X509ChainTrust, client VerifierAPIClient) *TrustPolicy {
	result := &TrustPolicy{
		verifiers: make(map[string]VerifierConfig, len(verifiers)),
		chains:    chains,
		client:    client,
	}
	for _, verifier := range verifiers {
		result.verifiers[verifier.ClientID] = verifier
	}
	return result
}

// VerificationKey returns the algorithm and key to verify the request object's signature with.
// It fails with ErrUntrustedVerifier if the signer can't be traced to the client.
func (p TrustPolicy) VerificationKey(ctx context.Context, scheme ClientIDScheme, clientID string, headers jws.Headers) (jwa.SignatureAlgorithm, interface{}, error) {
	alg := headers.Algorithm()
	if alg == "" || alg == jwa.NoSignature {
		return "", nil, untrusted("request object is not signed")
	}
	switch scheme {
	case PreRegisteredScheme:
		key, err := p.preRegisteredKey(ctx, clientID, headers)
		return alg, key, err
	case X509SanDNSScheme, X509HashScheme:
		chain, err := p.trustedChain(headers)
		if err != nil {
			return "", nil, err
		}
		if err := matchLeaf(scheme, clientID, chain[0]); err != nil {
			return "", nil, err
		}
		return alg, chain[0].PublicKey, nil
	}
	return "", nil, core.ConfigurationError(fmt.Errorf("%w: %s", ErrUnsupportedClientIDScheme, scheme))
}

func (p TrustPolicy) preRegisteredKey(ctx context.Context, clientID string, headers jws.Headers) (jwk.Key, error) {
	verifier, ok := p.verifiers[clientID]
	if !ok {
		return nil, untrusted(fmt.Sprintf("verifier is not pre-registered (client_id=%s)", clientID))
	}
	if verifier.Algorithm != "" && verifier.Algorithm != headers.Algorithm().String() {
		return nil, untrusted(fmt.Sprintf("request object signed with %s, expected %s", headers.Algorithm(), verifier.Algorithm))
	}
	var keySet jwk.Set
	var err error
	if verifier.JWKS != "" {
		keySet, err = jwk.ParseString(verifier.JWKS)
		if err != nil {
			return nil, core.ConfigurationError(fmt.Errorf("invalid JWK set of pre-registered verifier (client_id=%s): %w", clientID, err))
		}
	} else {
		keySet, err = p.client.JWKS(ctx, verifier.JWKSURI)
		if err != nil {
			return nil, err
		}
	}
	if kid := headers.KeyID(); kid != "" {
		if key, ok := keySet.LookupKeyID(kid); ok {
			return key, nil
		}
		return nil, untrusted(fmt.Sprintf("key not found in JWK set of verifier (kid=%s)", kid))
	}
	if keySet.Len() == 1 {
		key, _ := keySet.Key(0)
		return key, nil
	}
	return nil, untrusted("request object has no kid and the verifier has multiple keys")
}

func (p TrustPolicy) trustedChain(headers jws.Headers) ([]*x509.Certificate, error) {
	encoded := headers.X509CertChain()
	if encoded == nil || encoded.Len() == 0 {
		return nil, untrusted("request object has no x5c header")
	}
	chain, err := parseChain(encoded)
	if err != nil {
		return nil, untrusted(err.Error())
	}
	if p.chains == nil {
		return nil, untrusted("no trust anchors configured for X.509 client_id schemes")
	}
	if err := p.chains.Verify(chain); err != nil {
		log.Logger().WithError(err).Infof("Untrusted certificate chain (subject=%s)", chain[0].Subject)
		return nil, untrusted(fmt.Sprintf("certificate chain is not trusted: %s", err))
	}
	return chain, nil
}

func parseChain(encoded *cert.Chain) ([]*x509.Certificate, error) {
	result := make([]*x509.Certificate, 0, encoded.Len())
	for i := 0; i < encoded.Len(); i++ {
		data, _ := encoded.Get(i)
		certificate, err := cert.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("invalid x5c certificate: %w", err)
		}
		result = append(result, certificate)
	}
	return result, nil
}

func matchLeaf(scheme ClientIDScheme, clientID string, leaf *x509.Certificate) error {
	switch scheme {
	case X509SanDNSScheme:
		if !slices.Contains(leaf.DNSNames, clientID) {
			return untrusted(fmt.Sprintf("client_id is not a DNS name of the certificate (client_id=%s)", clientID))
		}
	case X509HashScheme:
		sum := sha256.Sum256(leaf.Raw)
		if base64.RawURLEncoding.EncodeToString(sum[:]) != clientID {
			return untrusted("client_id does not match the certificate hash")
		}
	}
	return nil
}

func untrusted(reason string) error {
	return core.ProtocolError(fmt.Errorf("%w: %s", ErrUntrustedVerifier, reason))
}

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
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/cert"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
	"github.com/stretchr/testify/require"
)

const testClientID = "verifier.example"

func newTestKey(t *testing.T, kid string) nutsCrypto.PrivateKeyHandle {
	key, err := nutsCrypto.NewMemoryKeyStore().New(context.Background(), jwa.ES256, kid)
	require.NoError(t, err)
	return key
}

// testJWKS returns the JWK set (JSON) containing the public keys.
func testJWKS(t *testing.T, keys ...nutsCrypto.PrivateKeyHandle) string {
	set := jwk.NewSet()
	for _, key := range keys {
		publicKey, err := nutsCrypto.PublicJWK(key)
		require.NoError(t, err)
		require.NoError(t, set.AddKey(publicKey))
	}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	return string(data)
}

func testRequestClaims() map[string]interface{} {
	return map[string]interface{}{
		"client_id":     testClientID,
		"response_type": "vp_token",
		"response_mode": ResponseModeDirectPost,
		"response_uri":  "https://verifier.example/response",
		"nonce":         "n1",
		"state":         "s1",
		"dcql_query": map[string]interface{}{
			"credentials": []interface{}{
				map[string]interface{}{
					"id":     "pid",
					"format": "dc+sd-jwt",
					"claims": []interface{}{
						map[string]interface{}{"path": []interface{}{"given_name"}},
					},
				},
			},
		},
	}
}

func signRequestObject(t *testing.T, key nutsCrypto.PrivateKeyHandle, claims map[string]interface{}, headers map[string]interface{}) string {
	allHeaders := map[string]interface{}{jws.TypeKey: "oauth-authz-req+jwt"}
	for name, value := range headers {
		allHeaders[name] = value
	}
	token, err := nutsCrypto.SignJWT(key, claims, allHeaders)
	require.NoError(t, err)
	return token
}

// selfSignedCertificate creates a CA certificate for the key, with the given DNS names.
func selfSignedCertificate(t *testing.T, key nutsCrypto.PrivateKeyHandle, dnsNames ...string) *x509.Certificate {
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test Verifier"},
		DNSNames:              dnsNames,
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	data, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	certificate, err := x509.ParseCertificate(data)
	require.NoError(t, err)
	return certificate
}

func x5c(certificates ...*x509.Certificate) *cert.Chain {
	chain := &cert.Chain{}
	for _, certificate := range certificates {
		_ = chain.AddString(base64.StdEncoding.EncodeToString(certificate.Raw))
	}
	return chain
}

func certificateHash(certificate *x509.Certificate) string {
	return hash.SHA256.Base64URL(certificate.Raw)
}

func encodeTransactionData(data string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(data))
}

func encodeDisclosure(elements ...interface{}) string {
	data, _ := json.Marshal(elements)
	return base64.RawURLEncoding.EncodeToString(data)
}

// testSDJWT issues an SD-JWT VC with given_name and family_name disclosures.
func testSDJWT(t *testing.T) (string, []string) {
	disclosures := []string{
		encodeDisclosure("salt1", "given_name", "Tyler"),
		encodeDisclosure("salt2", "family_name", "Neal"),
	}
	claims := map[string]interface{}{
		"iss":     "https://issuer.eudiw.dev",
		"vct":     "urn:eudi:pid:1",
		"_sd_alg": "sha-256",
		"_sd": []string{
			hash.SHA256.Base64URL([]byte(disclosures[0])),
			hash.SHA256.Base64URL([]byte(disclosures[1])),
		},
	}
	issuerJWT, err := nutsCrypto.SignJWT(newTestKey(t, "issuer"), claims, map[string]interface{}{jws.TypeKey: "dc+sd-jwt"})
	require.NoError(t, err)
	return issuerJWT + "~" + strings.Join(disclosures, "~") + "~", disclosures
}

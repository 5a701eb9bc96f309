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
	"encoding/base64"
	"encoding/json"
	"fmt"

	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
)

const (
	// ResponseModeDirectPost posts the authorization response to the response_uri.
	ResponseModeDirectPost = "direct_post"
	// ResponseModeFragment returns the authorization response in the fragment of the redirect_uri.
	ResponseModeFragment = "fragment"
	// ResponseModeQuery returns the authorization response in the query of the redirect_uri.
	ResponseModeQuery = "query"
)

// DefaultQueryID is the key of the presentation in the vp_token when the DCQL query has no credential query.
const DefaultQueryID = "query_0"

// ClientIDScheme is the way a wallet authenticates the verifier that signed a request object.
type ClientIDScheme string

const (
	// PreRegisteredScheme identifies verifiers by client_id, with keys configured in the wallet.
	PreRegisteredScheme ClientIDScheme = "pre-registered"
	// X509SanDNSScheme requires the client_id to be a DNS SAN of the leaf certificate in the x5c header.
	X509SanDNSScheme ClientIDScheme = "x509_san_dns"
	// X509HashScheme requires the client_id to be the base64url encoded SHA-256 hash of the leaf certificate.
	X509HashScheme ClientIDScheme = "x509_hash"
)

// AuthorizationRequest is a verified OpenID4VP authorization request.
type AuthorizationRequest struct {
	// ClientID is the client_id of the verifier as it appears in the request, including a scheme prefix if any.
	// It's the audience of the key binding JWT.
	ClientID string
	// ClientIDScheme is the scheme that was used to trust the verifier.
	ClientIDScheme ClientIDScheme
	ResponseType   string
	ResponseMode   string
	// ResponseURI is where the response is posted (direct_post).
	ResponseURI string
	// RedirectURI is where the response is redirected to (fragment, query).
	RedirectURI string
	Nonce       string
	State       string
	DCQLQuery   *DCQLQuery
	// TransactionData contains the transaction data items the presentation must be bound to.
	TransactionData []TransactionData
}

// DCQLQuery is a Digital Credentials Query Language query.
type DCQLQuery struct {
	Credentials []CredentialQuery `json:"credentials"`
}

// QueryID returns the ID of the first credential query, which keys the presentation in the vp_token.
func (q *DCQLQuery) QueryID() string {
	if q == nil || len(q.Credentials) == 0 || q.Credentials[0].ID == "" {
		return DefaultQueryID
	}
	return q.Credentials[0].ID
}

// CredentialQuery requests a single credential.
type CredentialQuery struct {
	ID     string                 `json:"id"`
	Format string                 `json:"format"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
	Claims []ClaimsQuery          `json:"claims,omitempty"`
}

// ClaimNames returns the names of the claims that are requested, see ClaimsQuery.ClaimName.
func (q CredentialQuery) ClaimNames() []string {
	var result []string
	for _, claim := range q.Claims {
		if name := claim.ClaimName(); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// ClaimsQuery requests a single claim by path.
type ClaimsQuery struct {
	ID   string        `json:"id,omitempty"`
	Path []interface{} `json:"path"`
}

// ClaimName returns the last property name in the path, e.g. "country" for ["address", "country"].
// Array indices and wildcards (null) are skipped.
func (q ClaimsQuery) ClaimName() string {
	for i := len(q.Path) - 1; i >= 0; i-- {
		if name, ok := q.Path[i].(string); ok {
			return name
		}
	}
	return ""
}

// TransactionData is a transaction data item of the request, e.g. a payment to be authorized.
type TransactionData struct {
	// Encoded is the base64url encoded item as it appears in the request. Its hash is put in the key binding JWT.
	Encoded       string   `json:"-"`
	Type          string   `json:"type"`
	CredentialIDs []string `json:"credential_ids"`
}

// ParseTransactionData decodes a base64url encoded transaction data item.
func ParseTransactionData(encoded string) (TransactionData, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return TransactionData{}, fmt.Errorf("%w: transaction_data is not base64url encoded: %w", ErrInvalidRequest, err)
	}
	var result TransactionData
	if err := json.Unmarshal(data, &result); err != nil {
		return TransactionData{}, fmt.Errorf("%w: transaction_data is not a JSON object: %w", ErrInvalidRequest, err)
	}
	if result.Type == "" {
		return TransactionData{}, fmt.Errorf("%w: transaction_data without type", ErrInvalidRequest)
	}
	result.Encoded = encoded
	return result, nil
}

// Credential is a credential the end-user chose to present.
type Credential struct {
	// Raw is the credential as issued, e.g. an SD-JWT VC in compact serialization.
	Raw string
	// Key is the handle of the key the credential is bound to. It signs the key binding JWT.
	Key nutsCrypto.PrivateKeyHandle
	// ClaimNames are the claims to disclose. If empty, the claims requested by the DCQL query are disclosed.
	ClaimNames []string
}

// Result is the outcome of an accepted presentation.
type Result struct {
	// RedirectURI is where the user agent should go next, if the verifier specified it.
	// For the fragment and query response modes it carries the authorization response.
	RedirectURI string
	// VPToken is the vp_token that was sent to the verifier.
	VPToken map[string][]string
}

// WalletMetadata is sent to the verifier when the request object is retrieved with request_uri_method=post.
type WalletMetadata struct {
	VPFormatsSupported                     map[string]map[string][]string `json:"vp_formats_supported"`
	ClientIDSchemesSupported               []ClientIDScheme               `json:"client_id_schemes_supported"`
	RequestObjectSigningAlgValuesSupported []string                       `json:"request_object_signing_alg_values_supported"`
	ResponseModesSupported                 []string                       `json:"response_modes_supported"`
	ResponseTypesSupported                 []string                       `json:"response_types_supported"`
}

func defaultWalletMetadata() WalletMetadata {
	algs := []string{"ES256", "ES384", "RS256", "PS256"}
	return WalletMetadata{
		VPFormatsSupported: map[string]map[string][]string{
			"dc+sd-jwt": {
				"sd-jwt_alg_values": {"ES256"},
				"kb-jwt_alg_values": {"ES256"},
			},
		},
		ClientIDSchemesSupported:               []ClientIDScheme{PreRegisteredScheme, X509SanDNSScheme, X509HashScheme},
		RequestObjectSigningAlgValuesSupported: algs,
		ResponseModesSupported:                 []string{ResponseModeDirectPost, ResponseModeFragment, ResponseModeQuery},
		ResponseTypesSupported:                 []string{"vp_token"},
	}
}

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

// Package oauth contains generic OAuth related functionality, variables and constants
package oauth

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"

	"github.com/nuts-foundation/nuts-wallet/core"
)

// TokenResponse is the OAuth access token response.
// Through With() and Get() additional parameters (for OpenID4VCI, for instance) can be set and retrieved.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	ExpiresIn    *int    `json:"expires_in,omitempty"`
	TokenType    string  `json:"token_type"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	Scope        *string `json:"scope,omitempty"`

	additionalParams map[string]interface{}
}

var _ json.Unmarshaler = (*TokenResponse)(nil)
var _ json.Marshaler = (*TokenResponse)(nil)

var baseTokenResponseParams = []string{"access_token", "expires_in", "token_type", "refresh_token", "scope"}

func (t *TokenResponse) UnmarshalJSON(data []byte) error {
	type Alias TokenResponse
	var result Alias
	// base parameters
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	// extension parameters
	additionalParams := map[string]interface{}{}
	_ = json.Unmarshal(data, &additionalParams) // can't fail, already unmarshalled
	for _, param := range baseTokenResponseParams {
		delete(additionalParams, param)
	}
	*t = TokenResponse(result)
	if len(additionalParams) > 0 {
		t.additionalParams = additionalParams
	}
	return nil
}

func (t TokenResponse) MarshalJSON() ([]byte, error) {
	result := make(map[string]interface{})
	for key, value := range t.additionalParams {
		result[key] = value
	}
	result["access_token"] = t.AccessToken
	result["token_type"] = t.TokenType
	if t.ExpiresIn != nil {
		result["expires_in"] = t.ExpiresIn
	}
	if t.RefreshToken != "" {
		result["refresh_token"] = t.RefreshToken
	}
	if t.Scope != nil {
		result["scope"] = t.Scope
	}
	return json.Marshal(result)
}

// With adds a parameter to the token response.
// It's a builder-style function.
// It should not be used to set any of the base parameters (access_token, expires_in, token_type, refresh_token, scope).
func (t *TokenResponse) With(key string, value interface{}) *TokenResponse {
	if t.additionalParams == nil {
		t.additionalParams = make(map[string]interface{})
	}
	t.additionalParams[key] = value
	return t
}

// Get returns the value of the additional parameter with the given key as a string.
// If the key does not exist or the value is not a string, it returns an empty string.
// It should not be used to get any of the base parameters.
func (t TokenResponse) Get(key string) string {
	if t.additionalParams == nil {
		return ""
	}
	if val, ok := t.additionalParams[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// metadata endpoints
const (
	// AuthzServerWellKnown is the well-known base path for the oauth authorization server metadata as defined in RFC8414
	AuthzServerWellKnown = "/.well-known/oauth-authorization-server"
	// OpenIdCredIssuerWellKnown is the well-known base path for the openID credential issuer metadata as defined in
	// OpenID4VCI specification
	OpenIdCredIssuerWellKnown = "/.well-known/openid-credential-issuer"
	// OpenIdConfigurationWellKnown is the well-known base path for the OpenID Connect provider metadata
	OpenIdConfigurationWellKnown = "/.well-known/openid-configuration"
)

// oauth parameter keys
const (
	// AuthorizationDetailsParam is the parameter name for the authorization_details parameter. (RFC9396)
	AuthorizationDetailsParam = "authorization_details"
	// ClientIDParam is the parameter name for the client_id parameter. (RFC6749)
	ClientIDParam = "client_id"
	// ClientIDSchemeParam is the parameter name for the client_id_scheme parameter. (OpenID4VP draft)
	ClientIDSchemeParam = "client_id_scheme"
	// CNonceParam is the parameter name for the c_nonce parameter. (OpenID4VCI)
	CNonceParam = "c_nonce"
	// CodeParam is the parameter name for the code parameter. (RFC6749)
	CodeParam = CodeResponseType
	// CodeChallengeParam is the parameter name for the code_challenge parameter. (RFC7636)
	CodeChallengeParam = "code_challenge"
	// CodeChallengeMethodParam is the parameter name for the code_challenge_method parameter. (RFC7636)
	CodeChallengeMethodParam = "code_challenge_method"
	// CodeVerifierParam is the parameter name for the code_verifier parameter. (RFC7636)
	CodeVerifierParam = "code_verifier"
	// DCQLQueryParam is the parameter name for the dcql_query parameter. (OpenID4VP)
	DCQLQueryParam = "dcql_query"
	// GrantTypeParam is the parameter name for the grant_type parameter. (RFC6749)
	GrantTypeParam = "grant_type"
	// IssuerStateParam is the parameter name for the issuer_state parameter. (OpenID4VCI)
	IssuerStateParam = "issuer_state"
	// NonceParam is the parameter name for the nonce parameter
	NonceParam = "nonce"
	// PreAuthorizedCodeParam is the parameter name for the pre-authorized_code parameter. (OpenID4VCI)
	PreAuthorizedCodeParam = "pre-authorized_code"
	// RedirectURIParam is the parameter name for the redirect_uri parameter. (RFC6749)
	RedirectURIParam = "redirect_uri"
	// RefreshTokenParam is the parameter name for the refresh_token parameter. (RFC6749)
	RefreshTokenParam = "refresh_token"
	// RequestParam is the parameter name for the request parameter.	(RFC9101)
	RequestParam = "request"
	// RequestURIParam is the parameter name for the request parameter. (RFC9101)
	RequestURIParam = "request_uri"
	// RequestURIMethodParam states what http method (get/post) should be used for RequestURIParam. (OpenID4VP)
	RequestURIMethodParam = "request_uri_method"
	// ResponseModeParam is the parameter name for the OAuth2 response_mode parameter.
	ResponseModeParam = "response_mode"
	// ResponseTypeParam is the parameter name for the response_type parameter. (RFC6749)
	ResponseTypeParam = "response_type"
	// ResponseURIParam is the parameter name for the OpenID4VP response_uri parameter.
	ResponseURIParam = "response_uri"
	// ScopeParam is the parameter name for the scope parameter. (RFC6749)
	ScopeParam = "scope"
	// StateParam is the parameter name for the state parameter. (RFC6749)
	StateParam = "state"
	// TransactionDataParam is the parameter name for the transaction_data parameter. (OpenID4VP)
	TransactionDataParam = "transaction_data"
	// TxCodeParam is the parameter name for the tx_code parameter. (OpenID4VCI)
	TxCodeParam = "tx_code"
	// VpTokenParam is the parameter name for the vp_token parameter. (OpenID4VP)
	VpTokenParam = "vp_token"
	// WalletMetadataParam is used by the wallet to provide its metadata in an authorization request when RequestURIMethodParam is 'post'
	WalletMetadataParam = "wallet_metadata"
	// WalletNonceParam is a wallet generated nonce to prevent authorization request replay when RequestURIMethodParam is 'post'
	WalletNonceParam = "wallet_nonce"
)

// grant types
const (
	// AuthorizationCodeGrantType is the grant_type for the authorization_code grant type. (RFC6749)
	AuthorizationCodeGrantType = "authorization_code"
	// PreAuthorizedCodeGrantType is the grant_type for the pre-authorized_code grant type. (OpenID4VCI)
	PreAuthorizedCodeGrantType = "urn:ietf:params:oauth:grant-type:pre-authorized_code"
	// RefreshTokenGrantType is the grant_type for the refresh_token grant type. (RFC6749)
	RefreshTokenGrantType = "refresh_token"
)

// response types
const (
	// CodeResponseType is the parameter name for the code parameter. (RFC6749)
	CodeResponseType = "code"
	// VPTokenResponseType is paramter name for the vp_token repsponse type. (OpenID4VP)
	VPTokenResponseType = "vp_token"
)

// token types
const (
	// BearerTokenType is the token_type for bearer tokens. (RFC6750)
	BearerTokenType = "Bearer"
	// DPoPTokenType is the token_type for DPoP-bound tokens. (RFC9449)
	DPoPTokenType = "DPoP"
)

// HTTP headers
const (
	// DPoPHeader is the header carrying a DPoP proof. (RFC9449)
	DPoPHeader = "DPoP"
	// DPoPNonceHeader is the header in which a server supplies a DPoP nonce. (RFC9449)
	DPoPNonceHeader = "DPoP-Nonce"
	// ClientAttestationHeader carries the client attestation JWT. (OAuth 2.0 Attestation-Based Client Authentication)
	ClientAttestationHeader = "OAuth-Client-Attestation"
	// ClientAttestationPoPHeader carries the proof of possession of the client attestation key.
	ClientAttestationPoPHeader = "OAuth-Client-Attestation-PoP"
)

const (
	// ErrorParam is the parameter name for the error parameter
	ErrorParam = "error"
	// ErrorDescriptionParam is the parameter name for the error_description parameter
	ErrorDescriptionParam = "error_description"
)

// PKCES256Method is the only supported code_challenge_method. (RFC7636)
const PKCES256Method = "S256"

// IssuerIdToWellKnown converts the OAuth2 Issuer identity to the specified well-known endpoint by inserting the well-known at the root of the path.
// It returns no url and an error when issuer is not a valid URL.
func IssuerIdToWellKnown(issuer string, wellKnown string, strictmode bool) (*url.URL, error) {
	issuerURL, err := core.ParsePublicURL(issuer, strictmode)
	if err != nil {
		return nil, err
	}
	path := issuerURL.EscapedPath()
	if path == "/" {
		path = ""
	}
	return issuerURL.Parse(wellKnown + path)
}

// AuthorizationServerMetadata defines the OAuth Authorization Server metadata.
// Specified by https://www.rfc-editor.org/rfc/rfc8414.txt
type AuthorizationServerMetadata struct {
	// Issuer defines the authorization server's identifier, which is a URL that uses the "https" scheme and has no query or fragment components.
	Issuer string `json:"issuer,omitempty"`

	// AuthorizationEndpoint defines the URL of the authorization server's authorization endpoint [RFC6749]
	AuthorizationEndpoint string `json:"authorization_endpoint,omitempty"`

	// TokenEndpoint defines the URL of the authorization server's token endpoint [RFC6749].
	TokenEndpoint string `json:"token_endpoint,omitempty"`

	// PushedAuthorizationRequestEndpoint is the URL of the pushed authorization request endpoint [RFC9126].
	PushedAuthorizationRequestEndpoint string `json:"pushed_authorization_request_endpoint,omitempty"`

	// RequirePushedAuthorizationRequests indicates whether the server only accepts authorization requests via PAR [RFC9126].
	RequirePushedAuthorizationRequests bool `json:"require_pushed_authorization_requests,omitempty"`

	// ResponseTypesSupported defines what response types a client can request
	ResponseTypesSupported []string `json:"response_types_supported,omitempty"`

	// GrantTypesSupported is a list of the OAuth 2.0 grant type values that this authorization server supports.
	GrantTypesSupported []string `json:"grant_types_supported,omitempty"`

	// CodeChallengeMethodsSupported lists the PKCE code challenge methods [RFC7636].
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`

	// PreAuthorizedGrantAnonymousAccessSupported indicates whether anonymous access (requests without client_id) for pre-authorized code grant flows.
	// See https://openid.net/specs/openid-4-verifiable-credential-issuance-1_0.html#name-oauth-20-authorization-serv
	PreAuthorizedGrantAnonymousAccessSupported bool `json:"pre-authorized_grant_anonymous_access_supported,omitempty"`

	// DPoPSigningAlgValuesSupported is a JSON array containing a list of the DPoP proof JWS signing algorithms ("alg" values) supported by the token endpoint.
	DPoPSigningAlgValuesSupported []string `json:"dpop_signing_alg_values_supported,omitempty"`

	// TokenEndpointAuthMethodsSupported lists the client authentication methods supported by the token endpoint.
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty"`
}

// SupportsDPoP checks if the Authorization Server accepts DPoP proofs signed with the given algorithm.
func (m AuthorizationServerMetadata) SupportsDPoP(alg string) bool {
	return slices.Contains(m.DPoPSigningAlgValuesSupported, alg)
}

// PushedAuthorizationResponse is the response of a pushed authorization request. (RFC9126)
type PushedAuthorizationResponse struct {
	RequestURI string `json:"request_uri"`
	ExpiresIn  int    `json:"expires_in"`
}

// Redirect is the response from the verifier on the direct_post authorization response.
type Redirect struct {
	// RedirectURI is the URI to redirect the user-agent to.
	RedirectURI string `json:"redirect_uri"`
}

// OAuth2Error is an error response as defined by RFC6749 section 5.2.
type OAuth2Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e OAuth2Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s - %s", e.Code, e.Description)
}

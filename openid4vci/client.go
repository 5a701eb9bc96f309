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

package openid4vci

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/openid4vci/log"
	"github.com/nuts-foundation/nuts-wallet/oauth"
)

// IssuerAPIClient defines the calls a wallet makes to a credential issuer and its authorization server.
type IssuerAPIClient interface {
	// CredentialIssuerMetadata loads the metadata of the given credential issuer.
	// The caller decides whether the credential_issuer in the metadata must match the identifier.
	CredentialIssuerMetadata(ctx context.Context, credentialIssuer string) (*CredentialIssuerMetadata, error)
	// AuthorizationServerMetadata loads the metadata of the given authorization server.
	// It falls back to the OpenID Connect discovery document if the RFC8414 document is not available.
	AuthorizationServerMetadata(ctx context.Context, authorizationServer string) (*oauth.AuthorizationServerMetadata, error)
	// CredentialOffer retrieves a credential offer by reference (credential_offer_uri).
	CredentialOffer(ctx context.Context, offerURI string) (*CredentialOfferParameters, error)
	// PushedAuthorizationRequest pushes the authorization request parameters to the authorization server. (RFC9126)
	PushedAuthorizationRequest(ctx context.Context, endpoint string, params url.Values, options CallOptions) (*oauth.PushedAuthorizationResponse, error)
	// AccessToken requests an access token at the token endpoint.
	AccessToken(ctx context.Context, tokenEndpoint string, params url.Values, options CallOptions) (*oauth.TokenResponse, error)
	// Nonce requests a fresh c_nonce at the nonce endpoint.
	Nonce(ctx context.Context, nonceEndpoint string) (string, error)
	// RequestCredential requests credentials at the credential endpoint.
	// If the issuer defers issuance, the response contains a transaction ID instead of credentials.
	RequestCredential(ctx context.Context, credentialEndpoint string, request CredentialRequest, options CallOptions) (*CredentialResponse, error)
	// RequestDeferredCredential polls the deferred credential endpoint.
	// If the credential is not yet available, the response has Pending set.
	RequestDeferredCredential(ctx context.Context, deferredEndpoint string, transactionID string, options CallOptions) (*CredentialResponse, error)
}

// CallOptions controls client authentication and sender constraining of a call.
type CallOptions struct {
	// AccessToken is sent in the Authorization header, if set.
	AccessToken string
	// DPoP adds DPoP proofs to the request when set. The access token is then sent with the DPoP scheme.
	DPoP *DPoPProver
	// ClientAttestation authenticates the wallet using attestation-based client authentication, if set.
	ClientAttestation *attestation.ClientAttestation
	// Audience is the audience of the client attestation PoP, typically the authorization server's issuer.
	Audience string
}

func (o CallOptions) apply(request *http.Request) error {
	if o.DPoP != nil {
		proof, err := o.DPoP.Proof(request, o.AccessToken)
		if err != nil {
			return fmt.Errorf("unable to create DPoP proof: %w", err)
		}
		request.Header.Set(oauth.DPoPHeader, proof)
	}
	if o.AccessToken != "" {
		scheme := oauth.BearerTokenType
		if o.DPoP != nil {
			scheme = oauth.DPoPTokenType
		}
		request.Header.Set("Authorization", scheme+" "+o.AccessToken)
	}
	if o.ClientAttestation != nil {
		if err := o.ClientAttestation.Apply(request, o.Audience, ""); err != nil {
			return fmt.Errorf("unable to create client attestation PoP: %w", err)
		}
	}
	return nil
}

var _ IssuerAPIClient = (*defaultIssuerAPIClient)(nil)

// NewIssuerAPIClient creates an IssuerAPIClient.
// Metadata is loaded through metadataClient (which may cache), all other calls through httpClient.
func NewIssuerAPIClient(httpClient core.HTTPRequestDoer, metadataClient core.HTTPRequestDoer, strictmode bool) IssuerAPIClient {
	return &defaultIssuerAPIClient{
		httpClient:     httpClient,
		metadataClient: metadataClient,
		strictMode:     strictmode,
	}
}

type defaultIssuerAPIClient struct {
	httpClient     core.HTTPRequestDoer
	metadataClient core.HTTPRequestDoer
	strictMode     bool
}

func (c defaultIssuerAPIClient) CredentialIssuerMetadata(ctx context.Context, credentialIssuer string) (*CredentialIssuerMetadata, error) {
	metadataURL, err := oauth.IssuerIdToWellKnown(credentialIssuer, oauth.OpenIdCredIssuerWellKnown, c.strictMode)
	if err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("invalid credential issuer identifier (issuer=%s): %w", credentialIssuer, err))
	}
	var result CredentialIssuerMetadata
	if err := c.httpGet(ctx, c.metadataClient, metadataURL.String(), &result); err != nil {
		return nil, fmt.Errorf("unable to load credential issuer metadata (issuer=%s): %w", credentialIssuer, err)
	}
	if result.CredentialEndpoint == "" {
		return nil, core.ConfigurationError(fmt.Errorf("credential issuer metadata has no credential endpoint (issuer=%s)", credentialIssuer))
	}
	return &result, nil
}

func (c defaultIssuerAPIClient) AuthorizationServerMetadata(ctx context.Context, authorizationServer string) (*oauth.AuthorizationServerMetadata, error) {
	var errs []error
	for _, wellKnown := range []string{oauth.AuthzServerWellKnown, oauth.OpenIdConfigurationWellKnown} {
		metadataURL, err := oauth.IssuerIdToWellKnown(authorizationServer, wellKnown, c.strictMode)
		if err != nil {
			return nil, core.ConfigurationError(fmt.Errorf("invalid authorization server identifier (issuer=%s): %w", authorizationServer, err))
		}
		var result oauth.AuthorizationServerMetadata
		if err := c.httpGet(ctx, c.metadataClient, metadataURL.String(), &result); err != nil {
			errs = append(errs, err)
			continue
		}
		return &result, nil
	}
	return nil, fmt.Errorf("unable to load authorization server metadata (issuer=%s): %w", authorizationServer, errors.Join(errs...))
}

func (c defaultIssuerAPIClient) CredentialOffer(ctx context.Context, offerURI string) (*CredentialOfferParameters, error) {
	if _, err := core.ParsePublicURL(offerURI, c.strictMode); err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("invalid credential offer URI: %w", err))
	}
	var result CredentialOfferParameters
	if err := c.httpGet(ctx, c.httpClient, offerURI, &result); err != nil {
		return nil, fmt.Errorf("unable to retrieve credential offer: %w", err)
	}
	return &result, nil
}

func (c defaultIssuerAPIClient) PushedAuthorizationRequest(ctx context.Context, endpoint string, params url.Values, options CallOptions) (*oauth.PushedAuthorizationResponse, error) {
	statusCode, body, err := c.exchange(ctx, http.MethodPost, endpoint, formBody(params), "application/x-www-form-urlencoded", options)
	if err != nil {
		return nil, fmt.Errorf("pushed authorization request failed: %w", err)
	}
	// RFC9126 prescribes 201, but some servers respond with 200
	if statusCode != http.StatusCreated && statusCode != http.StatusOK {
		return nil, fmt.Errorf("pushed authorization request failed: %w", errorFromResponse(statusCode, body, core.NewHttpError(statusCode, body)))
	}
	var result oauth.PushedAuthorizationResponse
	if err := unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.RequestURI == "" {
		return nil, core.ProtocolError(errors.New("pushed authorization response has no request_uri"))
	}
	return &result, nil
}

func (c defaultIssuerAPIClient) AccessToken(ctx context.Context, tokenEndpoint string, params url.Values, options CallOptions) (*oauth.TokenResponse, error) {
	log.Logger().
		WithField(core.LogFieldGrantType, params.Get(oauth.GrantTypeParam)).
		Debugf("Requesting access token (endpoint=%s)", tokenEndpoint)
	statusCode, body, err := c.exchange(ctx, http.MethodPost, tokenEndpoint, formBody(params), "application/x-www-form-urlencoded", options)
	if err != nil {
		return nil, fmt.Errorf("access token request failed: %w", err)
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("access token request failed: %w", errorFromResponse(statusCode, body, core.NewHttpError(statusCode, body)))
	}
	var result oauth.TokenResponse
	if err := unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, core.ProtocolError(errors.New("token response has no access_token"))
	}
	return &result, nil
}

func (c defaultIssuerAPIClient) Nonce(ctx context.Context, nonceEndpoint string) (string, error) {
	statusCode, body, err := c.exchange(ctx, http.MethodPost, nonceEndpoint, nil, "", CallOptions{})
	if err != nil {
		return "", fmt.Errorf("nonce request failed: %w", err)
	}
	if statusCode != http.StatusOK {
		return "", fmt.Errorf("nonce request failed: %w", errorFromResponse(statusCode, body, core.NewHttpError(statusCode, body)))
	}
	var result NonceResponse
	if err := unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.CNonce == "" {
		return "", core.ProtocolError(errors.New("nonce response has no c_nonce"))
	}
	return result.CNonce, nil
}

func (c defaultIssuerAPIClient) RequestCredential(ctx context.Context, credentialEndpoint string, request CredentialRequest, options CallOptions) (*CredentialResponse, error) {
	requestBody, _ := json.Marshal(request)
	statusCode, body, err := c.exchange(ctx, http.MethodPost, credentialEndpoint, requestBody, "application/json", options)
	if err != nil {
		return nil, fmt.Errorf("credential request failed: %w", err)
	}
	switch statusCode {
	case http.StatusOK, http.StatusAccepted:
	default:
		return nil, fmt.Errorf("credential request failed: %w", errorFromResponse(statusCode, body, core.NewHttpError(statusCode, body)))
	}
	var result CredentialResponse
	if err := unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.TransactionID == "" && len(result.Credentials) == 0 && len(result.Credential) == 0 {
		return nil, core.ProtocolError(errors.New("credential response contains neither credentials nor a transaction_id"))
	}
	return &result, nil
}

func (c defaultIssuerAPIClient) RequestDeferredCredential(ctx context.Context, deferredEndpoint string, transactionID string, options CallOptions) (*CredentialResponse, error) {
	requestBody, _ := json.Marshal(DeferredCredentialRequest{TransactionID: transactionID})
	statusCode, body, err := c.exchange(ctx, http.MethodPost, deferredEndpoint, requestBody, "application/json", options)
	if err != nil {
		return nil, fmt.Errorf("deferred credential request failed: %w", err)
	}
	switch statusCode {
	case http.StatusOK:
		var result CredentialResponse
		if err := unmarshal(body, &result); err != nil {
			return nil, err
		}
		if len(result.Credentials) == 0 && len(result.Credential) == 0 {
			// some issuers signal a pending credential with a 200 and a new transaction_id
			if result.TransactionID == "" {
				return nil, core.ProtocolError(errors.New("deferred credential response contains no credentials"))
			}
			result.Pending = true
		}
		return &result, nil
	case http.StatusAccepted:
		result := CredentialResponse{TransactionID: transactionID}
		if err := unmarshal(body, &result); err != nil {
			return nil, err
		}
		result.Pending = true
		if result.TransactionID == "" {
			result.TransactionID = transactionID
		}
		return &result, nil
	}
	err = errorFromResponse(statusCode, body, core.NewHttpError(statusCode, body))
	var protocolErr Error
	if errors.As(err, &protocolErr) && protocolErr.Code == IssuancePending {
		return &CredentialResponse{TransactionID: transactionID, Interval: protocolErr.Interval, Pending: true}, nil
	}
	return nil, fmt.Errorf("deferred credential request failed: %w", err)
}

func (c defaultIssuerAPIClient) httpGet(ctx context.Context, client core.HTTPRequestDoer, requestURL string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("http request error (url=%s): %w", requestURL, err)
	}
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		return err
	}
	return core.ReadJSON(response, target)
}

// exchange performs the request with the given call options and returns the status code and response body.
// If the server demands a DPoP nonce, the request is retried once with the nonce it provided.
func (c defaultIssuerAPIClient) exchange(ctx context.Context, method string, requestURL string, body []byte, contentType string, options CallOptions) (int, []byte, error) {
	for attempt := 0; ; attempt++ {
		request, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(body))
		if err != nil {
			return 0, nil, core.ConfigurationError(err)
		}
		if contentType != "" {
			request.Header.Set("Content-Type", contentType)
		}
		request.Header.Set("Accept", "application/json")
		if err := options.apply(request); err != nil {
			return 0, nil, err
		}
		response, err := c.httpClient.Do(request)
		if err != nil {
			return 0, nil, fmt.Errorf("http request error (url=%s): %w", requestURL, err)
		}
		responseBody, err := io.ReadAll(response.Body)
		_ = response.Body.Close()
		if err != nil {
			return 0, nil, core.TransientError(fmt.Errorf("unable to read response body (url=%s): %w", requestURL, err))
		}
		if options.DPoP != nil {
			nonce := response.Header.Get(oauth.DPoPNonceHeader)
			options.DPoP.UpdateNonce(request.URL.Host, nonce)
			if attempt == 0 && nonce != "" && isDPoPNonceChallenge(response, responseBody) {
				log.Logger().WithField(core.LogFieldURL, requestURL).Debug("Server requires DPoP nonce, retrying request")
				continue
			}
		}
		return response.StatusCode, responseBody, nil
	}
}

func isDPoPNonceChallenge(response *http.Response, body []byte) bool {
	switch response.StatusCode {
	case http.StatusBadRequest:
		var protocolErr Error
		return json.Unmarshal(body, &protocolErr) == nil && protocolErr.Code == UseDPoPNonce
	case http.StatusUnauthorized:
		return strings.Contains(response.Header.Get("WWW-Authenticate"), string(UseDPoPNonce))
	}
	return false
}

func formBody(params url.Values) []byte {
	return []byte(params.Encode())
}

func unmarshal(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return core.ProtocolError(fmt.Errorf("%T JSON unmarshal error: %w, %s", target, err, core.ClipBody(data)))
	}
	return nil
}

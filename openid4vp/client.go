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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vp/log"
)

// RequestObjectContentType is the media type of a request object. (RFC9101)
const RequestObjectContentType = "application/oauth-authz-req+jwt"

// VerifierAPIClient defines the calls a wallet makes to a verifier.
type VerifierAPIClient interface {
	// RequestObject retrieves the request object from the request_uri with a GET request.
	RequestObject(ctx context.Context, requestURI string) (string, error)
	// RequestObjectByPost retrieves the request object from the request_uri with a POST request (request_uri_method=post),
	// passing the wallet's metadata and a nonce the verifier must put in the request object.
	RequestObjectByPost(ctx context.Context, requestURI string, metadata WalletMetadata, walletNonce string) (string, error)
	// JWKS retrieves the JWK set of a verifier.
	JWKS(ctx context.Context, jwksURI string) (jwk.Set, error)
	// PostAuthorizationResponse posts the authorization response to the response_uri (response_mode=direct_post).
	// It returns the redirect_uri from the verifier's response, if any.
	PostAuthorizationResponse(ctx context.Context, responseURI string, params url.Values) (string, error)
}

var _ VerifierAPIClient = (*defaultVerifierAPIClient)(nil)

// NewVerifierAPIClient creates a VerifierAPIClient.
// JWK sets are loaded through metadataClient (which may cache), all other calls through httpClient.
func NewVerifierAPIClient(httpClient core.HTTPRequestDoer, metadataClient core.HTTPRequestDoer, strictmode bool) VerifierAPIClient {
	return &defaultVerifierAPIClient{
		httpClient:     httpClient,
		metadataClient: metadataClient,
		strictMode:     strictmode,
	}
}

type defaultVerifierAPIClient struct {
	httpClient     core.HTTPRequestDoer
	metadataClient core.HTTPRequestDoer
	strictMode     bool
}

func (c defaultVerifierAPIClient) RequestObject(ctx context.Context, requestURI string) (string, error) {
	if _, err := core.ParsePublicURL(requestURI, c.strictMode); err != nil {
		return "", core.ConfigurationError(fmt.Errorf("%w: invalid request_uri: %w", ErrInvalidRequest, err))
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURI, nil)
	if err != nil {
		return "", err
	}
	return c.requestObject(request)
}

func (c defaultVerifierAPIClient) RequestObjectByPost(ctx context.Context, requestURI string, metadata WalletMetadata, walletNonce string) (string, error) {
	if _, err := core.ParsePublicURL(requestURI, c.strictMode); err != nil {
		return "", core.ConfigurationError(fmt.Errorf("%w: invalid request_uri: %w", ErrInvalidRequest, err))
	}
	metadataJSON, _ := json.Marshal(metadata)
	form := url.Values{}
	form.Set(oauth.WalletMetadataParam, string(metadataJSON))
	form.Set(oauth.WalletNonceParam, walletNonce)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.requestObject(request)
}

func (c defaultVerifierAPIClient) requestObject(request *http.Request) (string, error) {
	request.Header.Set("Accept", RequestObjectContentType)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("unable to retrieve request object (url=%s): %w", request.URL, err)
	}
	defer response.Body.Close()
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		return "", classify(err)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", core.TransientError(fmt.Errorf("unable to read request object: %w", err))
	}
	return strings.TrimSpace(string(data)), nil
}

func (c defaultVerifierAPIClient) JWKS(ctx context.Context, jwksURI string) (jwk.Set, error) {
	if _, err := core.ParsePublicURL(jwksURI, c.strictMode); err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("invalid jwks_uri: %w", err))
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURI, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	response, err := c.metadataClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve JWK set (url=%s): %w", jwksURI, err)
	}
	defer response.Body.Close()
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		return nil, classify(err)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, core.TransientError(fmt.Errorf("unable to read JWK set: %w", err))
	}
	result, err := jwk.Parse(data)
	if err != nil {
		return nil, core.ProtocolError(fmt.Errorf("invalid JWK set (url=%s): %w", jwksURI, err))
	}
	return result, nil
}

func (c defaultVerifierAPIClient) PostAuthorizationResponse(ctx context.Context, responseURI string, params url.Values) (string, error) {
	if _, err := core.ParsePublicURL(responseURI, c.strictMode); err != nil {
		return "", core.ConfigurationError(fmt.Errorf("%w: invalid response_uri: %w", ErrInvalidRequest, err))
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURI, bytes.NewReader([]byte(params.Encode())))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("unable to post authorization response (url=%s): %w", responseURI, err)
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", core.TransientError(fmt.Errorf("unable to read authorization response result: %w", err))
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		log.Logger().WithField(core.LogFieldURL, responseURI).Infof("Verifier rejected authorization response (status=%d): %s", response.StatusCode, core.ClipBody(data))
		return "", core.ProtocolError(core.WrapError(ErrPresentationRejected, core.NewHttpError(response.StatusCode, data)))
	}
	// the response body is optional, only redirect_uri is of interest
	var result struct {
		RedirectURI string `json:"redirect_uri"`
	}
	if len(bytes.TrimSpace(data)) > 0 {
		_ = json.Unmarshal(data, &result)
	}
	return result.RedirectURI, nil
}

// classify reports server errors as transient, other unexpected responses as protocol errors.
func classify(err error) error {
	var httpErr core.HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode >= 500 {
		return core.TransientError(err)
	}
	return core.ProtocolError(err)
}

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
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vp/log"
)

// requestObjectSkew is the clock skew allowed when validating exp, iat and nbf of request objects.
const requestObjectSkew = time.Minute

var _ RequestResolver = (*requestResolver)(nil)

// NewRequestResolver creates a RequestResolver that retrieves request objects with the client
// and trusts their signers according to the trust policy.
func NewRequestResolver(client VerifierAPIClient, trust *TrustPolicy) RequestResolver {
	return &requestResolver{
		client:   client,
		trust:    trust,
		metadata: defaultWalletMetadata(),
	}
}

type requestResolver struct {
	client   VerifierAPIClient
	trust    *TrustPolicy
	metadata WalletMetadata
}

func (r requestResolver) Resolve(ctx context.Context, requestURI string) (*AuthorizationRequest, error) {
	parsed, err := url.Parse(requestURI)
	if err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}
	q := parsed.Query()
	var rawRequestObject, walletNonce string
	if rawRequestObject = q.Get(oauth.RequestParam); rawRequestObject != "" {
		if q.Has(oauth.RequestURIParam) {
			return nil, core.ProtocolError(fmt.Errorf("%w: request and request_uri are mutually exclusive", ErrInvalidRequest))
		}
	} else if requestObjectURI := q.Get(oauth.RequestURIParam); requestObjectURI != "" {
		// case-sensitive, absent means get
		switch method := q.Get(oauth.RequestURIMethodParam); method {
		case "", "get":
			rawRequestObject, err = r.client.RequestObject(ctx, requestObjectURI)
		case "post":
			walletNonce = nutsCrypto.GenerateNonce()
			rawRequestObject, err = r.client.RequestObjectByPost(ctx, requestObjectURI, r.metadata, walletNonce)
		default:
			return nil, core.ProtocolError(fmt.Errorf("%w: unsupported request_uri_method: %s", ErrInvalidRequest, method))
		}
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve request object: %w", err)
		}
	} else {
		return nil, core.ProtocolError(ErrRequestNotSigned)
	}
	request, err := r.verify(ctx, rawRequestObject, q.Get(oauth.ClientIDParam), walletNonce)
	if err != nil {
		return nil, err
	}
	log.Logger().
		WithField(core.LogFieldClientID, request.ClientID).
		WithField(core.LogFieldClientIDScheme, request.ClientIDScheme).
		Debugf("Resolved presentation request (response_mode=%s)", request.ResponseMode)
	return request, nil
}

// verify checks the signature of the request object and validates its claims.
// The client_id in the request URI, if present, must match the client_id claim.
func (r requestResolver) verify(ctx context.Context, rawRequestObject string, clientID string, walletNonce string) (*AuthorizationRequest, error) {
	message, err := jws.ParseString(rawRequestObject)
	if err != nil {
		return nil, core.ProtocolError(fmt.Errorf("%w: request object is not a JWS: %w", ErrRequestNotSigned, err))
	}
	// the client_id and scheme determine how to trust the signature, so read them before verification
	unverified, err := jwt.ParseInsecure([]byte(rawRequestObject))
	if err != nil {
		return nil, core.ProtocolError(fmt.Errorf("%w: invalid request object: %w", ErrInvalidRequest, err))
	}
	claimClientID := stringClaim(unverified, oauth.ClientIDParam)
	if claimClientID == "" {
		return nil, core.ProtocolError(fmt.Errorf("%w: request object has no client_id", ErrInvalidRequest))
	}
	if clientID != "" && clientID != claimClientID {
		return nil, core.ProtocolError(fmt.Errorf("%w: client_id does not match the client_id of the request object", ErrInvalidRequest))
	}
	scheme, bareClientID := splitClientID(claimClientID, stringClaim(unverified, oauth.ClientIDSchemeParam))
	alg, key, err := r.trust.VerificationKey(ctx, scheme, bareClientID, message.Signatures()[0].ProtectedHeaders())
	if err != nil {
		return nil, err
	}
	token, err := jwt.ParseString(rawRequestObject, jwt.WithKey(alg, key), jwt.WithValidate(true), jwt.WithAcceptableSkew(requestObjectSkew))
	if err != nil {
		return nil, untrusted(fmt.Sprintf("request object signature validation failed: %s", err))
	}
	if walletNonce != "" && stringClaim(token, oauth.WalletNonceParam) != walletNonce {
		return nil, core.ProtocolError(fmt.Errorf("%w: wallet_nonce does not match", ErrInvalidRequest))
	}
	request := &AuthorizationRequest{
		ClientID:       claimClientID,
		ClientIDScheme: scheme,
		ResponseType:   stringClaim(token, oauth.ResponseTypeParam),
		ResponseMode:   stringClaim(token, oauth.ResponseModeParam),
		ResponseURI:    stringClaim(token, oauth.ResponseURIParam),
		RedirectURI:    stringClaim(token, oauth.RedirectURIParam),
		Nonce:          stringClaim(token, oauth.NonceParam),
		State:          stringClaim(token, oauth.StateParam),
	}
	if err := validateRequest(request, bareClientID); err != nil {
		return nil, err
	}
	if request.DCQLQuery, err = dcqlQuery(token); err != nil {
		return nil, err
	}
	if request.TransactionData, err = transactionData(token); err != nil {
		return nil, err
	}
	return request, nil
}

func validateRequest(request *AuthorizationRequest, bareClientID string) error {
	if !slices.Contains(strings.Fields(request.ResponseType), oauth.VPTokenResponseType) {
		return core.ProtocolError(fmt.Errorf("%w: response_type must include vp_token", ErrInvalidRequest))
	}
	if request.Nonce == "" {
		return core.ProtocolError(fmt.Errorf("%w: request object has no nonce", ErrInvalidRequest))
	}
	if request.ResponseMode == "" {
		request.ResponseMode = ResponseModeFragment
	}
	var target string
	switch request.ResponseMode {
	case ResponseModeDirectPost:
		target = request.ResponseURI
		if target == "" {
			return core.ProtocolError(fmt.Errorf("%w: response_mode direct_post requires a response_uri", ErrInvalidRequest))
		}
	case ResponseModeFragment, ResponseModeQuery:
		target = request.RedirectURI
		if target == "" {
			return core.ProtocolError(fmt.Errorf("%w: response_mode %s requires a redirect_uri", ErrInvalidRequest, request.ResponseMode))
		}
	default:
		return core.ProtocolError(fmt.Errorf("%w: %s", ErrUnsupportedResponseMode, request.ResponseMode))
	}
	if request.ClientIDScheme == X509SanDNSScheme {
		// the response must go to the host the certificate was issued to
		targetURL, err := url.Parse(target)
		if err != nil || targetURL.Hostname() != bareClientID {
			return untrusted(fmt.Sprintf("response target is not on the client_id's host (client_id=%s)", bareClientID))
		}
	}
	return nil
}

func splitClientID(clientID string, schemeClaim string) (ClientIDScheme, string) {
	for _, scheme := range []ClientIDScheme{X509SanDNSScheme, X509HashScheme} {
		if bare, ok := strings.CutPrefix(clientID, string(scheme)+":"); ok {
			return scheme, bare
		}
	}
	if schemeClaim != "" {
		return ClientIDScheme(schemeClaim), clientID
	}
	return PreRegisteredScheme, clientID
}

func dcqlQuery(token jwt.Token) (*DCQLQuery, error) {
	value, ok := token.Get(oauth.DCQLQueryParam)
	if !ok {
		return nil, nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	default:
		data, _ = json.Marshal(v)
	}
	var result DCQLQuery
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, core.ProtocolError(fmt.Errorf("%w: invalid dcql_query: %w", ErrInvalidRequest, err))
	}
	return &result, nil
}

func transactionData(token jwt.Token) ([]TransactionData, error) {
	value, ok := token.Get(oauth.TransactionDataParam)
	if !ok {
		return nil, nil
	}
	items, ok := value.([]interface{})
	if !ok {
		return nil, core.ProtocolError(fmt.Errorf("%w: transaction_data must be an array", ErrInvalidRequest))
	}
	var result []TransactionData
	for _, item := range items {
		encoded, ok := item.(string)
		if !ok {
			return nil, core.ProtocolError(fmt.Errorf("%w: transaction_data items must be strings", ErrInvalidRequest))
		}
		parsed, err := ParseTransactionData(encoded)
		if err != nil {
			return nil, core.ProtocolError(err)
		}
		result = append(result, parsed)
	}
	return result, nil
}

func stringClaim(token jwt.Token, name string) string {
	value, ok := token.Get(name)
	if !ok {
		return ""
	}
	result, _ := value.(string)
	return result
}

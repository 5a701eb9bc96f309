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
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/browser"
	"github.com/nuts-foundation/nuts-wallet/core"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/holder/log"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

var nowFunc = time.Now

var _ Negotiator = (*negotiator)(nil)

// NewNegotiator creates a Negotiator.
// The browser session is only needed for the authorization code flow and may be nil.
// Keys are used to generate DPoP keys.
func NewNegotiator(client openid4vci.IssuerAPIClient, session browser.Session, keys nutsCrypto.KeyMaterialProvider, config Config, metrics *Metrics) Negotiator {
	return &negotiator{
		client:  client,
		session: session,
		keys:    keys,
		config:  config,
		metrics: metrics,
	}
}

type negotiator struct {
	client  openid4vci.IssuerAPIClient
	session browser.Session
	keys    nutsCrypto.KeyMaterialProvider
	config  Config
	metrics *Metrics
}

func (n negotiator) Negotiate(ctx context.Context, offer CredentialOffer, options NegotiateOptions) (*AuthorizedRequest, error) {
	if offer.Grants == nil {
		return nil, core.ConfigurationError(fmt.Errorf("%w: no grants", ErrInvalidCredentialOffer))
	}
	switch grant := offer.Grants.(type) {
	case AuthorizationCode:
		return n.authorizationCode(ctx, offer, grant, options)
	case PreAuthorizedCode:
		return n.preAuthorizedCode(ctx, offer, grant, options)
	case Both:
		return n.preAuthorizedCode(ctx, offer, grant.PreAuthorizedCode, options)
	default:
		return nil, core.ConfigurationError(fmt.Errorf("unsupported grant: %s", offer.Grants.Kind()))
	}
}

func (n negotiator) preAuthorizedCode(ctx context.Context, offer CredentialOffer, grant PreAuthorizedCode, options NegotiateOptions) (*AuthorizedRequest, error) {
	params := url.Values{
		oauth.GrantTypeParam:         {oauth.PreAuthorizedCodeGrantType},
		oauth.PreAuthorizedCodeParam: {grant.Code},
	}
	if grant.TxCode != nil {
		if options.TxCode == "" {
			return nil, TransactionCodeRequiredError{TxCode: *grant.TxCode}
		}
		if err := grant.TxCode.Validate(options.TxCode); err != nil {
			return nil, core.WrapError(ErrInvalidTransactionCode, err)
		}
		params.Set(oauth.TxCodeParam, options.TxCode)
	}
	clientID := ""
	if !offer.AuthorizationServerMetadata.PreAuthorizedGrantAnonymousAccessSupported || options.ClientAttestation != nil {
		clientID = n.config.ClientID
		params.Set(oauth.ClientIDParam, clientID)
	}
	return n.token(ctx, offer, params, clientID, options.ClientAttestation)
}

func (n negotiator) authorizationCode(ctx context.Context, offer CredentialOffer, grant AuthorizationCode, options NegotiateOptions) (*AuthorizedRequest, error) {
	if n.session == nil {
		return nil, core.CapabilityError(ErrNoBrowserSession)
	}
	metadata := offer.AuthorizationServerMetadata
	authorizationEndpoint, err := url.Parse(metadata.AuthorizationEndpoint)
	if err != nil || metadata.AuthorizationEndpoint == "" {
		return nil, core.ConfigurationError(fmt.Errorf("authorization server %s has no valid authorization_endpoint", metadata.Issuer))
	}
	pkce := oauth.GeneratePKCEParams()
	state := nutsCrypto.GenerateNonce()
	redirectURI := n.redirectURI()
	params := url.Values{
		oauth.ResponseTypeParam:        {oauth.CodeResponseType},
		oauth.ClientIDParam:            {n.config.ClientID},
		oauth.RedirectURIParam:         {redirectURI},
		oauth.CodeChallengeParam:       {pkce.Challenge},
		oauth.CodeChallengeMethodParam: {pkce.ChallengeMethod},
		oauth.StateParam:               {state},
	}
	if grant.IssuerState != "" {
		params.Set(oauth.IssuerStateParam, grant.IssuerState)
	}
	if err := n.addScope(params, offer); err != nil {
		return nil, err
	}

	var authorizationURL url.URL
	if metadata.PushedAuthorizationRequestEndpoint != "" {
		callOptions := openid4vci.CallOptions{ClientAttestation: options.ClientAttestation, Audience: metadata.Issuer}
		response, err := n.client.PushedAuthorizationRequest(ctx, metadata.PushedAuthorizationRequestEndpoint, params, callOptions)
		if err != nil {
			return nil, err
		}
		authorizationURL = core.AddQueryParams(*authorizationEndpoint, map[string]string{
			oauth.ClientIDParam:   n.config.ClientID,
			oauth.RequestURIParam: response.RequestURI,
		})
	} else {
		if metadata.RequirePushedAuthorizationRequests {
			return nil, core.ConfigurationError(fmt.Errorf("authorization server %s requires PAR but has no pushed_authorization_request_endpoint", metadata.Issuer))
		}
		query := authorizationEndpoint.Query()
		for key, values := range params {
			query[key] = values
		}
		authorizationURL = *authorizationEndpoint
		authorizationURL.RawQuery = query.Encode()
	}

	redirect, err := n.session.Authorize(ctx, authorizationURL.String())
	if err != nil {
		return nil, err
	}
	code, err := authorizationCodeFromRedirect(redirect, state)
	if err != nil {
		return nil, err
	}
	tokenParams := url.Values{
		oauth.GrantTypeParam:    {oauth.AuthorizationCodeGrantType},
		oauth.CodeParam:         {code},
		oauth.RedirectURIParam:  {redirectURI},
		oauth.ClientIDParam:     {n.config.ClientID},
		oauth.CodeVerifierParam: {pkce.Verifier},
	}
	return n.token(ctx, offer, tokenParams, n.config.ClientID, options.ClientAttestation)
}

// authorizationCodeFromRedirect extracts the authorization code from the authorization response.
func authorizationCodeFromRedirect(redirect *url.URL, expectedState string) (string, error) {
	query := redirect.Query()
	if errorCode := query.Get(oauth.ErrorParam); errorCode != "" {
		oauthErr := oauth.OAuth2Error{Code: errorCode, Description: query.Get(oauth.ErrorDescriptionParam)}
		if errorCode == string(openid4vci.AccessDenied) {
			return "", core.WrapError(browser.ErrCancelled, oauthErr)
		}
		return "", core.ProtocolError(core.WrapError(ErrAuthorizationFailed, oauthErr))
	}
	if query.Get(oauth.StateParam) != expectedState {
		return "", core.ProtocolError(ErrStateMismatch)
	}
	code := query.Get(oauth.CodeParam)
	if code == "" {
		return "", core.ProtocolError(ErrMissingAuthorizationCode)
	}
	return code, nil
}

// addScope requests the first offered credential configuration, by scope if the configuration declares one
// and by authorization_details otherwise.
func (n negotiator) addScope(params url.Values, offer CredentialOffer) error {
	id := offer.CredentialConfigurationIDs[0]
	configuration, _ := offer.CredentialConfiguration(id)
	if configuration.Scope != "" {
		params.Set(oauth.ScopeParam, configuration.Scope)
		return nil
	}
	details, err := json.Marshal([]openid4vci.AuthorizationDetail{{
		Type:                      openid4vci.AuthorizationDetailsType,
		CredentialConfigurationID: id,
	}})
	if err != nil {
		return err
	}
	params.Set(oauth.AuthorizationDetailsParam, string(details))
	return nil
}

func (n negotiator) redirectURI() string {
	if redirectURI := n.session.RedirectURI(); redirectURI != "" {
		return redirectURI
	}
	return n.config.RedirectURI
}

func (n negotiator) Refresh(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest) (*AuthorizedRequest, error) {
	if authorized.RefreshToken == "" {
		return nil, core.ProtocolError(ErrAccessTokenExpired)
	}
	params := url.Values{
		oauth.GrantTypeParam:    {oauth.RefreshTokenGrantType},
		oauth.RefreshTokenParam: {authorized.RefreshToken},
	}
	if authorized.ClientID != "" {
		params.Set(oauth.ClientIDParam, authorized.ClientID)
	}
	options := openid4vci.CallOptions{DPoP: authorized.DPoP}
	response, err := n.client.AccessToken(ctx, offer.AuthorizationServerMetadata.TokenEndpoint, params, options)
	if err != nil {
		return nil, fmt.Errorf("unable to refresh access token: %w", err)
	}
	n.metrics.token(oauth.RefreshTokenGrantType)
	result := newAuthorizedRequest(*response, authorized.ClientID, authorized.DPoP)
	if result.RefreshToken == "" {
		result.RefreshToken = authorized.RefreshToken
	}
	return result, nil
}

func (n negotiator) token(ctx context.Context, offer CredentialOffer, params url.Values, clientID string, clientAttestation *attestation.ClientAttestation) (*AuthorizedRequest, error) {
	metadata := offer.AuthorizationServerMetadata
	if metadata.TokenEndpoint == "" {
		return nil, core.ConfigurationError(fmt.Errorf("authorization server %s has no token_endpoint", metadata.Issuer))
	}
	options := openid4vci.CallOptions{ClientAttestation: clientAttestation, Audience: metadata.Issuer}
	if n.config.DPoP && metadata.SupportsDPoP(jwa.ES256.String()) {
		prover, err := n.dpopProver(ctx)
		if err != nil {
			return nil, err
		}
		options.DPoP = prover
	}
	grant := params.Get(oauth.GrantTypeParam)
	log.Logger().
		WithField(core.LogFieldCredentialIssuer, offer.CredentialIssuer).
		WithField(core.LogFieldGrantType, grant).
		Debug("Requesting access token")
	response, err := n.client.AccessToken(ctx, metadata.TokenEndpoint, params, options)
	if err != nil {
		return nil, err
	}
	n.metrics.token(grant)
	return newAuthorizedRequest(*response, clientID, options.DPoP), nil
}

func (n negotiator) dpopProver(ctx context.Context) (*openid4vci.DPoPProver, error) {
	publicKey, err := n.keys.GenerateSigningKeyPair(ctx, jwa.ES256)
	if err != nil {
		return nil, fmt.Errorf("unable to generate DPoP key: %w", err)
	}
	handle, err := n.keys.Resolve(ctx, publicKey.KeyID())
	if err != nil {
		return nil, fmt.Errorf("unable to resolve DPoP key: %w", err)
	}
	return openid4vci.NewDPoPProver(handle), nil
}

func newAuthorizedRequest(response oauth.TokenResponse, clientID string, prover *openid4vci.DPoPProver) *AuthorizedRequest {
	result := &AuthorizedRequest{
		AccessToken:  response.AccessToken,
		TokenType:    response.TokenType,
		RefreshToken: response.RefreshToken,
		IssuedAt:     nowFunc(),
		CNonce:       response.Get(oauth.CNonceParam),
		ClientID:     clientID,
	}
	if response.ExpiresIn != nil {
		result.ExpiresIn = time.Duration(*response.ExpiresIn) * time.Second
	}
	// the server decides whether the token is sender-constrained
	if strings.EqualFold(response.TokenType, oauth.DPoPTokenType) {
		result.DPoP = prover
	}
	return result
}

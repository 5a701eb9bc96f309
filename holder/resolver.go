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
	"slices"

	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/holder/log"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

var _ OfferResolver = (*offerResolver)(nil)

// NewOfferResolver creates an OfferResolver.
func NewOfferResolver(client openid4vci.IssuerAPIClient, policy MetadataPolicy) OfferResolver {
	return &offerResolver{client: client, policy: policy}
}

type offerResolver struct {
	client openid4vci.IssuerAPIClient
	policy MetadataPolicy
}

func (r offerResolver) Resolve(ctx context.Context, offerURI string) (*CredentialOffer, error) {
	parameters, err := r.offerParameters(ctx, offerURI)
	if err != nil {
		return nil, err
	}
	if parameters.CredentialIssuer == "" {
		return nil, core.ConfigurationError(fmt.Errorf("%w: missing credential_issuer", ErrInvalidCredentialOffer))
	}
	if len(parameters.CredentialConfigurationIDs) == 0 {
		return nil, core.ConfigurationError(ErrMissingCredentialConfigurationIdentifier)
	}
	logger := log.Logger().WithField(core.LogFieldCredentialIssuer, parameters.CredentialIssuer)

	issuerMetadata, err := r.client.CredentialIssuerMetadata(ctx, parameters.CredentialIssuer)
	if err != nil {
		return nil, err
	}
	if r.policy != RelaxedMetadataPolicy && issuerMetadata.CredentialIssuer != parameters.CredentialIssuer {
		return nil, core.ConfigurationError(fmt.Errorf("%w (expected=%s, actual=%s)", ErrIssuerMismatch, parameters.CredentialIssuer, issuerMetadata.CredentialIssuer))
	}
	for _, id := range parameters.CredentialConfigurationIDs {
		if _, ok := issuerMetadata.CredentialConfigurationsSupported[id]; !ok {
			return nil, core.ConfigurationError(fmt.Errorf("%w: %s", ErrUnknownCredentialConfiguration, id))
		}
	}

	grants := offeredGrants(parameters.Grants)
	authorizationServer, err := selectAuthorizationServer(*issuerMetadata, grants)
	if err != nil {
		return nil, err
	}
	authorizationServerMetadata, err := r.client.AuthorizationServerMetadata(ctx, authorizationServer)
	if err != nil {
		return nil, err
	}
	if r.policy != RelaxedMetadataPolicy && authorizationServerMetadata.Issuer != authorizationServer {
		return nil, core.ConfigurationError(fmt.Errorf("%w (expected=%s, actual=%s)", ErrIssuerMismatch, authorizationServer, authorizationServerMetadata.Issuer))
	}
	if grants == nil {
		grants = AuthorizationCode{AuthorizationServer: authorizationServer}
	}
	logger.Debugf("Resolved credential offer (grant=%s, configurations=%v)", grants.Kind(), parameters.CredentialConfigurationIDs)
	return &CredentialOffer{
		CredentialIssuer:            parameters.CredentialIssuer,
		IssuerMetadata:              *issuerMetadata,
		CredentialConfigurationIDs:  parameters.CredentialConfigurationIDs,
		Grants:                      grants,
		AuthorizationServerMetadata: *authorizationServerMetadata,
	}, nil
}

func (r offerResolver) offerParameters(ctx context.Context, offerURI string) (*openid4vci.CredentialOfferParameters, error) {
	parsed, err := url.Parse(offerURI)
	if err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("%w: %w", ErrInvalidCredentialOffer, err))
	}
	query := parsed.Query()
	if inline := query.Get(openid4vci.CredentialOfferParam); inline != "" {
		var result openid4vci.CredentialOfferParameters
		if err := json.Unmarshal([]byte(inline), &result); err != nil {
			return nil, core.ConfigurationError(fmt.Errorf("%w: %w", ErrInvalidCredentialOffer, err))
		}
		return &result, nil
	}
	if reference := query.Get(openid4vci.CredentialOfferURIParam); reference != "" {
		return r.client.CredentialOffer(ctx, reference)
	}
	return nil, core.ConfigurationError(fmt.Errorf("%w: URI contains neither %s nor %s", ErrInvalidCredentialOffer, openid4vci.CredentialOfferParam, openid4vci.CredentialOfferURIParam))
}

// offeredGrants converts the grants of the offer. It returns nil if the offer contains no grants.
func offeredGrants(grants *openid4vci.OfferedGrants) Grants {
	if grants == nil {
		return nil
	}
	var authorizationCode *AuthorizationCode
	if grants.AuthorizationCode != nil {
		authorizationCode = &AuthorizationCode{
			IssuerState:         grants.AuthorizationCode.IssuerState,
			AuthorizationServer: grants.AuthorizationCode.AuthorizationServer,
		}
	}
	var preAuthorizedCode *PreAuthorizedCode
	if grants.PreAuthorizedCode != nil {
		preAuthorizedCode = &PreAuthorizedCode{
			Code:                grants.PreAuthorizedCode.PreAuthorizedCode,
			TxCode:              grants.PreAuthorizedCode.TxCode,
			AuthorizationServer: grants.PreAuthorizedCode.AuthorizationServer,
		}
	}
	switch {
	case authorizationCode != nil && preAuthorizedCode != nil:
		return Both{AuthorizationCode: *authorizationCode, PreAuthorizedCode: *preAuthorizedCode}
	case preAuthorizedCode != nil:
		return *preAuthorizedCode
	case authorizationCode != nil:
		return *authorizationCode
	}
	return nil
}

// selectAuthorizationServer returns the authorization server the grant refers to, or the first one the issuer declares.
func selectAuthorizationServer(metadata openid4vci.CredentialIssuerMetadata, grants Grants) (string, error) {
	if len(metadata.AuthorizationServers) == 0 {
		return "", core.ConfigurationError(fmt.Errorf("%w: issuer %s does not declare authorization_servers", ErrMissingAuthorizationServerMetadata, metadata.CredentialIssuer))
	}
	var requested string
	switch g := grants.(type) {
	case AuthorizationCode:
		requested = g.AuthorizationServer
	case PreAuthorizedCode:
		requested = g.AuthorizationServer
	case Both:
		requested = g.PreAuthorizedCode.AuthorizationServer
	}
	if requested == "" {
		return metadata.AuthorizationServers[0], nil
	}
	if !slices.Contains(metadata.AuthorizationServers, requested) {
		return "", core.ConfigurationError(fmt.Errorf("%w: authorization server %s not declared by issuer", ErrMissingAuthorizationServerMetadata, requested))
	}
	return requested, nil
}

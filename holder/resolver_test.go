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
	"errors"
	"net/url"
	"testing"

	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func offerURI(scheme string, offer string) string {
	return scheme + "://?" + url.Values{openid4vci.CredentialOfferParam: {offer}}.Encode()
}

func TestOfferResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	preAuthorizedOffer := `{
		"credential_issuer": "https://issuer.eudiw.dev",
		"credential_configuration_ids": ["eu.europa.ec.eudi.pid_mdoc"],
		"grants": {
			"urn:ietf:params:oauth:grant-type:pre-authorized_code": {
				"pre-authorized_code": "d366d6a4-b9e0-4a3e-a2e2-0ef3c6e4fb27",
				"tx_code": {"length": 5}
			}
		}
	}`
	newResolver := func(t *testing.T, policy MetadataPolicy) (OfferResolver, *openid4vci.MockIssuerAPIClient) {
		client := openid4vci.NewMockIssuerAPIClient(gomock.NewController(t))
		return NewOfferResolver(client, policy), client
	}
	expectMetadata := func(client *openid4vci.MockIssuerAPIClient) {
		client.EXPECT().CredentialIssuerMetadata(gomock.Any(), testIssuer).Return(testIssuerMetadata(), nil).AnyTimes()
		client.EXPECT().AuthorizationServerMetadata(gomock.Any(), testAuthorizationServer).Return(testAuthorizationServerMetadata(), nil).AnyTimes()
	}

	t.Run("inline pre-authorized offer", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)

		offer, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", preAuthorizedOffer))

		require.NoError(t, err)
		assert.Equal(t, testIssuer, offer.CredentialIssuer)
		assert.Equal(t, []string{pidMdoc}, offer.CredentialConfigurationIDs)
		assert.Equal(t, testAuthorizationServer+"/token", offer.AuthorizationServerMetadata.TokenEndpoint)
		require.Equal(t, PreAuthorizedCodeGrantKind, offer.Grants.Kind())
		grant := offer.Grants.(PreAuthorizedCode)
		assert.Equal(t, "d366d6a4-b9e0-4a3e-a2e2-0ef3c6e4fb27", grant.Code)
		assert.Equal(t, 5, grant.TxCode.Length)
		assert.False(t, offer.IsSDJWT())
	})
	t.Run("custom scheme", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)

		offer, err := resolver.Resolve(ctx, "eudi-openid4ci://credential_offer?"+url.Values{"credential_offer": {preAuthorizedOffer}}.Encode())

		require.NoError(t, err)
		assert.Equal(t, testIssuer, offer.CredentialIssuer)
	})
	t.Run("offer by reference", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)
		client.EXPECT().CredentialOffer(gomock.Any(), testIssuer+"/offers/1").Return(&openid4vci.CredentialOfferParameters{
			CredentialIssuer:           testIssuer,
			CredentialConfigurationIDs: []string{pidSDJWT},
			Grants: &openid4vci.OfferedGrants{
				AuthorizationCode: &openid4vci.AuthorizationCodeParameters{IssuerState: "state"},
			},
		}, nil)

		offer, err := resolver.Resolve(ctx, "openid-credential-offer://?credential_offer_uri="+url.QueryEscape(testIssuer+"/offers/1"))

		require.NoError(t, err)
		assert.Equal(t, AuthorizationCode{IssuerState: "state"}, offer.Grants)
		assert.True(t, offer.IsSDJWT())
	})
	t.Run("both grants", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)
		data := `{"credential_issuer":"https://issuer.eudiw.dev","credential_configuration_ids":["eu.europa.ec.eudi.pid_mdoc"],
			"grants":{"authorization_code":{},"urn:ietf:params:oauth:grant-type:pre-authorized_code":{"pre-authorized_code":"code"}}}`

		offer, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", data))

		require.NoError(t, err)
		assert.Equal(t, BothGrantKind, offer.Grants.Kind())
	})
	t.Run("no grants defaults to authorization code", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)
		data := `{"credential_issuer":"https://issuer.eudiw.dev","credential_configuration_ids":["eu.europa.ec.eudi.pid_mdoc"]}`

		offer, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", data))

		require.NoError(t, err)
		assert.Equal(t, AuthorizationCode{AuthorizationServer: testAuthorizationServer}, offer.Grants)
	})
	t.Run("resolving twice yields equal offers", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)
		uri := offerURI("openid-credential-offer", preAuthorizedOffer)

		first, err := resolver.Resolve(ctx, uri)
		require.NoError(t, err)
		second, err := resolver.Resolve(ctx, uri)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
	t.Run("missing credential configuration IDs", func(t *testing.T) {
		resolver, _ := newResolver(t, StrictMetadataPolicy)

		_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", `{"credential_issuer":"https://issuer.eudiw.dev","credential_configuration_ids":[]}`))

		assert.ErrorIs(t, err, ErrMissingCredentialConfigurationIdentifier)
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("unknown credential configuration", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)

		_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", `{"credential_issuer":"https://issuer.eudiw.dev","credential_configuration_ids":["mDL"]}`))

		assert.ErrorIs(t, err, ErrUnknownCredentialConfiguration)
	})
	t.Run("missing authorization servers", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		metadata := testIssuerMetadata()
		metadata.AuthorizationServers = nil
		client.EXPECT().CredentialIssuerMetadata(gomock.Any(), testIssuer).Return(metadata, nil)

		_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", preAuthorizedOffer))

		assert.ErrorIs(t, err, ErrMissingAuthorizationServerMetadata)
		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("grant refers to undeclared authorization server", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		expectMetadata(client)
		data := `{"credential_issuer":"https://issuer.eudiw.dev","credential_configuration_ids":["eu.europa.ec.eudi.pid_mdoc"],
			"grants":{"authorization_code":{"authorization_server":"https://other.eudiw.dev"}}}`

		_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", data))

		assert.ErrorIs(t, err, ErrMissingAuthorizationServerMetadata)
	})
	t.Run("issuer mismatch", func(t *testing.T) {
		metadata := testIssuerMetadata()
		metadata.CredentialIssuer = "https://issuer.eudiw.dev/"
		t.Run("strict", func(t *testing.T) {
			resolver, client := newResolver(t, StrictMetadataPolicy)
			client.EXPECT().CredentialIssuerMetadata(gomock.Any(), testIssuer).Return(metadata, nil)

			_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", preAuthorizedOffer))

			assert.ErrorIs(t, err, ErrIssuerMismatch)
		})
		t.Run("relaxed", func(t *testing.T) {
			resolver, client := newResolver(t, RelaxedMetadataPolicy)
			client.EXPECT().CredentialIssuerMetadata(gomock.Any(), testIssuer).Return(metadata, nil)
			client.EXPECT().AuthorizationServerMetadata(gomock.Any(), testAuthorizationServer).Return(testAuthorizationServerMetadata(), nil)

			_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", preAuthorizedOffer))

			assert.NoError(t, err)
		})
	})
	t.Run("metadata not available", func(t *testing.T) {
		resolver, client := newResolver(t, StrictMetadataPolicy)
		client.EXPECT().CredentialIssuerMetadata(gomock.Any(), testIssuer).Return(nil, core.TransientError(errors.New("connection refused")))

		_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", preAuthorizedOffer))

		assert.Equal(t, core.KindTransient, core.KindOf(err))
	})
	t.Run("invalid offer", func(t *testing.T) {
		resolver, _ := newResolver(t, StrictMetadataPolicy)

		t.Run("no offer parameters", func(t *testing.T) {
			_, err := resolver.Resolve(ctx, "openid-credential-offer://?foo=bar")

			assert.ErrorIs(t, err, ErrInvalidCredentialOffer)
		})
		t.Run("malformed JSON", func(t *testing.T) {
			_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", "{"))

			assert.ErrorIs(t, err, ErrInvalidCredentialOffer)
		})
		t.Run("missing issuer", func(t *testing.T) {
			_, err := resolver.Resolve(ctx, offerURI("openid-credential-offer", `{"credential_configuration_ids":["a"]}`))

			assert.ErrorIs(t, err, ErrInvalidCredentialOffer)
		})
	})
}

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
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

const (
	testIssuer              = "https://issuer.eudiw.dev"
	testAuthorizationServer = "https://auth.eudiw.dev"
	pidMdoc                 = "eu.europa.ec.eudi.pid_mdoc"
	pidSDJWT                = "eu.europa.ec.eudi.pid_vc_sd_jwt"
)

func testIssuerMetadata() *openid4vci.CredentialIssuerMetadata {
	return &openid4vci.CredentialIssuerMetadata{
		CredentialIssuer:           testIssuer,
		AuthorizationServers:       []string{testAuthorizationServer},
		CredentialEndpoint:         testIssuer + "/credential",
		DeferredCredentialEndpoint: testIssuer + "/credential_deferred",
		CredentialConfigurationsSupported: map[string]openid4vci.CredentialConfiguration{
			pidMdoc: {
				Format:  openid4vci.MsoMdocFormat,
				Scope:   "eu.europa.ec.eudi.pid.1",
				Doctype: "eu.europa.ec.eudi.pid.1",
			},
			pidSDJWT: {
				Format: openid4vci.SDJWTVCFormat,
				VCT:    "urn:eu.europa.ec.eudi:pid:1",
			},
		},
	}
}

func testAuthorizationServerMetadata() *oauth.AuthorizationServerMetadata {
	return &oauth.AuthorizationServerMetadata{
		Issuer:                             testAuthorizationServer,
		AuthorizationEndpoint:              testAuthorizationServer + "/authorize",
		TokenEndpoint:                      testAuthorizationServer + "/token",
		PushedAuthorizationRequestEndpoint: testAuthorizationServer + "/par",
	}
}

func testOffer(grants Grants, configurationIDs ...string) CredentialOffer {
	if len(configurationIDs) == 0 {
		configurationIDs = []string{pidMdoc}
	}
	return CredentialOffer{
		CredentialIssuer:            testIssuer,
		IssuerMetadata:              *testIssuerMetadata(),
		CredentialConfigurationIDs:  configurationIDs,
		Grants:                      grants,
		AuthorizationServerMetadata: *testAuthorizationServerMetadata(),
	}
}

func newTestKeys() nutsCrypto.KeyMaterialProvider {
	return nutsCrypto.NewKeyMaterialProvider(nutsCrypto.NewMemoryKeyStore())
}

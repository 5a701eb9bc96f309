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

// Package holder implements the wallet side of OpenID4VCI: offer resolution, authorization, issuance and deferred polling.
package holder

import (
	"fmt"
	"slices"
	"time"

	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
	"github.com/nuts-foundation/nuts-wallet/oauth"
)

// GrantKind identifies the variant of Grants.
type GrantKind int

const (
	// AuthorizationCodeGrantKind is an offer that can only be redeemed through the authorization code flow.
	AuthorizationCodeGrantKind GrantKind = iota + 1
	// PreAuthorizedCodeGrantKind is an offer carrying a pre-authorized code.
	PreAuthorizedCodeGrantKind
	// BothGrantKind is an offer that allows both flows.
	BothGrantKind
)

func (k GrantKind) String() string {
	switch k {
	case AuthorizationCodeGrantKind:
		return oauth.AuthorizationCodeGrantType
	case PreAuthorizedCodeGrantKind:
		return oauth.PreAuthorizedCodeGrantType
	case BothGrantKind:
		return "both"
	default:
		return fmt.Sprintf("GrantKind(%d)", int(k))
	}
}

// Grants is the closed set of grants an offer can carry: AuthorizationCode, PreAuthorizedCode or Both.
type Grants interface {
	Kind() GrantKind
	grants()
}

// AuthorizationCode is the authorization code grant of an offer.
type AuthorizationCode struct {
	IssuerState         string
	AuthorizationServer string
}

// PreAuthorizedCode is the pre-authorized code grant of an offer.
type PreAuthorizedCode struct {
	Code string
	// TxCode is set when the end-user must enter a transaction code to redeem the code.
	TxCode              *openid4vci.TxCode
	AuthorizationServer string
}

// Both is an offer with both an authorization code and a pre-authorized code grant.
type Both struct {
	AuthorizationCode AuthorizationCode
	PreAuthorizedCode PreAuthorizedCode
}

func (AuthorizationCode) Kind() GrantKind { return AuthorizationCodeGrantKind }
func (PreAuthorizedCode) Kind() GrantKind { return PreAuthorizedCodeGrantKind }
func (Both) Kind() GrantKind              { return BothGrantKind }

func (AuthorizationCode) grants() {}
func (PreAuthorizedCode) grants() {}
func (Both) grants()              {}

// CredentialOffer is a resolved credential offer. It is not modified after resolution.
type CredentialOffer struct {
	// CredentialIssuer is the identifier of the credential issuer.
	CredentialIssuer string
	// IssuerMetadata is the metadata of the credential issuer.
	IssuerMetadata openid4vci.CredentialIssuerMetadata
	// CredentialConfigurationIDs lists the offered credential configurations, at least one.
	CredentialConfigurationIDs []string
	// Grants contains the grant(s) to redeem the offer with.
	Grants Grants
	// AuthorizationServerMetadata is the metadata of the authorization server that issues access tokens for this offer.
	AuthorizationServerMetadata oauth.AuthorizationServerMetadata
}

// CredentialConfiguration returns the configuration of the given ID from the issuer metadata.
func (o CredentialOffer) CredentialConfiguration(id string) (openid4vci.CredentialConfiguration, bool) {
	configuration, ok := o.IssuerMetadata.CredentialConfigurationsSupported[id]
	return configuration, ok
}

// IsSDJWT reports whether the offered credential is an SD-JWT VC,
// either by its configuration ID or by the format of its configuration.
func (o CredentialOffer) IsSDJWT() bool {
	return slices.ContainsFunc(o.CredentialConfigurationIDs, func(id string) bool {
		if openid4vci.IsSDJWTConfigurationID(id) {
			return true
		}
		configuration, ok := o.CredentialConfiguration(id)
		return ok && configuration.IsSDJWT()
	})
}

// AuthorizedRequest is the result of a successful authorization: an access token to request credentials with.
type AuthorizedRequest struct {
	AccessToken string
	// TokenType is either Bearer or DPoP.
	TokenType    string
	RefreshToken string
	// ExpiresIn is the lifetime of the access token. Zero means the authorization server did not specify it.
	ExpiresIn time.Duration
	IssuedAt  time.Time
	// CNonce is the c_nonce from the token response, if any.
	CNonce string
	// ClientID is the client_id used in the token request. It's empty when the wallet authorized anonymously.
	ClientID string
	// DPoP proves possession of the key the access token is bound to. It's nil for bearer tokens.
	DPoP *openid4vci.DPoPProver
}

// IsExpired reports whether the access token expired at the given time.
func (a AuthorizedRequest) IsExpired(now time.Time) bool {
	if a.ExpiresIn <= 0 {
		return false
	}
	return a.IssuedAt.Add(a.ExpiresIn).Before(now)
}

func (a AuthorizedRequest) callOptions() openid4vci.CallOptions {
	return openid4vci.CallOptions{
		AccessToken: a.AccessToken,
		DPoP:        a.DPoP,
	}
}

// IssuanceOutcome is the result of a credential request: Issued or Deferred.
type IssuanceOutcome interface {
	issuanceOutcome()
}

// Issued contains the credentials the issuer issued.
type Issued struct {
	Credentials    []openid4vci.Credential
	NotificationID string
}

// Deferred means the issuer will issue the credential later, it must be polled using the transaction ID.
type Deferred struct {
	TransactionID string
	// Interval is the minimum time to wait before polling, zero if the issuer did not specify it.
	Interval time.Duration
}

func (Issued) issuanceOutcome()   {}
func (Deferred) issuanceOutcome() {}

// CredentialOutcome is the end result of an issuance: IssuedCredentialOutcome or DeferredCredentialOutcome.
type CredentialOutcome interface {
	credentialOutcome()
}

// IssuedCredentialOutcome contains an issued credential and the handle of the key it's bound to.
type IssuedCredentialOutcome struct {
	Credential openid4vci.Credential
	// PrivateKey is the handle of the binding key, nil if the binding key doesn't expose one (e.g. DID or X.509 binding).
	PrivateKey nutsCrypto.PrivateKeyHandle
	IsSDJWT    bool
}

// DeferredCredentialOutcome contains everything needed to poll for a deferred credential.
type DeferredCredentialOutcome struct {
	TransactionID     string
	Interval          time.Duration
	AuthorizedRequest AuthorizedRequest
	Issuer            CredentialOffer
	IsSDJWT           bool
	PrivateKey        nutsCrypto.PrivateKeyHandle
}

func (IssuedCredentialOutcome) credentialOutcome()   {}
func (DeferredCredentialOutcome) credentialOutcome() {}

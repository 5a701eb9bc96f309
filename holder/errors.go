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
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

// ErrInvalidCredentialOffer is returned when the offer URI doesn't contain a valid credential offer.
var ErrInvalidCredentialOffer = errors.New("invalid credential offer")

// ErrMissingCredentialConfigurationIdentifier is returned when the offer doesn't list any credential configuration.
var ErrMissingCredentialConfigurationIdentifier = errors.New("credential offer does not contain credential_configuration_ids")

// ErrUnknownCredentialConfiguration is returned when the offer lists a credential configuration the issuer doesn't declare.
var ErrUnknownCredentialConfiguration = errors.New("credential configuration not declared in issuer metadata")

// ErrIssuerMismatch is returned in strict mode when the credential_issuer in the metadata differs from the issuer identifier.
var ErrIssuerMismatch = errors.New("issuer identifier in metadata does not match")

// ErrMissingAuthorizationServerMetadata is returned when the issuer doesn't declare an authorization server.
var ErrMissingAuthorizationServerMetadata = errors.New("missing authorization server metadata")

// ErrAuthorizationFailed is returned when the authorization server redirected back with an error.
var ErrAuthorizationFailed = errors.New("authorization failed")

// ErrStateMismatch is returned when the state in the authorization response doesn't match the request.
var ErrStateMismatch = errors.New("state in authorization response does not match")

// ErrMissingAuthorizationCode is returned when the authorization response doesn't contain a code.
var ErrMissingAuthorizationCode = errors.New("authorization response does not contain a code")

// ErrNoBrowserSession is returned when the authorization code flow is required but no browser session is available.
var ErrNoBrowserSession = errors.New("authorization code flow requires a browser session")

// ErrInvalidTransactionCode is returned when the transaction code entered by the end-user doesn't match the offer's description.
var ErrInvalidTransactionCode = errors.New("invalid transaction code")

// ErrAccessTokenExpired is returned when the access token expired and can't be refreshed.
var ErrAccessTokenExpired = errors.New("access token expired")

// ErrInvalidProof is returned when the issuer rejected the proof of possession (invalid_proof or invalid_nonce).
// The attempt must be restarted with a fresh nonce.
var ErrInvalidProof = errors.New("issuer rejected proof of possession")

// ErrMissingDeferredCredentialEndpoint is returned when the issuer deferred issuance but doesn't declare a deferred credential endpoint.
var ErrMissingDeferredCredentialEndpoint = errors.New("issuer metadata does not contain a deferred_credential_endpoint")

// ErrIssuancePending is returned by Poll when the credential is still pending after the maximum number of attempts.
var ErrIssuancePending = errors.New("credential issuance still pending")

// TransactionCodeRequiredError signals the offer requires a transaction code the caller didn't supply.
// The caller should ask the end-user for the code and negotiate again.
type TransactionCodeRequiredError struct {
	TxCode openid4vci.TxCode
}

func (e TransactionCodeRequiredError) Error() string {
	if e.TxCode.Length > 0 {
		return fmt.Sprintf("transaction code required (length=%d)", e.TxCode.Length)
	}
	return "transaction code required"
}

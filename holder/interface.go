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

	"github.com/nuts-foundation/nuts-wallet/attestation"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
)

// OfferResolver resolves credential offer URIs.
type OfferResolver interface {
	// Resolve parses the offer URI (any scheme, with either credential_offer or credential_offer_uri),
	// loads the issuer and authorization server metadata and validates the offer against it.
	// It has no side effects other than network fetches, so it can be retried.
	Resolve(ctx context.Context, offerURI string) (*CredentialOffer, error)
}

// NegotiateOptions contains the caller-supplied input of a negotiation.
type NegotiateOptions struct {
	// TxCode is the transaction code entered by the end-user, if the offer requires one.
	TxCode string
	// ClientAttestation authenticates the wallet at the authorization server, if set.
	ClientAttestation *attestation.ClientAttestation
}

// Negotiator obtains access tokens for credential offers.
type Negotiator interface {
	// Negotiate redeems the grant of the offer for an access token.
	// If both grants are offered, the pre-authorized code is used.
	// It returns a TransactionCodeRequiredError if the offer requires a transaction code and options contains none.
	Negotiate(ctx context.Context, offer CredentialOffer, options NegotiateOptions) (*AuthorizedRequest, error)
	// Refresh obtains a new access token using the refresh token of the authorized request.
	// It returns ErrAccessTokenExpired if there is no refresh token.
	Refresh(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest) (*AuthorizedRequest, error)
}

// Executor requests credentials with an authorized request.
type Executor interface {
	// Submit requests the credential configuration, proving possession of the given binding keys.
	// Rejected proofs (invalid_proof, invalid_nonce) are reported as ErrInvalidProof, other issuer errors as *openid4vci.Error.
	Submit(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest, configurationID string, bindingKeys []nutsCrypto.BindingKey) (IssuanceOutcome, error)
	// Execute requests the first credential configuration of the offer, bound to a newly generated key.
	Execute(ctx context.Context, offer CredentialOffer, authorized AuthorizedRequest) (CredentialOutcome, error)
}

// Poller polls the deferred credential endpoint.
type Poller interface {
	// Poll waits for the interval and polls until the credential is issued, polling fails,
	// the maximum number of attempts is reached or ctx is done.
	// If the credential is still pending after the last attempt, it returns the latest DeferredCredentialOutcome and ErrIssuancePending.
	Poll(ctx context.Context, deferred DeferredCredentialOutcome) (CredentialOutcome, error)
	// PollOnce polls the deferred credential endpoint once, without waiting.
	// It returns an IssuedCredentialOutcome, or a DeferredCredentialOutcome with the new transaction ID if the credential is still pending.
	PollOnce(ctx context.Context, deferred DeferredCredentialOutcome) (CredentialOutcome, error)
}

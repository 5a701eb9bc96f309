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
	"encoding/json"
	"net/http"

	"github.com/nuts-foundation/nuts-wallet/core"
)

// ErrorCode specifies error codes as defined by the OpenID4VCI and OAuth2 specifications.
type ErrorCode string

const (
	// InvalidRequest is returned when:
	// - the Authorization Server does not expect a transaction code in the pre-authorized flow but the client provides one
	// - the Authorization Server expects a transaction code in the pre-authorized flow but the client does not provide one
	// - Credential Request was malformed. One or more of the parameters (i.e. format, proof) are missing or malformed.
	InvalidRequest ErrorCode = "invalid_request"
	// InvalidClient is returned when:
	// - the client tried to send a Token Request with a Pre-Authorized Code without Client ID but the Authorization Server does not support anonymous access
	InvalidClient ErrorCode = "invalid_client"
	// InvalidGrant is returned when (in addition to cases defined by OAuth2):
	// - the Authorization Server expects a transaction code in the pre-authorized flow but the client provides the wrong code
	// - the End-User provides the wrong Pre-Authorized Code or the Pre-Authorized Code has expired
	InvalidGrant ErrorCode = "invalid_grant"
	// InvalidToken is returned when (in addition to cases defined by OAuth2):
	// - Credential Request contains the wrong Access Token or the Access Token is missing
	InvalidToken ErrorCode = "invalid_token"
	// UnsupportedGrantType is returned when the Authorization Server does not support the requested grant type.
	UnsupportedGrantType ErrorCode = "unsupported_grant_type"
	// AccessDenied is returned when the End-User or Authorization Server denied the request.
	AccessDenied ErrorCode = "access_denied"
	// ServerError is returned when the Authorization Server encounters an unexpected condition that prevents it from fulfilling the request.
	ServerError ErrorCode = "server_error"
	// UnsupportedCredentialType is returned when the credential issuer does not support the requested credential type.
	UnsupportedCredentialType ErrorCode = "unsupported_credential_type"
	// UnsupportedCredentialFormat is returned when the credential issuer does not support the requested credential format.
	UnsupportedCredentialFormat ErrorCode = "unsupported_credential_format"
	// InvalidProof is returned when the Credential Request did not contain a proof,
	// or proof was invalid, i.e. it was not bound to a Credential Issuer provided nonce
	InvalidProof ErrorCode = "invalid_proof"
	// InvalidNonce is returned when the proof contained a nonce that is not (or no longer) valid.
	InvalidNonce ErrorCode = "invalid_nonce"
	// IssuancePending is returned by the deferred credential endpoint when the credential is not yet available.
	IssuancePending ErrorCode = "issuance_pending"
	// InvalidTransactionID is returned by the deferred credential endpoint for unknown or expired transaction IDs.
	InvalidTransactionID ErrorCode = "invalid_transaction_id"
	// CredentialRequestDenied is returned when the issuer refuses to issue the credential.
	CredentialRequestDenied ErrorCode = "credential_request_denied"
	// UseDPoPNonce is returned when the server requires a server-provided nonce in the DPoP proof. (RFC9449)
	UseDPoPNonce ErrorCode = "use_dpop_nonce"
)

// Error is an error that signals the error was (probably) caused by the client (e.g. bad request),
// or that the client can recover from the error (e.g. retry). Errors are specified by the OpenID4VCI specification.
type Error struct {
	// Code is the error code as defined by the OpenID4VCI spec.
	Code ErrorCode `json:"error"`
	// Description is the human-readable error_description provided by the server.
	Description string `json:"error_description,omitempty"`
	// Interval is the number of seconds the wallet should wait before polling again (issuance_pending only).
	Interval int `json:"interval,omitempty"`
	// Err is the underlying error, may be omitted.
	Err error `json:"-"`
	// StatusCode is the HTTP status code the server responded with.
	StatusCode int `json:"-"`
}

// Error returns the error message, which is either the underlying error or the code if there is no underlying error
func (e Error) Error() string {
	result := string(e.Code)
	if e.Description != "" {
		result += " - " + e.Description
	}
	if e.Err != nil {
		result += " - " + e.Err.Error()
	}
	return result
}

func (e Error) Unwrap() error {
	return e.Err
}

// Is matches errors with the same error code.
func (e Error) Is(target error) bool {
	var other Error
	if t, ok := target.(Error); ok {
		other = t
	} else if t, ok := target.(*Error); ok && t != nil {
		other = *t
	} else {
		return false
	}
	return other.Code == e.Code
}

// errorFromResponse converts a non-successful response into an error.
// If the body contains an OAuth2/OpenID4VCI error, an Error is returned. Otherwise, a core.HttpError.
// Server errors are classified as transient, client errors as protocol errors.
func errorFromResponse(statusCode int, body []byte, cause error) error {
	var result error
	var protocolErr Error
	if err := json.Unmarshal(body, &protocolErr); err == nil && protocolErr.Code != "" {
		protocolErr.StatusCode = statusCode
		result = protocolErr
	} else {
		result = cause
	}
	if statusCode >= http.StatusInternalServerError {
		return core.TransientError(result)
	}
	return core.ProtocolError(result)
}

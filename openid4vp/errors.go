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

import "errors"

// ErrInvalidRequest is returned when the presentation request URI or the request object is malformed or incomplete.
var ErrInvalidRequest = errors.New("invalid presentation request")

// ErrRequestNotSigned is returned when the presentation request is not passed as signed request object (request or request_uri).
var ErrRequestNotSigned = errors.New("presentation request must be a signed request object")

// ErrUntrustedVerifier is returned when the signature of the request object can't be traced to a trusted verifier.
var ErrUntrustedVerifier = errors.New("verifier is not trusted")

// ErrUnsupportedClientIDScheme is returned for client identifier schemes the wallet doesn't support.
var ErrUnsupportedClientIDScheme = errors.New("unsupported client_id scheme")

// ErrUnsupportedResponseMode is returned for response modes the wallet doesn't support.
var ErrUnsupportedResponseMode = errors.New("unsupported response_mode")

// ErrUnsupportedCredentialFormat is returned when the credential can't be presented by the wallet, e.g. an mdoc.
var ErrUnsupportedCredentialFormat = errors.New("unsupported credential format")

// ErrPresentationRejected is returned when the verifier didn't accept the authorization response.
var ErrPresentationRejected = errors.New("verifier rejected the presentation")

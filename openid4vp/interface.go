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

import "context"

// RequestResolver resolves presentation request URIs into verified authorization requests.
type RequestResolver interface {
	// Resolve parses the request URI (e.g. openid4vp://?client_id=...&request_uri=...), retrieves the request object
	// and verifies it was signed by a trusted verifier.
	Resolve(ctx context.Context, requestURI string) (*AuthorizationRequest, error)
}

// Presenter presents credentials to verifiers.
type Presenter interface {
	// Present creates a presentation of the credential for the request and dispatches it as authorization response.
	// It returns ErrPresentationRejected if the verifier didn't accept it.
	Present(ctx context.Context, request AuthorizationRequest, credential Credential) (*Result, error)
}

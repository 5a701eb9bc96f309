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

package oauth

import "golang.org/x/oauth2"

// PKCEParams holds the parameters of a Proof Key for Code Exchange (RFC7636).
type PKCEParams struct {
	Challenge       string
	ChallengeMethod string
	Verifier        string
}

// GeneratePKCEParams generates a fresh S256 code verifier and its challenge.
func GeneratePKCEParams() PKCEParams {
	verifier := oauth2.GenerateVerifier()
	return PKCEParams{
		Challenge:       oauth2.S256ChallengeFromVerifier(verifier),
		ChallengeMethod: PKCES256Method,
		Verifier:        verifier,
	}
}

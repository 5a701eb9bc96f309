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

package core

const (
	// LogFieldModule is the log field for the module name.
	LogFieldModule = "module"

	// LogFieldCredentialIssuer is the log field key for the identifier of an OpenID4VCI credential issuer.
	LogFieldCredentialIssuer = "credentialIssuer"
	// LogFieldCredentialConfigurationID is the log field key for the credential configuration being requested.
	LogFieldCredentialConfigurationID = "credentialConfigurationID"
	// LogFieldTransactionID is the log field key for a deferred issuance transaction.
	LogFieldTransactionID = "transactionID"
	// LogFieldGrantType is the log field key for the OAuth2 grant used to obtain an access token.
	LogFieldGrantType = "grantType"

	// LogFieldKeyID is the log field key for the unique ID of a key from the crypto module.
	LogFieldKeyID = "keyID"

	// LogFieldClientID is the log field key for the client_id of a verifier.
	LogFieldClientID = "clientID"
	// LogFieldClientIDScheme is the log field key for the client identifier scheme of a verifier.
	LogFieldClientIDScheme = "clientIDScheme"

	// LogFieldURL is the log field key for the URL of an outbound request.
	LogFieldURL = "url"
)

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

// Package openid4vci contains the wire types and the issuer API client of OpenID for Verifiable Credential Issuance.
package openid4vci

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// PreAuthorizedCodeGrant is the grant type of the pre-authorized code flow.
	PreAuthorizedCodeGrant = "urn:ietf:params:oauth:grant-type:pre-authorized_code"
	// AuthorizationCodeGrant is the grant type of the authorization code flow.
	AuthorizationCodeGrant = "authorization_code"
	// CredentialOfferParam is the parameter carrying an inline credential offer.
	CredentialOfferParam = "credential_offer"
	// CredentialOfferURIParam is the parameter carrying a reference to a credential offer.
	CredentialOfferURIParam = "credential_offer_uri"
	// AuthorizationDetailsType is the type of OpenID4VCI authorization_details entries.
	AuthorizationDetailsType = "openid_credential"
	// ProofTypeJWT is the proof type of JWT proofs.
	ProofTypeJWT = "jwt"
	// ProofTypeAttestation is the proof type of key attestation proofs.
	ProofTypeAttestation = "attestation"
	// JWTTypeOpenID4VCIProof is the typ header of a JWT proof.
	JWTTypeOpenID4VCIProof = "openid4vci-proof+jwt"
	// KeyAttestationHeader is the JWT proof header that carries a key attestation.
	KeyAttestationHeader = "key_attestation"
)

// Credential formats.
const (
	SDJWTVCFormat       = "dc+sd-jwt"
	LegacySDJWTVCFormat = "vc+sd-jwt"
	MsoMdocFormat       = "mso_mdoc"
	JWTVCJSONFormat     = "jwt_vc_json"
)

// TxCode input modes.
const (
	TxCodeInputModeNumeric = "numeric"
	TxCodeInputModeText    = "text"
)

// CredentialOfferParameters is a credential offer as sent by a credential issuer.
type CredentialOfferParameters struct {
	// CredentialIssuer is the URL of the credential issuer.
	CredentialIssuer string `json:"credential_issuer"`
	// CredentialConfigurationIDs lists the credential configurations (from the issuer metadata) the issuer offers.
	CredentialConfigurationIDs []string `json:"credential_configuration_ids"`
	// Grants lists the grants the wallet can use. If absent, the wallet determines the grant from the authorization server metadata.
	Grants *OfferedGrants `json:"grants,omitempty"`
}

// OfferedGrants contains the grants of a credential offer.
type OfferedGrants struct {
	AuthorizationCode *AuthorizationCodeParameters `json:"authorization_code,omitempty"`
	PreAuthorizedCode *PreAuthorizedCodeParameters `json:"urn:ietf:params:oauth:grant-type:pre-authorized_code,omitempty"`
}

// AuthorizationCodeParameters are the parameters of the authorization code grant in a credential offer.
type AuthorizationCodeParameters struct {
	// IssuerState binds the authorization request to the offer, it must be passed back in the authorization request.
	IssuerState string `json:"issuer_state,omitempty"`
	// AuthorizationServer selects one of the issuer's authorization servers.
	AuthorizationServer string `json:"authorization_server,omitempty"`
}

// PreAuthorizedCodeParameters are the parameters of the pre-authorized code grant in a credential offer.
type PreAuthorizedCodeParameters struct {
	PreAuthorizedCode   string  `json:"pre-authorized_code"`
	TxCode              *TxCode `json:"tx_code,omitempty"`
	AuthorizationServer string  `json:"authorization_server,omitempty"`
}

// TxCode describes the transaction code the end-user must enter to redeem a pre-authorized code.
type TxCode struct {
	// InputMode is either numeric (default) or text.
	InputMode   string `json:"input_mode,omitempty"`
	Length      int    `json:"length,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks the transaction code entered by the end-user against the issuer's description.
func (t TxCode) Validate(code string) error {
	if t.Length > 0 && len(code) != t.Length {
		return fmt.Errorf("expected %d characters, got %d", t.Length, len(code))
	}
	if t.InputMode == "" || t.InputMode == TxCodeInputModeNumeric {
		for _, c := range code {
			if c < '0' || c > '9' {
				return errors.New("expected numeric input")
			}
		}
	}
	return nil
}

// CredentialIssuerMetadata is the metadata of a credential issuer.
type CredentialIssuerMetadata struct {
	CredentialIssuer                  string                             `json:"credential_issuer"`
	AuthorizationServers              []string                           `json:"authorization_servers,omitempty"`
	CredentialEndpoint                string                             `json:"credential_endpoint"`
	NonceEndpoint                     string                             `json:"nonce_endpoint,omitempty"`
	DeferredCredentialEndpoint        string                             `json:"deferred_credential_endpoint,omitempty"`
	NotificationEndpoint              string                             `json:"notification_endpoint,omitempty"`
	CredentialConfigurationsSupported map[string]CredentialConfiguration `json:"credential_configurations_supported"`
	Display                           []map[string]interface{}           `json:"display,omitempty"`
}

// CredentialConfiguration describes a credential the issuer can issue.
type CredentialConfiguration struct {
	Format                               string                       `json:"format"`
	Scope                                string                       `json:"scope,omitempty"`
	CryptographicBindingMethodsSupported []string                     `json:"cryptographic_binding_methods_supported,omitempty"`
	ProofTypesSupported                  map[string]ProofTypeMetadata `json:"proof_types_supported,omitempty"`
	// VCT is the SD-JWT VC type
	VCT string `json:"vct,omitempty"`
	// Doctype is the ISO mdoc document type
	Doctype string                   `json:"doctype,omitempty"`
	Display []map[string]interface{} `json:"display,omitempty"`
}

// ProofTypeMetadata describes the requirements of a proof type.
type ProofTypeMetadata struct {
	ProofSigningAlgValuesSupported []string               `json:"proof_signing_alg_values_supported"`
	KeyAttestationsRequired        map[string]interface{} `json:"key_attestations_required,omitempty"`
}

// IsSDJWT returns true if the credential configuration describes an SD-JWT VC.
func (c CredentialConfiguration) IsSDJWT() bool {
	return c.Format == SDJWTVCFormat || c.Format == LegacySDJWTVCFormat
}

// SupportsProofType returns true if the configuration accepts the given proof type.
// If the configuration declares no proof types, JWT proofs are assumed.
func (c CredentialConfiguration) SupportsProofType(proofType string) bool {
	if len(c.ProofTypesSupported) == 0 {
		return proofType == ProofTypeJWT
	}
	_, ok := c.ProofTypesSupported[proofType]
	return ok
}

// IsSDJWTConfigurationID is the naming heuristic for SD-JWT credential configurations (e.g. eu.europa.ec.eudi.pid_vc_sd_jwt).
func IsSDJWTConfigurationID(id string) bool {
	return strings.Contains(id, "sd_jwt")
}

// AuthorizationDetail is an OpenID4VCI authorization_details entry. (RFC9396)
type AuthorizationDetail struct {
	Type                      string `json:"type"`
	CredentialConfigurationID string `json:"credential_configuration_id"`
}

// CredentialRequest is the request to the credential endpoint.
type CredentialRequest struct {
	CredentialConfigurationID string  `json:"credential_configuration_id"`
	Proofs                    *Proofs `json:"proofs,omitempty"`
}

// Proofs contains the proofs of possession of the binding keys, grouped by proof type.
type Proofs struct {
	JWT         []string `json:"jwt,omitempty"`
	Attestation []string `json:"attestation,omitempty"`
}

// DeferredCredentialRequest is the request to the deferred credential endpoint.
type DeferredCredentialRequest struct {
	TransactionID string `json:"transaction_id"`
}

// CredentialResponse is the response of the credential endpoint and deferred credential endpoint.
// It contains either credentials, or a transaction ID when issuance is deferred.
type CredentialResponse struct {
	Credentials []CredentialObject `json:"credentials,omitempty"`
	// Credential is the single credential of pre-1.0 drafts of OpenID4VCI.
	Credential     json.RawMessage `json:"credential,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	Interval       int             `json:"interval,omitempty"`
	NotificationID string          `json:"notification_id,omitempty"`
	// Pending is set when the deferred credential endpoint signals the credential is not yet available.
	Pending bool `json:"-"`
}

// CredentialObject wraps a single issued credential.
type CredentialObject struct {
	Credential json.RawMessage `json:"credential"`
}

// ParseCredentials returns the credentials of the response.
func (r CredentialResponse) ParseCredentials() ([]Credential, error) {
	raws := make([]json.RawMessage, 0, len(r.Credentials)+1)
	for _, object := range r.Credentials {
		raws = append(raws, object.Credential)
	}
	if len(r.Credential) > 0 {
		raws = append(raws, r.Credential)
	}
	result := make([]Credential, 0, len(raws))
	for _, raw := range raws {
		credential, err := ParseCredential(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, credential)
	}
	return result, nil
}

// NonceResponse is the response of the nonce endpoint.
type NonceResponse struct {
	CNonce string `json:"c_nonce"`
}

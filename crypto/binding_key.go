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

package crypto

import (
	"crypto"
	"crypto/x509"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/nuts-foundation/go-did/did"
)

// BindingKey is the key an issued credential gets bound to.
// It's a closed set of variants: JWKBindingKey, KeyAttestationBindingKey, DIDBindingKey, X509BindingKey and AttestationBindingKey.
type BindingKey interface {
	bindingKey()
}

// JWKBindingKey binds the credential to a public JWK, for which the wallet holds the private key.
type JWKBindingKey struct {
	Algorithm  jwa.SignatureAlgorithm
	PublicKey  jwk.Key
	PrivateKey PrivateKeyHandle
}

// KeyAttestationBindingKey binds the credential to a key that is described by a key attestation JWT.
type KeyAttestationBindingKey struct {
	Algorithm      jwa.SignatureAlgorithm
	KeyAttestation string
	PrivateKey     PrivateKeyHandle
}

// DIDBindingKey binds the credential to a DID verification method.
// The signer is provided by the DID's controller and is not held by the wallet's key store.
type DIDBindingKey struct {
	KeyID     did.DIDURL
	Algorithm jwa.SignatureAlgorithm
	Signer    crypto.Signer
}

// X509BindingKey binds the credential to the leaf of an X.509 certificate chain.
type X509BindingKey struct {
	Chain     []*x509.Certificate
	Algorithm jwa.SignatureAlgorithm
	Signer    crypto.Signer
}

// AttestationBindingKey binds the credential to the key(s) attested in an attestation JWT,
// which is sent as proof as-is.
type AttestationBindingKey struct {
	Attestation string
}

func (JWKBindingKey) bindingKey()            {}
func (KeyAttestationBindingKey) bindingKey() {}
func (DIDBindingKey) bindingKey()            {}
func (X509BindingKey) bindingKey()           {}
func (AttestationBindingKey) bindingKey()    {}

// ExtractPrivateKeyHandle returns the private key handle of the binding key.
// Only JWK and key attestation binding keys refer to a key held by the wallet's key store.
func ExtractPrivateKeyHandle(key BindingKey) (PrivateKeyHandle, bool) {
	switch k := key.(type) {
	case JWKBindingKey:
		return k.PrivateKey, k.PrivateKey != nil
	case KeyAttestationBindingKey:
		return k.PrivateKey, k.PrivateKey != nil
	default:
		return nil, false
	}
}

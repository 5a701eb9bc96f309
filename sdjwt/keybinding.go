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

package sdjwt

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
)

// KeyBindingJWTType is the typ header of a key binding JWT.
const KeyBindingJWTType = "kb+jwt"

const (
	sdHashClaim                   = "sd_hash"
	nonceClaim                    = "nonce"
	transactionDataHashesClaim    = "transaction_data_hashes"
	transactionDataHashesAlgClaim = "transaction_data_hashes_alg"
)

// KeyBinding contains the input of a key binding JWT.
type KeyBinding struct {
	// Audience is the client ID of the verifier.
	Audience string
	Nonce    string
	IssuedAt time.Time
	// Digest is used for sd_hash, SHA-256 if empty. Transaction data is always hashed with SHA-256.
	Digest hash.Digest
	// TransactionData contains the encoded transaction data items the presentation authorizes.
	TransactionData []string
}

// Claims returns the payload of the key binding JWT for the given presentation (see SDJWT.Presentation).
func (k KeyBinding) Claims(presentation string) map[string]interface{} {
	digest := k.Digest
	if digest == "" {
		digest = hash.SHA256
	}
	result := map[string]interface{}{
		jwt.AudienceKey: k.Audience,
		nonceClaim:      k.Nonce,
		jwt.IssuedAtKey: k.IssuedAt.Unix(),
		sdHashClaim:     digest.Base64URL([]byte(presentation)),
	}
	if len(k.TransactionData) > 0 {
		hashes := make([]string, 0, len(k.TransactionData))
		for _, item := range k.TransactionData {
			hashes = append(hashes, hash.SHA256.Base64URL([]byte(item)))
		}
		result[transactionDataHashesAlgClaim] = hash.SHA256.String()
		result[transactionDataHashesClaim] = hashes
	}
	return result
}

// Present serializes the SD-JWT with its disclosures and appends a key binding JWT signed with the holder's key.
func (s SDJWT) Present(key nutsCrypto.PrivateKeyHandle, binding KeyBinding) (string, error) {
	if key == nil {
		return "", errors.New("key binding requires the holder's private key")
	}
	presentation := s.Presentation()
	headers := map[string]interface{}{
		jws.TypeKey: KeyBindingJWTType,
	}
	keyBindingJWT, err := nutsCrypto.SignJWT(key, binding.Claims(presentation), headers)
	if err != nil {
		return "", err
	}
	return presentation + keyBindingJWT, nil
}

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

package attestation

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"fmt"

	"github.com/nuts-foundation/nuts-wallet/core"
)

const x963KeySize = 65
const uncompressedPointPrefix = 0x04

// ExportPublicKeyX963 exports an EC P-256 public key as ANSI X9.63 uncompressed point (0x04 || X || Y).
func ExportPublicKeyX963(publicKey crypto.PublicKey) ([]byte, error) {
	ecKey, ok := publicKey.(*ecdsa.PublicKey)
	if !ok || ecKey.Curve != elliptic.P256() {
		return nil, core.CapabilityError(core.WrapError(ErrKeyExportFailed, fmt.Errorf("%w (type=%T)", ErrNotECKey, publicKey)))
	}
	ecdhKey, err := ecKey.ECDH()
	if err != nil {
		return nil, core.CapabilityError(core.WrapError(ErrKeyExportFailed, fmt.Errorf("%w: %w", ErrUnexpectedFormat, err)))
	}
	result := ecdhKey.Bytes()
	if len(result) != x963KeySize || result[0] != uncompressedPointPrefix {
		return nil, core.CapabilityError(core.WrapError(ErrKeyExportFailed, fmt.Errorf("%w (len=%d)", ErrUnexpectedFormat, len(result))))
	}
	return result, nil
}

// base64URL encodes without padding, as used for all attestation payload fields except the attestation object.
func base64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

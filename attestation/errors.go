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
	"errors"
)

// ErrNotSupported is returned when the device has no platform attestation capability.
// Callers should fall back to JWK attestation.
var ErrNotSupported = errors.New("device attestation is not supported")

// ErrInvalidChallenge is returned when the attestation backend returned an empty or missing challenge.
var ErrInvalidChallenge = errors.New("challenge was empty or missing")

// ErrKeyExportFailed is returned when the public key can't be exported in ANSI X9.63 format.
var ErrKeyExportFailed = errors.New("public key export failed")

// ErrNotECKey is returned when the key to export is not an EC P-256 public key.
var ErrNotECKey = errors.New("not an EC P-256 public key")

// ErrUnexpectedFormat is returned when the exported key is not a 65 byte uncompressed point.
var ErrUnexpectedFormat = errors.New("unexpected public key format")

// ErrAttestationFailed wraps errors of the platform attestation oracle and the attestation backend.
var ErrAttestationFailed = errors.New("attestation failed")

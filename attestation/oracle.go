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
	"context"
)

// Oracle is the platform's hardware attestation capability (e.g. App Attest or Play Integrity).
// Implementations return ErrNotSupported when the device lacks the capability.
type Oracle interface {
	// IsSupported reports whether the device supports hardware attestation.
	IsSupported() bool
	// GenerateKeyID creates a new attestation key in the device's secure hardware and returns its identifier.
	GenerateKeyID(ctx context.Context) (string, error)
	// AttestKey returns the platform's attestation object for the given key, bound to the client data hash.
	AttestKey(ctx context.Context, keyID string, clientDataHash []byte) ([]byte, error)
}

// UnsupportedOracle is the Oracle for platforms without hardware attestation.
type UnsupportedOracle struct{}

func (UnsupportedOracle) IsSupported() bool {
	return false
}

func (UnsupportedOracle) GenerateKeyID(_ context.Context) (string, error) {
	return "", ErrNotSupported
}

func (UnsupportedOracle) AttestKey(_ context.Context, _ string, _ []byte) ([]byte, error) {
	return nil, ErrNotSupported
}

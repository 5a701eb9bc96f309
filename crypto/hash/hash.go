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

package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// SHA256HashSize holds the size of a sha256 hash in bytes.
const SHA256HashSize = 32

// SHA256Hash is a SHA256 Hash over some bytes
type SHA256Hash [SHA256HashSize]byte

// SHA256Sum creates a sha256 hash from the given bytes
func SHA256Sum(data []byte) SHA256Hash {
	return sha256.Sum256(data)
}

// String returns the SHA256Hash as a hexidecimal string.
func (h SHA256Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Slice returns the Hash as a slice. It does not copy the array.
func (h SHA256Hash) Slice() []byte {
	return h[:]
}

// Digest is a hash algorithm, named by its IANA "Named Information Hash Algorithm" label.
// The label is what goes into _sd_alg and transaction_data_hashes_alg.
type Digest string

const (
	// SHA256 is the default SD-JWT digest. Transaction data hashes always use it.
	SHA256 Digest = "sha-256"
	// SHA3_256 is the SHA3 alternative.
	SHA3_256 Digest = "sha3-256"
)

// ParseDigest returns the Digest for the given label.
func ParseDigest(label string) (Digest, error) {
	switch Digest(label) {
	case SHA256, SHA3_256:
		return Digest(label), nil
	case "":
		return SHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", label)
	}
}

// Sum returns the digest of the given data.
func (d Digest) Sum(data []byte) []byte {
	switch d {
	case SHA3_256:
		result := sha3.Sum256(data)
		return result[:]
	default:
		result := sha256.Sum256(data)
		return result[:]
	}
}

// Base64URL returns the unpadded base64url encoding of the digest of the given data.
func (d Digest) Base64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(d.Sum(data))
}

func (d Digest) String() string {
	if d == "" {
		return string(SHA256)
	}
	return string(d)
}

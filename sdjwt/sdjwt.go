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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
)

// Separator separates the issuer-signed JWT, the disclosures and the key binding JWT.
const Separator = "~"

const (
	sdClaim      = "_sd"
	sdAlgClaim   = "_sd_alg"
	arrayElement = "..."
)

// ErrInvalidSDJWT is returned when a string can't be parsed as SD-JWT.
var ErrInvalidSDJWT = errors.New("invalid SD-JWT")

// Disclosure is a single disclosure of an SD-JWT.
type Disclosure struct {
	// Encoded is the base64url encoded disclosure as it appears in the SD-JWT.
	Encoded string
	Salt    string
	// Name is the claim name. It's empty for array element disclosures.
	Name  string
	Value interface{}
}

// SDJWT is a parsed SD-JWT: <issuer-signed JWT>~<disclosure>~...~<optional key binding JWT>.
type SDJWT struct {
	IssuerJWT     string
	Disclosures   []Disclosure
	KeyBindingJWT string
}

// Parse parses an SD-JWT in compact serialization. It does not verify the issuer's signature.
func Parse(compact string) (*SDJWT, error) {
	parts := strings.Split(compact, Separator)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: missing separator", ErrInvalidSDJWT)
	}
	if !isCompactJWS(parts[0]) {
		return nil, fmt.Errorf("%w: issuer-signed JWT is not a compact JWS", ErrInvalidSDJWT)
	}
	result := &SDJWT{IssuerJWT: parts[0]}
	for _, encoded := range parts[1 : len(parts)-1] {
		disclosure, err := ParseDisclosure(encoded)
		if err != nil {
			return nil, err
		}
		result.Disclosures = append(result.Disclosures, disclosure)
	}
	if last := parts[len(parts)-1]; last != "" {
		if !isCompactJWS(last) {
			return nil, fmt.Errorf("%w: key binding JWT is not a compact JWS", ErrInvalidSDJWT)
		}
		result.KeyBindingJWT = last
	}
	return result, nil
}

// ParseDisclosure decodes a base64url encoded disclosure: [salt, name, value] or [salt, value] for array elements.
func ParseDisclosure(encoded string) (Disclosure, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Disclosure{}, fmt.Errorf("%w: disclosure is not base64url encoded: %w", ErrInvalidSDJWT, err)
	}
	var elements []interface{}
	if err := json.Unmarshal(data, &elements); err != nil {
		return Disclosure{}, fmt.Errorf("%w: disclosure is not a JSON array: %w", ErrInvalidSDJWT, err)
	}
	result := Disclosure{Encoded: encoded}
	var ok bool
	switch len(elements) {
	case 2:
		result.Value = elements[1]
	case 3:
		if result.Name, ok = elements[1].(string); !ok {
			return Disclosure{}, fmt.Errorf("%w: disclosure claim name is not a string", ErrInvalidSDJWT)
		}
		result.Value = elements[2]
	default:
		return Disclosure{}, fmt.Errorf("%w: disclosure must have 2 or 3 elements, got %d", ErrInvalidSDJWT, len(elements))
	}
	if result.Salt, ok = elements[0].(string); !ok {
		return Disclosure{}, fmt.Errorf("%w: disclosure salt is not a string", ErrInvalidSDJWT)
	}
	return result, nil
}

// Claims returns the payload of the issuer-signed JWT, without resolving disclosures.
func (s SDJWT) Claims() (map[string]interface{}, error) {
	message, err := jws.ParseString(s.IssuerJWT)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSDJWT, err)
	}
	result := map[string]interface{}{}
	if err := json.Unmarshal(message.Payload(), &result); err != nil {
		return nil, fmt.Errorf("%w: issuer-signed JWT payload: %w", ErrInvalidSDJWT, err)
	}
	return result, nil
}

// Digest returns the hash algorithm of the disclosure digests (_sd_alg), SHA-256 if absent.
func (s SDJWT) Digest() (hash.Digest, error) {
	claims, err := s.Claims()
	if err != nil {
		return "", err
	}
	label, _ := claims[sdAlgClaim].(string)
	return hash.ParseDigest(label)
}

// DisclosedClaims returns the names and values of the disclosed object properties.
// Nested properties are returned by their own name.
func (s SDJWT) DisclosedClaims() map[string]interface{} {
	result := make(map[string]interface{}, len(s.Disclosures))
	for _, disclosure := range s.Disclosures {
		if disclosure.Name != "" {
			result[disclosure.Name] = disclosure.Value
		}
	}
	return result
}

// Select returns the SD-JWT with only the disclosures of the given claim names.
// Disclosures nested in a selected disclosure (e.g. the properties of an address) are kept,
// as are the disclosures that contain a selected one. The key binding JWT is dropped.
func (s SDJWT) Select(claimNames ...string) (*SDJWT, error) {
	digest, err := s.Digest()
	if err != nil {
		return nil, err
	}
	byDigest := make(map[string]int, len(s.Disclosures))
	for i, disclosure := range s.Disclosures {
		byDigest[digest.Base64URL([]byte(disclosure.Encoded))] = i
	}
	parents := map[int]int{}
	for i, disclosure := range s.Disclosures {
		for _, ref := range digestsIn(disclosure.Value) {
			if child, ok := byDigest[ref]; ok {
				parents[child] = i
			}
		}
	}
	selected := map[int]bool{}
	var selectNested func(i int)
	selectNested = func(i int) {
		if selected[i] {
			return
		}
		selected[i] = true
		for _, ref := range digestsIn(s.Disclosures[i].Value) {
			if child, ok := byDigest[ref]; ok {
				selectNested(child)
			}
		}
	}
	for i, disclosure := range s.Disclosures {
		if disclosure.Name == "" || !slices.Contains(claimNames, disclosure.Name) {
			continue
		}
		selectNested(i)
		for parent, ok := parents[i]; ok && !selected[parent]; parent, ok = parents[parent] {
			selected[parent] = true
		}
	}
	result := &SDJWT{IssuerJWT: s.IssuerJWT}
	for i, disclosure := range s.Disclosures {
		if selected[i] {
			result.Disclosures = append(result.Disclosures, disclosure)
		}
	}
	return result, nil
}

// Presentation serializes the issuer-signed JWT and the disclosures, without key binding JWT.
// The result ends with a separator and is the input of the key binding JWT's sd_hash.
func (s SDJWT) Presentation() string {
	var builder strings.Builder
	builder.WriteString(s.IssuerJWT)
	builder.WriteString(Separator)
	for _, disclosure := range s.Disclosures {
		builder.WriteString(disclosure.Encoded)
		builder.WriteString(Separator)
	}
	return builder.String()
}

// String returns the compact serialization, including the key binding JWT if present.
func (s SDJWT) String() string {
	return s.Presentation() + s.KeyBindingJWT
}

// digestsIn returns the disclosure digests referenced by a (disclosed) value:
// the entries of _sd arrays and the ... entries of array elements, at any depth.
func digestsIn(value interface{}) []string {
	var result []string
	switch v := value.(type) {
	case map[string]interface{}:
		if refs, ok := v[sdClaim].([]interface{}); ok {
			for _, ref := range refs {
				if s, ok := ref.(string); ok {
					result = append(result, s)
				}
			}
		}
		if ref, ok := v[arrayElement].(string); ok && len(v) == 1 {
			result = append(result, ref)
		}
		for key, nested := range v {
			if key != sdClaim {
				result = append(result, digestsIn(nested)...)
			}
		}
	case []interface{}:
		for _, element := range v {
			result = append(result, digestsIn(element)...)
		}
	}
	return result
}

func isCompactJWS(value string) bool {
	return strings.Count(value, ".") == 2
}

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

package openid4vci

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Credential is an issued credential: either StringEncoded or JSONEncoded.
type Credential interface {
	// Raw returns the credential as it was received.
	Raw() string
	credential()
}

// StringEncoded is a credential in compact serialization, e.g. an SD-JWT or base64url encoded mdoc.
type StringEncoded string

// JSONEncoded is a credential in JSON form, e.g. a JSON-LD VC.
type JSONEncoded json.RawMessage

func (s StringEncoded) Raw() string {
	return string(s)
}

func (StringEncoded) credential() {}

func (j JSONEncoded) Raw() string {
	return string(j)
}

func (JSONEncoded) credential() {}

// Claims unmarshals the credential's JSON.
func (j JSONEncoded) Claims() (map[string]interface{}, error) {
	result := map[string]interface{}{}
	err := json.Unmarshal(j, &result)
	return result, err
}

// ParseCredential parses a credential from a credential response.
func ParseCredential(data json.RawMessage) (Credential, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty credential")
	}
	switch trimmed[0] {
	case '"':
		var result string
		if err := json.Unmarshal(trimmed, &result); err != nil {
			return nil, fmt.Errorf("invalid credential: %w", err)
		}
		if result == "" {
			return nil, errors.New("empty credential")
		}
		return StringEncoded(result), nil
	case '{':
		if !json.Valid(trimmed) {
			return nil, errors.New("invalid credential: malformed JSON")
		}
		return JSONEncoded(trimmed), nil
	default:
		return nil, errors.New("invalid credential: unexpected JSON type")
	}
}

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

package openid4vp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDCQLQuery_QueryID(t *testing.T) {
	var nilQuery *DCQLQuery

	assert.Equal(t, "query_0", nilQuery.QueryID())
	assert.Equal(t, "query_0", (&DCQLQuery{}).QueryID())
	assert.Equal(t, "pid", (&DCQLQuery{Credentials: []CredentialQuery{{ID: "pid"}, {ID: "mdl"}}}).QueryID())
}

func TestCredentialQuery_ClaimNames(t *testing.T) {
	query := CredentialQuery{Claims: []ClaimsQuery{
		{Path: []interface{}{"given_name"}},
		{Path: []interface{}{"address", "country"}},
		{Path: []interface{}{"nationalities", nil}},
		{Path: []interface{}{"degrees", 0.0}},
		{Path: []interface{}{}},
	}}

	assert.Equal(t, []string{"given_name", "country", "nationalities", "degrees"}, query.ClaimNames())
}

func TestParseTransactionData(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		encoded := encodeTransactionData(`{"type":"payment","credential_ids":["pid"],"amount":"10"}`)

		result, err := ParseTransactionData(encoded)

		require.NoError(t, err)
		assert.Equal(t, encoded, result.Encoded)
		assert.Equal(t, "payment", result.Type)
		assert.Equal(t, []string{"pid"}, result.CredentialIDs)
	})
	t.Run("errors", func(t *testing.T) {
		for name, encoded := range map[string]string{
			"not base64url":  "!!",
			"not JSON":       encodeTransactionData("payment"),
			"without type":   encodeTransactionData(`{"credential_ids":["pid"]}`),
			"padded base64":  encodeTransactionData(`{"type":"payment"}`) + "==",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := ParseTransactionData(encoded)

				assert.ErrorIs(t, err, ErrInvalidRequest)
			})
		}
	})
}

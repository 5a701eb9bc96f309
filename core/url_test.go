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

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinURLPaths(t *testing.T) {
	assert.Equal(t, "http://example.com/path", JoinURLPaths("http://example.com", "/path"))
	assert.Equal(t, "http://example.com/path", JoinURLPaths("http://example.com", "path"))
	assert.Equal(t, "http://example.com/path", JoinURLPaths("http://example.com/", "/path"))
	assert.Equal(t, "http://example.com/path/", JoinURLPaths("http://example.com/", "/path/"))
	assert.Equal(t, "http://example.com", JoinURLPaths("http://example.com"))
	assert.Equal(t, "", JoinURLPaths())
}

func TestParsePublicURL(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		parsed, err := ParsePublicURL("https://issuer.eudiw.dev/pid", true)

		require.NoError(t, err)
		assert.Equal(t, "/pid", parsed.Path)
	})
	t.Run("missing scheme", func(t *testing.T) {
		_, err := ParsePublicURL("issuer.eudiw.dev", false)

		assert.EqualError(t, err, "URL missing scheme")
	})
	t.Run("missing host", func(t *testing.T) {
		_, err := ParsePublicURL("https://", false)

		assert.EqualError(t, err, "URL missing host")
	})
	t.Run("non-strict allows IP and http", func(t *testing.T) {
		_, err := ParsePublicURL("http://127.0.0.1:8080", false)

		assert.NoError(t, err)
	})
	t.Run("strict", func(t *testing.T) {
		_, err := ParsePublicURL("http://issuer.eudiw.dev", true)
		assert.EqualError(t, err, "scheme must be https")

		_, err = ParsePublicURL("https://127.0.0.1", true)
		assert.EqualError(t, err, "hostname is IP")

		_, err = ParsePublicURL("https://localhost", true)
		assert.EqualError(t, err, "hostname is reserved")

		_, err = ParsePublicURL("https://issuer.example.com", true)
		assert.EqualError(t, err, "hostname is reserved")
	})
}

func TestAddQueryParams(t *testing.T) {
	u := mustParseURL("https://issuer.eudiw.dev/authorize?client_id=wallet-dev")

	result := AddQueryParams(*u, map[string]string{"request_uri": "urn:par:1"})

	assert.Equal(t, "https://issuer.eudiw.dev/authorize?client_id=wallet-dev&request_uri=urn%3Apar%3A1", result.String())
	assert.Equal(t, "client_id=wallet-dev", u.RawQuery)
}

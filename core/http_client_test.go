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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("strict mode rejects plain HTTP", func(t *testing.T) {
		client := NewStrictHTTPClient(true, time.Second, nil)
		request, _ := http.NewRequest(http.MethodGet, server.URL, nil)

		_, err := client.Do(request)

		assert.EqualError(t, err, "strictmode is enabled, but request is not over HTTPS")
		assert.Equal(t, KindConfiguration, KindOf(err))
	})
	t.Run("non-strict mode allows plain HTTP", func(t *testing.T) {
		client := NewStrictHTTPClient(false, time.Second, nil)
		request, _ := http.NewRequest(http.MethodGet, server.URL, nil)

		response, err := client.Do(request)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
	})
	t.Run("sets User-Agent", func(t *testing.T) {
		var userAgent string
		uaServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			userAgent = request.Header.Get("User-Agent")
			writer.WriteHeader(http.StatusOK)
		}))
		defer uaServer.Close()
		client := NewStrictHTTPClient(false, time.Second, nil)
		request, _ := http.NewRequest(http.MethodGet, uaServer.URL, nil)

		_, err := client.Do(request)

		require.NoError(t, err)
		assert.Equal(t, UserAgent(), userAgent)
	})
	t.Run("transport failure is transient", func(t *testing.T) {
		client := NewStrictHTTPClient(false, time.Second, nil)
		request, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:0", nil)

		_, err := client.Do(request)

		assert.Equal(t, KindTransient, KindOf(err))
	})
}

func TestTestResponseCode(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		response := &http.Response{StatusCode: http.StatusOK}

		assert.NoError(t, TestResponseCode(http.StatusOK, response))
	})
	t.Run("mismatch", func(t *testing.T) {
		response := &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"error":"invalid_request"}`)),
			Request:    &http.Request{URL: mustParseURL("https://issuer.eudiw.dev/token")},
		}

		err := TestResponseCodeWithLog(http.StatusOK, response, logrus.NewEntry(logrus.StandardLogger()))

		assert.EqualError(t, err, "server returned HTTP 400 (expected: 200)")
		var httpErr HttpError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
		assert.Equal(t, `{"error":"invalid_request"}`, string(httpErr.ResponseBody))
	})
}

func TestClipBody(t *testing.T) {
	assert.Equal(t, "short", ClipBody([]byte("short")))
	clipped := ClipBody([]byte(strings.Repeat("a", 150)))
	assert.Equal(t, strings.Repeat("a", 100)+"...(clipped)", clipped)
}

func TestReadJSON(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		response := &http.Response{Body: io.NopCloser(strings.NewReader(`{"challenge":"abc"}`))}
		var target map[string]string

		require.NoError(t, ReadJSON(response, &target))

		assert.Equal(t, "abc", target["challenge"])
	})
	t.Run("invalid JSON", func(t *testing.T) {
		response := &http.Response{Body: io.NopCloser(strings.NewReader(`not json`))}
		var target map[string]string

		err := ReadJSON(response, &target)

		assert.ErrorContains(t, err, "*map[string]string JSON unmarshal error")
	})
}

func mustParseURL(input string) *url.URL {
	parsed, err := url.Parse(input)
	if err != nil {
		panic(err)
	}
	return parsed
}

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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pquerna/cachecontrol"
	"github.com/sirupsen/logrus"
)

const defaultCacheMaxBytes = 10 * 1024 * 1024

// maxCacheLifetime caps the cache lifetime a server may request, to limit staleness of issuer and verifier metadata.
const maxCacheLifetime = time.Hour

var cacheNowFunc = time.Now

// CachingHTTPRequestDoer caches responses to GET requests, as far as the server declares them cacheable.
// It is used for metadata (credential issuer, authorization server, verifier JWKS), which is fetched repeatedly but changes rarely.
// It only works on expiration time and does not respect ETags headers.
type CachingHTTPRequestDoer struct {
	maxBytes    int
	requestDoer HTTPRequestDoer

	currentSizeBytes int
	entries          map[string]*cacheEntry
	mux              sync.Mutex
}

type cacheEntry struct {
	responseData    []byte
	expirationTime  time.Time
	responseStatus  int
	responseHeaders http.Header
}

// NewCachingHTTPRequestDoer wraps the given HTTPRequestDoer with a response cache of at most 10MB.
func NewCachingHTTPRequestDoer(requestDoer HTTPRequestDoer) *CachingHTTPRequestDoer {
	return &CachingHTTPRequestDoer{
		maxBytes:    defaultCacheMaxBytes,
		requestDoer: requestDoer,
		entries:     map[string]*cacheEntry{},
	}
}

func (h *CachingHTTPRequestDoer) Do(httpRequest *http.Request) (*http.Response, error) {
	if httpRequest.Method != http.MethodGet {
		return h.requestDoer.Do(httpRequest)
	}
	if response := h.get(httpRequest); response != nil {
		return response, nil
	}

	httpResponse, err := h.requestDoer.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	reasons, expirationTime, err := cachecontrol.CachableResponse(httpRequest, httpResponse, cachecontrol.Options{PrivateCache: false})
	if err != nil {
		logrus.WithError(err).Infof("error while checking cacheability of response (url=%s), not caching", httpRequest.URL.String())
		return httpResponse, nil
	}
	if len(reasons) > 0 || expirationTime.IsZero() {
		logrus.Debugf("response (url=%s) is not cacheable: %v", httpRequest.URL.String(), reasons)
		return httpResponse, nil
	}
	if maxExpirationTime := cacheNowFunc().Add(maxCacheLifetime); expirationTime.After(maxExpirationTime) {
		expirationTime = maxExpirationTime
	}
	responseBytes, err := io.ReadAll(httpResponse.Body)
	_ = httpResponse.Body.Close()
	if err != nil {
		return nil, TransientError(fmt.Errorf("error while reading response body for caching: %w", err))
	}
	h.put(httpRequest.URL.String(), &cacheEntry{
		responseData:    responseBytes,
		expirationTime:  expirationTime,
		responseStatus:  httpResponse.StatusCode,
		responseHeaders: httpResponse.Header,
	})
	httpResponse.Body = io.NopCloser(bytes.NewReader(responseBytes))
	return httpResponse, nil
}

func (h *CachingHTTPRequestDoer) get(httpRequest *http.Request) *http.Response {
	h.mux.Lock()
	defer h.mux.Unlock()
	key := httpRequest.URL.String()
	entry, ok := h.entries[key]
	if !ok {
		return nil
	}
	if !entry.expirationTime.After(cacheNowFunc()) {
		h.remove(key)
		return nil
	}
	return &http.Response{
		StatusCode: entry.responseStatus,
		Header:     entry.responseHeaders.Clone(),
		Body:       io.NopCloser(bytes.NewReader(entry.responseData)),
		Request:    httpRequest,
	}
}

func (h *CachingHTTPRequestDoer) put(key string, entry *cacheEntry) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if len(entry.responseData) > h.maxBytes {
		return
	}
	h.remove(key)
	// make room by evicting the entries that expire first
	for h.currentSizeBytes+len(entry.responseData) > h.maxBytes {
		h.remove(h.firstToExpire())
	}
	h.entries[key] = entry
	h.currentSizeBytes += len(entry.responseData)
}

func (h *CachingHTTPRequestDoer) firstToExpire() string {
	var result string
	var first time.Time
	for key, entry := range h.entries {
		if result == "" || entry.expirationTime.Before(first) {
			result = key
			first = entry.expirationTime
		}
	}
	return result
}

func (h *CachingHTTPRequestDoer) remove(key string) {
	if entry, ok := h.entries[key]; ok {
		h.currentSizeBytes -= len(entry.responseData)
		delete(h.entries, key)
	}
}

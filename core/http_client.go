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
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// maxLoggedBodyLength is the number of response body characters included in log statements.
const maxLoggedBodyLength = 100

// HttpError describes an error returned when invoking a remote server.
type HttpError struct {
	error
	StatusCode   int
	ResponseBody []byte
}

// Unwrap returns the underlying error.
func (e HttpError) Unwrap() error {
	return e.error
}

// TestResponseCode checks whether the returned HTTP status response code matches the expected code.
// If it doesn't match it returns an error, containing the received and expected status code, and the response body.
func TestResponseCode(expectedStatusCode int, response *http.Response) error {
	return TestResponseCodeWithLog(expectedStatusCode, response, nil)
}

// TestResponseCodeWithLog acts like TestResponseCode, but logs the response body if the status code is not as expected.
// It logs using the given logger, unless nil is passed.
func TestResponseCodeWithLog(expectedStatusCode int, response *http.Response, log *logrus.Entry) error {
	if response.StatusCode == expectedStatusCode {
		return nil
	}
	responseData, _ := io.ReadAll(response.Body)
	if log != nil {
		entry := log
		if response.Request != nil && response.Request.URL != nil {
			entry = entry.WithField("http_request_path", response.Request.URL.Path)
		}
		entry.Infof("Unexpected HTTP response (len=%d): %s", len(responseData), ClipBody(responseData))
	}
	return HttpError{
		error:        fmt.Errorf("server returned HTTP %d (expected: %d)", response.StatusCode, expectedStatusCode),
		StatusCode:   response.StatusCode,
		ResponseBody: responseData,
	}
}

// NewHttpError creates an HttpError for a response with an unexpected status code.
func NewHttpError(statusCode int, responseBody []byte) HttpError {
	return HttpError{
		error:        fmt.Errorf("server returned HTTP %d", statusCode),
		StatusCode:   statusCode,
		ResponseBody: responseBody,
	}
}

// ClipBody returns the response body as string, cut off to prevent logging of large responses.
func ClipBody(data []byte) string {
	body := string(data)
	if len(body) > maxLoggedBodyLength {
		return body[:maxLoggedBodyLength] + "...(clipped)"
	}
	return body
}

// ReadJSON reads the response body and unmarshals it into target.
// The body is always closed.
func ReadJSON(response *http.Response, target interface{}) error {
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return TransientError(fmt.Errorf("unable to read response body: %w", err))
	}
	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%T JSON unmarshal error: %w, %s", target, err, ClipBody(data))
	}
	return nil
}

// HTTPRequestDoer defines the Do method of the http.Client interface.
type HTTPRequestDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewStrictHTTPClient creates a HTTPRequestDoer that only allows HTTPS calls when strictmode is enabled.
func NewStrictHTTPClient(strictmode bool, timeout time.Duration, tlsConfig *tls.Config) *StrictHTTPClient {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	transport := http.DefaultTransport
	// Might not be http.Transport in testing
	if httpTransport, ok := transport.(*http.Transport); ok {
		httpTransport = httpTransport.Clone()
		httpTransport.TLSClientConfig = tlsConfig
		transport = httpTransport
	}

	return &StrictHTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		strictMode: strictmode,
	}
}

// StrictHTTPClient is the network executor for all outbound calls.
// Transport failures are reported as transient errors.
type StrictHTTPClient struct {
	client     *http.Client
	strictMode bool
}

func (s *StrictHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if s.strictMode && req.URL.Scheme != "https" {
		return nil, ConfigurationError(errors.New("strictmode is enabled, but request is not over HTTPS"))
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent())
	}
	response, err := s.client.Do(req)
	if err != nil {
		return nil, TransientError(err)
	}
	return response, nil
}

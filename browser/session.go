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

// Package browser provides the interactive redirect session of the authorization code flow.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/browser/log"
)

// CallbackPath is the path of the loopback redirect endpoint.
const CallbackPath = "/callback"

const shutdownTimeout = 5 * time.Second

// Session opens the authorization URL in a browser and waits for the authorization server to redirect back.
type Session interface {
	// RedirectURI returns the redirect_uri that must be registered in the authorization request.
	RedirectURI() string
	// Authorize opens the authorization URL and blocks until the browser is redirected to RedirectURI,
	// the user cancels or ctx is done. It returns the full redirect URL including its query.
	Authorize(ctx context.Context, authorizationURL string) (*url.URL, error)
}

// Opener presents the authorization URL to the end-user, e.g. by launching a browser or printing it.
type Opener func(authorizationURL string) error

var _ Session = (*LoopbackSession)(nil)

// LoopbackSession receives the authorization redirect on a local HTTP listener.
// A LoopbackSession serves a single authorization.
type LoopbackSession struct {
	listener net.Listener
	opener   Opener
}

// NewLoopbackSession binds the redirect listener on the given address (e.g. 127.0.0.1:0).
func NewLoopbackSession(address string, opener Opener) (*LoopbackSession, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, core.ConfigurationError(fmt.Errorf("unable to bind loopback redirect listener: %w", err))
	}
	return &LoopbackSession{listener: listener, opener: opener}, nil
}

func (l *LoopbackSession) RedirectURI() string {
	return "http://" + l.listener.Addr().String() + CallbackPath
}

// Close releases the listener if Authorize was never called.
func (l *LoopbackSession) Close() error {
	err := l.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (l *LoopbackSession) Authorize(ctx context.Context, authorizationURL string) (*url.URL, error) {
	callback := NewCallback()
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Listener = l.listener
	server.GET(CallbackPath, func(c echo.Context) error {
		redirect := *c.Request().URL
		redirect.Scheme = "http"
		redirect.Host = c.Request().Host
		if !callback.Resolve(&redirect) {
			return c.String(http.StatusConflict, "Authorization already completed.")
		}
		return c.String(http.StatusOK, "Authorization completed, you can close this window.")
	})
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start("")
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Logger().WithError(err).Warn("Unable to shut down loopback redirect listener")
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger().WithError(err).Warn("Loopback redirect listener failed")
		}
	}()

	if err := l.opener(authorizationURL); err != nil {
		callback.Reject(fmt.Errorf("unable to open browser: %w", err))
	}
	return callback.Wait(ctx)
}

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

package browser

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/nuts-foundation/nuts-wallet/core"
)

// ErrCancelled is returned when the end-user dismissed the browser session.
var ErrCancelled = errors.New("authorization cancelled by user")

// Callback is the single-shot result of a browser session.
// Exactly one of Resolve and Reject takes effect, later calls are ignored.
type Callback struct {
	once   sync.Once
	done   chan struct{}
	result *url.URL
	err    error
}

// NewCallback creates an unresolved Callback.
func NewCallback() *Callback {
	return &Callback{done: make(chan struct{})}
}

// Resolve completes the callback with the URL the browser was redirected to.
// It returns false if the callback was already completed.
func (c *Callback) Resolve(redirect *url.URL) bool {
	if redirect == nil {
		return c.Reject(errors.New("redirect URL is nil"))
	}
	return c.complete(redirect, nil)
}

// Reject completes the callback with an error, e.g. ErrCancelled when the user dismissed the browser.
// It returns false if the callback was already completed.
func (c *Callback) Reject(err error) bool {
	if err == nil {
		err = ErrCancelled
	}
	return c.complete(nil, err)
}

func (c *Callback) complete(result *url.URL, err error) bool {
	completed := false
	c.once.Do(func() {
		c.result = result
		c.err = err
		completed = true
		close(c.done)
	})
	return completed
}

// Wait blocks until the callback is completed or the context is done.
// Context cancellation is reported as ErrCancelled, wrapping the context error.
func (c *Callback) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case <-c.done:
		return c.result, c.err
	case <-ctx.Done():
		c.Reject(core.WrapError(ErrCancelled, ctx.Err()))
		<-c.done
		return c.result, c.err
	}
}

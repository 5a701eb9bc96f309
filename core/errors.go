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
	"fmt"
	"net/http"

	"github.com/go-errors/errors"
)

type wrappedError struct {
	err   error
	cause error
}

func (w wrappedError) Error() string {
	// Use Sprintf to avoid nil dereferences, when someone accidentally passes a nil err or cause.
	return fmt.Sprintf("%s", w.err) + ": " + fmt.Sprintf("%s", w.cause)
}

func (w wrappedError) Is(other error) bool {
	return errors.Is(w.err, other)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// WrapError returns an error that wraps a cause. In contrary to fmt.Errorf, errors.Is can be used on both the outer error and cause.
func WrapError(err error, cause error) error {
	return wrappedError{
		err:   err,
		cause: cause,
	}
}

// ErrorKind classifies an error by how the caller should react to it.
type ErrorKind int

const (
	// UnclassifiedError is returned by KindOf for errors that carry no classification.
	UnclassifiedError ErrorKind = iota
	// KindConfiguration errors are fatal and should not be retried (e.g. missing metadata).
	KindConfiguration
	// KindProtocol errors terminate the current attempt (e.g. invalid proof, rejected presentation).
	KindProtocol
	// KindTransient errors may be retried by the caller (e.g. network failures).
	KindTransient
	// KindCapability errors indicate the chosen method is unavailable; the caller should fall back to an alternative.
	KindCapability
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindProtocol:
		return "protocol"
	case KindTransient:
		return "transient"
	case KindCapability:
		return "capability"
	default:
		return "unclassified"
	}
}

// Error is an error annotated with its ErrorKind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e Error) Error() string {
	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

func classified(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return Error{Kind: kind, Err: err}
}

// ConfigurationError marks err as a configuration error.
func ConfigurationError(err error) error {
	return classified(KindConfiguration, err)
}

// ProtocolError marks err as a protocol error.
func ProtocolError(err error) error {
	return classified(KindProtocol, err)
}

// TransientError marks err as a transient error.
func TransientError(err error) error {
	return classified(KindTransient, err)
}

// CapabilityError marks err as a capability error.
func CapabilityError(err error) error {
	return classified(KindCapability, err)
}

// KindOf returns the classification of the given error.
// The outermost classification wins. HTTP errors with a 5xx status are considered transient.
func KindOf(err error) ErrorKind {
	var target Error
	if errors.As(err, &target) {
		return target.Kind
	}
	var httpErr HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode >= http.StatusInternalServerError {
		return KindTransient
	}
	return UnclassifiedError
}

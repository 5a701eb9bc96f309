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

package holder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/holder/log"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
)

var _ Poller = (*poller)(nil)

// NewPoller creates a Poller. The negotiator is used to refresh expired access tokens, it may be nil.
func NewPoller(client openid4vci.IssuerAPIClient, negotiator Negotiator, config PollConfig, metrics *Metrics) Poller {
	return &poller{
		client:     client,
		negotiator: negotiator,
		config:     config,
		metrics:    metrics,
	}
}

type poller struct {
	client     openid4vci.IssuerAPIClient
	negotiator Negotiator
	config     PollConfig
	metrics    *Metrics
}

// errStillPending makes retry.Do poll again.
var errStillPending = errors.New("still pending")

func (p poller) Poll(ctx context.Context, deferred DeferredCredentialOutcome) (CredentialOutcome, error) {
	var result CredentialOutcome = deferred
	current := deferred
	if err := sleep(ctx, p.interval(current)); err != nil {
		return result, err
	}
	err := retry.Do(func() error {
		outcome, err := p.PollOnce(ctx, current)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		result = outcome
		if next, ok := outcome.(DeferredCredentialOutcome); ok {
			current = next
			return errStillPending
		}
		return nil
	},
		retry.Attempts(p.config.MaxAttempts),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			return p.interval(current)
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Logger().
				WithField(core.LogFieldTransactionID, current.TransactionID).
				Debugf("Credential still pending (attempt=%d)", n+1)
		}),
	)
	if errors.Is(err, errStillPending) {
		return result, fmt.Errorf("%w (transaction_id=%s)", ErrIssuancePending, current.TransactionID)
	}
	return result, err
}

func (p poller) interval(deferred DeferredCredentialOutcome) time.Duration {
	if deferred.Interval > 0 {
		return deferred.Interval
	}
	return p.config.Interval
}

func (p poller) PollOnce(ctx context.Context, deferred DeferredCredentialOutcome) (CredentialOutcome, error) {
	endpoint := deferred.Issuer.IssuerMetadata.DeferredCredentialEndpoint
	if endpoint == "" {
		return nil, core.ConfigurationError(ErrMissingDeferredCredentialEndpoint)
	}
	logger := log.Logger().
		WithField(core.LogFieldCredentialIssuer, deferred.Issuer.CredentialIssuer).
		WithField(core.LogFieldTransactionID, deferred.TransactionID)
	authorized := deferred.AuthorizedRequest
	if authorized.IsExpired(nowFunc()) {
		if p.negotiator == nil {
			return nil, core.ProtocolError(ErrAccessTokenExpired)
		}
		logger.Debug("Access token expired, refreshing")
		refreshed, err := p.negotiator.Refresh(ctx, deferred.Issuer, authorized)
		if err != nil {
			return nil, err
		}
		authorized = *refreshed
	}
	response, err := p.client.RequestDeferredCredential(ctx, endpoint, deferred.TransactionID, authorized.callOptions())
	if err != nil {
		p.metrics.poll("failed")
		return nil, err
	}
	if response.Pending {
		p.metrics.poll("pending")
		next := deferred
		next.AuthorizedRequest = authorized
		if response.TransactionID != "" {
			next.TransactionID = response.TransactionID
		}
		if response.Interval > 0 {
			next.Interval = time.Duration(response.Interval) * time.Second
		}
		return next, nil
	}
	credentials, err := response.ParseCredentials()
	if err != nil {
		p.metrics.poll("failed")
		return nil, core.ProtocolError(err)
	}
	if len(credentials) == 0 {
		p.metrics.poll("failed")
		return nil, core.ProtocolError(errors.New("deferred credential response contains no credentials"))
	}
	p.metrics.poll("issued")
	logger.Info("Deferred credential issued")
	return IssuedCredentialOutcome{
		Credential: credentials[0],
		PrivateKey: deferred.PrivateKey,
		IsSDJWT:    deferred.IsSDJWT,
	}, nil
}

// sleep waits for the given duration or until ctx is done.
func sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

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
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts issuance results. A nil *Metrics records nothing.
type Metrics struct {
	issuances *prometheus.CounterVec
	polls     *prometheus.CounterVec
	tokens    *prometheus.CounterVec
}

// NewMetrics creates the issuance metrics and registers them with the registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	result := &Metrics{}
	var err error
	if result.issuances, err = core.RegisterCollector(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "issuance",
		Name:      "credential_requests_total",
		Help:      "Number of credential requests by outcome (issued, deferred, invalid_proof, failed)",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if result.polls, err = core.RegisterCollector(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "issuance",
		Name:      "deferred_polls_total",
		Help:      "Number of deferred credential polls by result (issued, pending, failed)",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if result.tokens, err = core.RegisterCollector(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "issuance",
		Name:      "access_tokens_total",
		Help:      "Number of access tokens obtained by grant type",
	}, []string{"grant_type"})); err != nil {
		return nil, err
	}
	return result, nil
}

func (m *Metrics) issuance(outcome string) {
	if m != nil {
		m.issuances.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) poll(result string) {
	if m != nil {
		m.polls.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) token(grantType string) {
	if m != nil {
		m.tokens.WithLabelValues(grantType).Inc()
	}
}

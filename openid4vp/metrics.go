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
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts presentation results. A nil *Metrics records nothing.
type Metrics struct {
	dispatches *prometheus.CounterVec
}

// NewMetrics creates the presentation metrics and registers them with the registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	dispatches, err := core.RegisterCollector(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "presentation",
		Name:      "dispatches_total",
		Help:      "Number of dispatched authorization responses by response mode and outcome (accepted, rejected, failed)",
	}, []string{"response_mode", "outcome"}))
	if err != nil {
		return nil, err
	}
	return &Metrics{dispatches: dispatches}, nil
}

func (m *Metrics) dispatch(responseMode string, outcome string) {
	if m != nil {
		m.dispatches.WithLabelValues(responseMode, outcome).Inc()
	}
}

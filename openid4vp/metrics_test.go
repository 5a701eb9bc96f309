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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Run("registers collector", func(t *testing.T) {
		registry := prometheus.NewRegistry()

		metrics, err := NewMetrics(registry)
		require.NoError(t, err)
		metrics.dispatch(ResponseModeDirectPost, "accepted")

		count, err := testutil.GatherAndCount(registry, "wallet_presentation_dispatches_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
	t.Run("nil metrics record nothing", func(t *testing.T) {
		var metrics *Metrics

		assert.NotPanics(t, func() {
			metrics.dispatch(ResponseModeFragment, "accepted")
		})
	})
}

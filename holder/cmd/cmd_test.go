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

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSet(t *testing.T) {
	flags := FlagSet()

	policy, err := flags.GetString("issuance.metadatapolicy")
	require.NoError(t, err)
	interval, err := flags.GetDuration("issuance.poll.interval")
	require.NoError(t, err)
	attempts, err := flags.GetUint("issuance.poll.maxattempts")
	require.NoError(t, err)

	assert.Equal(t, "strict", policy)
	assert.Equal(t, 5*time.Second, interval)
	assert.Equal(t, uint(12), attempts)
}

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
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func() {
		GitVersion = ""
	}()

	assert.Equal(t, "development", Version())

	GitVersion = "undefined"
	assert.Equal(t, "development", Version())

	GitVersion = "v1.0.0"
	assert.Equal(t, "v1.0.0", Version())
	assert.Equal(t, "nuts-wallet/v1.0.0 ("+runtime.GOOS+"/"+runtime.GOARCH+")", UserAgent())
	assert.Contains(t, BuildInfo(), "Version: v1.0.0\n")
}

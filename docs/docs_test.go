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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOptions(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("issuance.clientid", "wallet-dev", "OAuth client ID.")
	flags.String("verbosity", "info", "Log level")
	flags.Duration("http.timeout", 0, "Timeout a|b")
	flags.String("crypto.storage", "fs", "Storage.")
	flags.String("hidden", "", "")
	_ = flags.MarkHidden("hidden")
	buf := new(bytes.Buffer)

	err := writeConfigOptions(buf, flags)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"| Key | Default | Description |",
		"|---|---|---|",
		"| verbosity | info | Log level |",
		`| http.timeout | 0s | Timeout a\|b |`,
		"| **crypto** | | |",
		"| crypto.storage | fs | Storage. |",
		"| **issuance** | | |",
		"| issuance.clientid | wallet-dev | OAuth client ID. |",
	}, lines)
}

func TestFixCopyrightNotice(t *testing.T) {
	t.Run("adds missing notice", func(t *testing.T) {
		result, changed := fixCopyrightNotice("package main\n")

		assert.True(t, changed)
		assert.True(t, strings.HasPrefix(result, "/*\n * Copyright (C) "))
		assert.True(t, strings.HasSuffix(result, " */\n\npackage main\n"))
	})
	t.Run("up-to-date notice", func(t *testing.T) {
		source := copyrightText + "package main\n"

		_, changed := fixCopyrightNotice(source)

		assert.False(t, changed)
	})
	t.Run("updates year", func(t *testing.T) {
		result, changed := fixCopyrightNotice("/*\n * Copyright (C) 2001 Nuts community\n */\npackage main\n")

		assert.True(t, changed)
		assert.Contains(t, result, yearRegexReplacement)
	})
	t.Run("generated code", func(t *testing.T) {
		_, changed := fixCopyrightNotice("// Code generated by MockGen. DO NOT EDIT.\npackage main\n")

		assert.False(t, changed)
	})
}

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
	"fmt"

	"github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/spf13/pflag"
)

// FlagSet returns the configuration flags for the key store
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("crypto", pflag.ContinueOnError)

	defs := crypto.DefaultConfig()
	flags.String("crypto.storage", defs.Storage, fmt.Sprintf("Storage of private keys, '%s' keeps them in memory, '%s' stores them as PEM files.", crypto.MemoryStorage, crypto.FileSystemStorage))
	flags.String("crypto.fspath", defs.FSPath, "Directory of the private key files when crypto.storage is 'fs'.")

	return flags
}

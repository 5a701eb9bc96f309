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
	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/spf13/pflag"
)

// FlagSet defines the set of flags that sets the attestation configuration
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("attestation", pflag.ContinueOnError)

	defs := attestation.DefaultConfig()
	flags.String("attestation.backendurl", defs.BackendURL, "Base URL of the wallet provider that issues wallet and key attestations.")
	flags.String("attestation.clientid", defs.ClientID, "Client ID of the wallet as registered at the wallet provider.")
	flags.String("attestation.platform", defs.Platform, "Platform of the device attestation endpoint of the wallet provider.")

	return flags
}

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
	"github.com/nuts-foundation/nuts-wallet/openid4vp"
	"github.com/spf13/pflag"
)

// FlagSet defines the set of flags that sets the presentation configuration.
// Pre-registered verifiers can only be configured in the config file.
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("presentation", pflag.ContinueOnError)

	defs := openid4vp.DefaultConfig()
	flags.String("presentation.digest", defs.Digest, "Hash algorithm of sd_hash in key binding JWTs, either 'sha-256' or 'sha3-256'. Transaction data is always hashed with SHA-256.")
	flags.StringSlice("presentation.trustanchors", defs.TrustAnchors, "PEM files with the root certificates of verifiers that use the x509_san_dns or x509_hash client_id scheme.")

	return flags
}

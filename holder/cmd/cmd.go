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

	"github.com/nuts-foundation/nuts-wallet/holder"
	"github.com/spf13/pflag"
)

// FlagSet defines the set of flags that sets the issuance configuration
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("issuance", pflag.ContinueOnError)

	defs := holder.DefaultConfig()
	flags.String("issuance.clientid", defs.ClientID, "OAuth client ID of the wallet, used in token requests and as iss of proofs.")
	flags.String("issuance.redirecturi", defs.RedirectURI, "Redirect URI of the authorization code flow, used when the browser session doesn't provide one.")
	flags.String("issuance.metadatapolicy", string(defs.MetadataPolicy), fmt.Sprintf("Validation of issuer metadata, '%s' requires the metadata to match the issuer identifier, '%s' skips that check.", holder.StrictMetadataPolicy, holder.RelaxedMetadataPolicy))
	flags.Bool("issuance.dpop", defs.DPoP, "Request DPoP-bound access tokens when the authorization server supports them.")
	flags.Duration("issuance.poll.interval", defs.Poll.Interval, "Time to wait between polls of a deferred credential, unless the issuer specifies an interval.")
	flags.Uint("issuance.poll.maxattempts", defs.Poll.MaxAttempts, "Maximum number of polls of a deferred credential, 0 polls until the credential is issued.")

	return flags
}

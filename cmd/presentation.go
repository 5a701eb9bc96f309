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
	"io"
	"os"
	"strings"

	"github.com/nuts-foundation/nuts-wallet/openid4vp"
	"github.com/nuts-foundation/nuts-wallet/wallet"
	"github.com/spf13/cobra"
)

type presentationOutput struct {
	Verifier    string              `json:"verifier"`
	RedirectURI string              `json:"redirect_uri,omitempty"`
	VPToken     map[string][]string `json:"vp_token"`
}

func createPresentCommand() *cobra.Command {
	var credentialFile string
	var keyID string
	var claims []string
	command := &cobra.Command{
		Use:   "present [request URI]",
		Short: "Presents an SD-JWT VC to the verifier of an authorization request",
		Long: "Resolves and verifies the signed authorization request, discloses the requested claims of the credential " +
			"and sends the presentation to the verifier. The credential is read from --credential, or from stdin if it's '-'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readCredential(cmd, credentialFile)
			if err != nil {
				return err
			}
			instance, err := loadWallet(cmd, wallet.Options{})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			key, err := instance.Keys.Resolve(ctx, keyID)
			if err != nil {
				return fmt.Errorf("unable to resolve credential key: %w", err)
			}
			request, err := instance.Requests.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			result, err := instance.Presenter.Present(ctx, *request, openid4vp.Credential{
				Raw:        raw,
				Key:        key,
				ClaimNames: claims,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, presentationOutput{
				Verifier:    request.ClientID,
				RedirectURI: result.RedirectURI,
				VPToken:     result.VPToken,
			})
		},
	}
	command.Flags().StringVar(&credentialFile, "credential", "-", "File containing the credential.")
	command.Flags().StringVar(&keyID, "kid", "", "Key ID of the key the credential is bound to, as printed by the issue command.")
	command.Flags().StringSliceVar(&claims, "claims", nil, "Claims to disclose. If not set, the claims requested by the verifier are disclosed.")
	_ = command.MarkFlagRequired("kid")
	return command
}

func readCredential(cmd *cobra.Command, file string) (string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("unable to read credential: %w", err)
	}
	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", fmt.Errorf("no credential in %s", file)
	}
	return credential, nil
}

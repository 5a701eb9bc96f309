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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/mdp/qrterminal/v3"
	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/browser"
	"github.com/nuts-foundation/nuts-wallet/holder"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vci"
	"github.com/nuts-foundation/nuts-wallet/wallet"
	"github.com/spf13/cobra"
)

// outcomeOutput is the printed result of issue and poll.
type outcomeOutput struct {
	Status        string `json:"status"`
	Credential    string `json:"credential,omitempty"`
	KeyID         string `json:"kid,omitempty"`
	SDJWT         bool   `json:"sd_jwt,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Interval      string `json:"interval,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
	TokenType     string `json:"token_type,omitempty"`
	RefreshToken  string `json:"refresh_token,omitempty"`
	DPoPKeyID     string `json:"dpop_kid,omitempty"`
}

func createIssueCommand() *cobra.Command {
	var txCode string
	var loopback string
	var attest bool
	var wait bool
	command := &cobra.Command{
		Use:   "issue [offer URI]",
		Short: "Requests the credential of a credential offer",
		Long: "Resolves the credential offer, redeems its grant and requests the first credential configuration of the offer. " +
			"For the authorization code flow, the authorization URL is printed (also as QR code) and the redirect is received on a loopback address.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := browser.NewLoopbackSession(loopback, printAuthorizationURL(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer session.Close()
			instance, err := loadWallet(cmd, wallet.Options{Session: session})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			offer, err := instance.Offers.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			options := holder.NegotiateOptions{TxCode: txCode}
			if attest {
				if options.ClientAttestation, err = clientAttestation(ctx, instance); err != nil {
					return err
				}
			}
			authorized, err := instance.Negotiator.Negotiate(ctx, *offer, options)
			var txCodeRequired holder.TransactionCodeRequiredError
			if errors.As(err, &txCodeRequired) {
				if options.TxCode, err = promptTxCode(cmd, txCodeRequired.TxCode); err != nil {
					return err
				}
				authorized, err = instance.Negotiator.Negotiate(ctx, *offer, options)
			}
			if err != nil {
				return err
			}
			outcome, err := instance.Executor.Execute(ctx, *offer, *authorized)
			if err != nil {
				return err
			}
			if deferred, ok := outcome.(holder.DeferredCredentialOutcome); ok && wait {
				return poll(cmd, instance, deferred)
			}
			return printJSON(cmd, describeOutcome(outcome))
		},
	}
	command.Flags().StringVar(&txCode, "txcode", "", "Transaction code of a pre-authorized offer. If required and not given, it's asked for on stdin.")
	command.Flags().StringVar(&loopback, "loopback", "127.0.0.1:0", "Address the authorization redirect is received on.")
	command.Flags().BoolVar(&attest, "attest", false, "Authenticate the wallet at the authorization server with a wallet attestation.")
	command.Flags().BoolVar(&wait, "wait", false, "If the credential is deferred, poll until it's issued.")
	return command
}

func createPollCommand() *cobra.Command {
	var transactionID string
	var accessToken string
	var tokenType string
	var refreshToken string
	var dpopKeyID string
	var wait bool
	command := &cobra.Command{
		Use:   "poll [offer URI]",
		Short: "Polls the deferred credential endpoint for a credential that was deferred by the issue command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instance, err := loadWallet(cmd, wallet.Options{})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			offer, err := instance.Offers.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			deferred := holder.DeferredCredentialOutcome{
				TransactionID: transactionID,
				Interval:      instance.Config.Issuance.Poll.Interval,
				AuthorizedRequest: holder.AuthorizedRequest{
					AccessToken:  accessToken,
					TokenType:    tokenType,
					RefreshToken: refreshToken,
					IssuedAt:     time.Now(),
					ClientID:     instance.Config.Issuance.ClientID,
				},
				Issuer:  *offer,
				IsSDJWT: offer.IsSDJWT(),
			}
			if dpopKeyID != "" {
				key, err := instance.Keys.Resolve(ctx, dpopKeyID)
				if err != nil {
					return fmt.Errorf("unable to resolve DPoP key: %w", err)
				}
				deferred.AuthorizedRequest.DPoP = openid4vci.NewDPoPProver(key)
			}
			if wait {
				return poll(cmd, instance, deferred)
			}
			outcome, err := instance.Poller.PollOnce(ctx, deferred)
			if err != nil {
				return err
			}
			return printJSON(cmd, describeOutcome(outcome))
		},
	}
	command.Flags().StringVar(&transactionID, "transaction-id", "", "Transaction ID of the deferred credential.")
	command.Flags().StringVar(&accessToken, "access-token", "", "Access token the credential was requested with.")
	command.Flags().StringVar(&tokenType, "token-type", oauth.BearerTokenType, "Type of the access token.")
	command.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token, used when the access token expired.")
	command.Flags().StringVar(&dpopKeyID, "dpop-kid", "", "Key ID of the DPoP key the access token is bound to.")
	command.Flags().BoolVar(&wait, "wait", false, "Poll until the credential is issued, instead of polling once.")
	_ = command.MarkFlagRequired("transaction-id")
	_ = command.MarkFlagRequired("access-token")
	return command
}

func createAttestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attest",
		Short: "Generates a key and requests a wallet attestation for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instance, err := loadWallet(cmd, wallet.Options{})
			if err != nil {
				return err
			}
			result, err := clientAttestation(cmd.Context(), instance)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"attestation": result.Attestation,
				"kid":         result.Key.KID(),
			})
		},
	}
}

func poll(cmd *cobra.Command, instance *wallet.Wallet, deferred holder.DeferredCredentialOutcome) error {
	outcome, err := instance.Poller.Poll(cmd.Context(), deferred)
	if err != nil && !errors.Is(err, holder.ErrIssuancePending) {
		return err
	}
	if printErr := printJSON(cmd, describeOutcome(outcome)); printErr != nil {
		return printErr
	}
	return err
}

func describeOutcome(outcome holder.CredentialOutcome) outcomeOutput {
	switch o := outcome.(type) {
	case holder.IssuedCredentialOutcome:
		result := outcomeOutput{Status: "issued", Credential: o.Credential.Raw(), SDJWT: o.IsSDJWT}
		if o.PrivateKey != nil {
			result.KeyID = o.PrivateKey.KID()
		}
		return result
	case holder.DeferredCredentialOutcome:
		result := outcomeOutput{
			Status:        "deferred",
			SDJWT:         o.IsSDJWT,
			TransactionID: o.TransactionID,
			Interval:      o.Interval.String(),
			AccessToken:   o.AuthorizedRequest.AccessToken,
			TokenType:     o.AuthorizedRequest.TokenType,
			RefreshToken:  o.AuthorizedRequest.RefreshToken,
		}
		if o.PrivateKey != nil {
			result.KeyID = o.PrivateKey.KID()
		}
		if o.AuthorizedRequest.DPoP != nil {
			result.DPoPKeyID = o.AuthorizedRequest.DPoP.KeyID()
		}
		return result
	default:
		return outcomeOutput{Status: "unknown"}
	}
}

func clientAttestation(ctx context.Context, instance *wallet.Wallet) (*attestation.ClientAttestation, error) {
	publicKey, err := instance.Keys.GenerateSigningKeyPair(ctx, jwa.ES256)
	if err != nil {
		return nil, err
	}
	key, err := instance.Keys.Resolve(ctx, publicKey.KeyID())
	if err != nil {
		return nil, err
	}
	jwt, err := instance.Attestation.Attest(ctx, key)
	if err != nil {
		return nil, err
	}
	return &attestation.ClientAttestation{
		ClientID:    instance.Config.Attestation.ClientID,
		Attestation: jwt,
		Key:         key,
	}, nil
}

func promptTxCode(cmd *cobra.Command, txCode openid4vci.TxCode) (string, error) {
	prompt := "Transaction code"
	if txCode.Description != "" {
		prompt += " (" + txCode.Description + ")"
	}
	if txCode.Length > 0 {
		prompt += fmt.Sprintf(" [%d characters]", txCode.Length)
	}
	cmd.Print(prompt + ": ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no transaction code entered")
	}
	return line, nil
}

// printAuthorizationURL shows the authorization URL as text and as QR code, so it can be opened on another device.
func printAuthorizationURL(writer io.Writer) browser.Opener {
	return func(authorizationURL string) error {
		if _, err := fmt.Fprintf(writer, "Open the following URL to authorize the credential request:\n%s\n", authorizationURL); err != nil {
			return err
		}
		qrterminal.GenerateWithConfig(authorizationURL, qrterminal.Config{
			HalfBlocks: false,
			BlackChar:  qrterminal.WHITE,
			WhiteChar:  qrterminal.BLACK,
			Level:      qrterminal.L,
			Writer:     writer,
			QuietZone:  1,
		})
		return nil
	}
}

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
	"context"
	"encoding/json"
	"io"
	"os"

	attestationCmd "github.com/nuts-foundation/nuts-wallet/attestation/cmd"
	"github.com/nuts-foundation/nuts-wallet/core"
	cryptoCmd "github.com/nuts-foundation/nuts-wallet/crypto/cmd"
	holderCmd "github.com/nuts-foundation/nuts-wallet/holder/cmd"
	presentationCmd "github.com/nuts-foundation/nuts-wallet/openid4vp/cmd"
	"github.com/nuts-foundation/nuts-wallet/wallet"
	"github.com/spf13/cobra"
)

var stdOutWriter io.Writer = os.Stdout

// Allows overriding the platform services of the wallet to aid testing
var walletOptions = func(options wallet.Options) wallet.Options {
	return options
}

func createRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "nuts-wallet",
		Short:        "Wallet shell that requests credentials from issuers (OpenID4VCI) and presents them to verifiers (OpenID4VP).",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}
}

func createPrintConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the current config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			global, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cmd.Println("Current wallet config")
			cmd.Println(global.PrintConfig())
			return nil
		},
	}
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of the wallet",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(core.BuildInfo())
		},
	}
}

// CreateCommand creates the command with all subcommands of the wallet shell.
func CreateCommand() *cobra.Command {
	command := createRootCommand()
	command.SetOut(stdOutWriter)
	addFlagSets(command)
	command.AddCommand(createIssueCommand())
	command.AddCommand(createPollCommand())
	command.AddCommand(createPresentCommand())
	command.AddCommand(createAttestCommand())
	command.AddCommand(createPrintConfigCommand())
	command.AddCommand(createVersionCommand())
	return command
}

// Execute creates the root command and executes it. The context is cancelled when the process is asked to stop.
func Execute(ctx context.Context) error {
	return CreateCommand().ExecuteContext(ctx)
}

func addFlagSets(command *cobra.Command) {
	flags := command.PersistentFlags()
	flags.AddFlagSet(core.FlagSet())
	flags.AddFlagSet(cryptoCmd.FlagSet())
	flags.AddFlagSet(holderCmd.FlagSet())
	flags.AddFlagSet(presentationCmd.FlagSet())
	flags.AddFlagSet(attestationCmd.FlagSet())
}

func loadConfig(cmd *cobra.Command) (*core.Config, error) {
	global := core.NewConfig()
	if err := global.Load(cmd.Flags()); err != nil {
		return nil, core.ConfigurationError(err)
	}
	return global, nil
}

func loadWallet(cmd *cobra.Command, options wallet.Options) (*wallet.Wallet, error) {
	global, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	config, err := wallet.LoadConfig(global)
	if err != nil {
		return nil, err
	}
	return wallet.New(config, walletOptions(options))
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nuts-foundation/nuts-wallet/attestation"
	"github.com/nuts-foundation/nuts-wallet/cmd"
	"github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/holder"
	"github.com/nuts-foundation/nuts-wallet/openid4vp"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"
)

const cliDirectory = "docs/cli"
const configOptionsFile = "docs/config-options.md"

// moduleConfigKeys are the config sections that get their own table section, in order of appearance.
var moduleConfigKeys = []string{crypto.ConfigKey, holder.ConfigKey, openid4vp.ConfigKey, attestation.ConfigKey}

func generateDocs() {
	generateCLICommands()
	generateConfigOptions()
}

func generateCLICommands() {
	if err := os.MkdirAll(cliDirectory, os.ModePerm); err != nil {
		panic(err)
	}
	// Clean up first, so removed commands don't linger
	entries, _ := filepath.Glob(filepath.Join(cliDirectory, "*.md"))
	for _, entry := range entries {
		_ = os.Remove(entry)
	}
	command := cmd.CreateCommand()
	command.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(command, cliDirectory); err != nil {
		panic(err)
	}
}

func generateConfigOptions() {
	optionsFile, err := os.OpenFile(configOptionsFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		panic(err)
	}
	defer optionsFile.Close()
	if err := writeConfigOptions(optionsFile, cmd.CreateCommand().PersistentFlags()); err != nil {
		panic(err)
	}
}

// writeConfigOptions writes the flags as Markdown table, global options first and then one section per module.
func writeConfigOptions(writer io.Writer, flags *pflag.FlagSet) error {
	partitions := partitionFlags(flags)
	if _, err := fmt.Fprintln(writer, "| Key | Default | Description |\n|---|---|---|"); err != nil {
		return err
	}
	for _, key := range append([]string{""}, moduleConfigKeys...) {
		rows := partitions[key]
		if len(rows) == 0 {
			continue
		}
		if key != "" {
			if _, err := fmt.Fprintf(writer, "| **%s** | | |\n", key); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(writer, "| %s | %s | %s |\n", row[0], row[1], escapeCell(row[2])); err != nil {
				return err
			}
		}
	}
	return nil
}

func partitionFlags(flags *pflag.FlagSet) map[string][][3]string {
	result := map[string][][3]string{}
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		partition := ""
		for _, key := range moduleConfigKeys {
			if strings.HasPrefix(flag.Name, key+".") {
				partition = key
				break
			}
		}
		result[partition] = append(result[partition], [3]string{flag.Name, flag.DefValue, flag.Usage})
	})
	for _, rows := range result {
		// global properties (the ones without dots) appear at the top
		sort.Slice(rows, func(i, j int) bool {
			iNested := strings.Contains(rows[i][0], ".")
			jNested := strings.Contains(rows[j][0], ".")
			if iNested != jNested {
				return !iNested
			}
			return rows[i][0] < rows[j][0]
		})
	}
	return result
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", `\|`)
}

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
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var yearRegex = regexp.MustCompilePOSIX("Copyright \\(C\\) ([0-9]{4})(\\.?) Nuts community")

var yearRegexReplacement = fmt.Sprintf("Copyright (C) %d Nuts community", time.Now().Year())

var copyrightText = fmt.Sprintf(`/*
 * %s
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

`, yearRegexReplacement)

// fixCopyright adds the license header to Go files without one, and updates the year of existing headers.
func fixCopyright() {
	if _, err := os.Stat("go.mod"); err != nil {
		panic("incorrect directory, run from the module root")
	}
	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".go") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		updated, changed := fixCopyrightNotice(string(data))
		if !changed {
			return nil
		}
		println("Fixing copyright notice on", path)
		return os.WriteFile(path, []byte(updated), info.Mode())
	})
	if err != nil {
		panic(err)
	}
}

func fixCopyrightNotice(source string) (string, bool) {
	if strings.Contains(source, "DO NOT EDIT") {
		// Generated code
		return source, false
	}
	if strings.Contains(source, "Copyright (C)") && strings.Contains(source, "Nuts community") {
		withYear := yearRegex.ReplaceAllString(source, yearRegexReplacement)
		return withYear, withYear != source
	}
	return copyrightText + source, true
}

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

package crypto

import "fmt"

// ConfigKey is the key of the crypto section in the wallet configuration.
const ConfigKey = "crypto"

const (
	// MemoryStorage keeps keys in process memory.
	MemoryStorage = "memory"
	// FileSystemStorage keeps keys as PEM files in Config.FSPath.
	FileSystemStorage = "fs"
)

// Config holds the settings of the key store.
type Config struct {
	// Storage is either memory or fs.
	Storage string `koanf:"storage"`
	// FSPath is the directory of the fs key store.
	FSPath string `koanf:"fspath"`
}

// DefaultConfig returns the default key store settings.
func DefaultConfig() Config {
	return Config{
		Storage: FileSystemStorage,
		FSPath:  "keys",
	}
}

// NewKeyStore creates the key store selected by the config.
func NewKeyStore(config Config) (KeyStore, error) {
	switch config.Storage {
	case MemoryStorage:
		return NewMemoryKeyStore(), nil
	case FileSystemStorage:
		return NewFileSystemKeyStore(config.FSPath)
	default:
		return nil, fmt.Errorf("invalid crypto.storage: %s", config.Storage)
	}
}

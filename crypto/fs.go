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

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/crypto/log"
)

const privateKeyEntry = "private.pem"
const privateKeyPEMType = "PRIVATE KEY"
const algorithmPEMHeader = "alg"

// ErrInvalidKeyID is returned when a key ID can't be used as file name.
var ErrInvalidKeyID = errors.New("invalid key ID")

var _ KeyStore = (*FileSystemKeyStore)(nil)

type fileOpenError struct {
	filePath string
	kid      string
	err      error
}

func (f *fileOpenError) Error() string {
	return fmt.Sprintf("could not open entry %s with filename %s: %v", f.kid, f.filePath, f.err)
}

func (f *fileOpenError) Unwrap() error {
	return f.err
}

// FileSystemKeyStore is a KeyStore that stores private keys as PKCS#8 PEM files in a directory,
// so keys outlive the process. The directory is created when the first key is generated.
// Keys are not encrypted at rest: it is meant for the CLI shell and development, not for production wallets.
type FileSystemKeyStore struct {
	fspath string
	mux    sync.Mutex
}

// NewFileSystemKeyStore creates a key store that keeps its keys in the given directory.
func NewFileSystemKeyStore(fspath string) (*FileSystemKeyStore, error) {
	if fspath == "" {
		return nil, errors.New("filesystem path is empty")
	}
	return &FileSystemKeyStore{fspath: fspath}, nil
}

func (f *FileSystemKeyStore) New(_ context.Context, alg jwa.SignatureAlgorithm, kid string) (PrivateKeyHandle, error) {
	if err := validateKeyID(kid); err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	signer, err := generateKeyPair(alg)
	if err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	data, err := privateKeyToPem(signer, alg)
	if err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	if err := os.MkdirAll(f.fspath, 0o700); err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	// O_EXCL makes sure an existing key is never overwritten
	file, err := os.OpenFile(f.entryPath(kid), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, core.WrapError(ErrKeyGenerationFailed, fmt.Errorf("key already exists (kid=%s)", kid))
		}
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	defer file.Close()
	if _, err = file.Write(data); err != nil {
		return nil, core.WrapError(ErrKeyGenerationFailed, err)
	}
	log.Logger().WithField(core.LogFieldKeyID, kid).Debugf("Stored new key pair (alg=%s)", alg)
	return &keyHandle{kid: kid, alg: alg, signer: signer}, nil
}

func (f *FileSystemKeyStore) Resolve(_ context.Context, kid string) (PrivateKeyHandle, error) {
	if err := validateKeyID(kid); err != nil {
		return nil, err
	}
	filePath := f.entryPath(kid)
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &fileOpenError{kid: kid, filePath: filePath, err: ErrKeyNotFound}
	}
	if err != nil {
		return nil, &fileOpenError{kid: kid, filePath: filePath, err: err}
	}
	signer, alg, err := pemToPrivateKey(data)
	if err != nil {
		return nil, &fileOpenError{kid: kid, filePath: filePath, err: err}
	}
	return &keyHandle{kid: kid, alg: alg, signer: signer}, nil
}

func (f *FileSystemKeyStore) Delete(_ context.Context, kid string) error {
	if err := validateKeyID(kid); err != nil {
		return err
	}
	err := os.Remove(f.entryPath(kid))
	if errors.Is(err, os.ErrNotExist) {
		return ErrKeyNotFound
	}
	return err
}

func (f *FileSystemKeyStore) entryPath(kid string) string {
	return filepath.Join(f.fspath, fmt.Sprintf("%s_%s", kid, privateKeyEntry))
}

func validateKeyID(kid string) error {
	if kid == "" || kid == "." || kid == ".." || strings.ContainsAny(kid, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyID, kid)
	}
	return nil
}

// privateKeyToPem encodes the key as PKCS#8 PEM block, recording the signature algorithm in a header
// since it can't always be derived from the key type (RS256 and PS256 share RSA keys).
func privateKeyToPem(key crypto.PrivateKey, alg jwa.SignatureAlgorithm) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:    privateKeyPEMType,
		Headers: map[string]string{algorithmPEMHeader: alg.String()},
		Bytes:   der,
	}), nil
}

func pemToPrivateKey(data []byte) (crypto.Signer, jwa.SignatureAlgorithm, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != privateKeyPEMType {
		return nil, "", errors.New("no private key PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, "", err
	}
	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(block.Headers[algorithmPEMHeader]); err != nil {
		return nil, "", err
	}
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		if (alg == jwa.ES256 && k.Curve.Params().BitSize == 256) || (alg == jwa.ES384 && k.Curve.Params().BitSize == 384) {
			return k, alg, nil
		}
	case *rsa.PrivateKey:
		if alg == jwa.RS256 || alg == jwa.PS256 {
			return k, alg, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s doesn't match key type %T", ErrUnsupportedAlgorithm, alg, key)
}

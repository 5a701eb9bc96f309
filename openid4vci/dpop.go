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

package openid4vci

import (
	"net/http"
	"sync"

	nutsCrypto "github.com/nuts-foundation/nuts-wallet/crypto"
	"github.com/nuts-foundation/nuts-wallet/crypto/dpop"
)

// DPoPProver creates DPoP proofs (RFC9449) for requests to the authorization server and credential issuer.
// It remembers the last nonce each server provided through the DPoP-Nonce header.
type DPoPProver struct {
	key    nutsCrypto.PrivateKeyHandle
	nonces map[string]string
	mux    sync.Mutex
}

// NewDPoPProver creates a DPoPProver that signs proofs with the given key.
func NewDPoPProver(key nutsCrypto.PrivateKeyHandle) *DPoPProver {
	return &DPoPProver{key: key, nonces: map[string]string{}}
}

// KeyID returns the ID of the key the proofs are signed with, so the proof key can be resolved again later.
func (p *DPoPProver) KeyID() string {
	return p.key.KID()
}

// Proof creates a DPoP proof for the request. If accessToken is not empty, the proof is bound to it (ath claim).
func (p *DPoPProver) Proof(request *http.Request, accessToken string) (string, error) {
	token := dpop.New(*request).WithNonce(p.nonce(request.URL.Host))
	if accessToken != "" {
		token.GenerateProof(accessToken)
	}
	return token.Sign(p.key, p.key.Algorithm())
}

// UpdateNonce records the nonce the server at host provided.
func (p *DPoPProver) UpdateNonce(host string, nonce string) {
	if nonce == "" {
		return
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	p.nonces[host] = nonce
}

func (p *DPoPProver) nonce(host string) string {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.nonces[host]
}

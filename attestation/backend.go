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

package attestation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nuts-foundation/nuts-wallet/attestation/log"
	"github.com/nuts-foundation/nuts-wallet/core"
)

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type jwkAttestationRequest struct {
	ClientID string      `json:"clientId"`
	JWK      interface{} `json:"jwk"`
}

type keyAttestation struct {
	// Attestation is the standard base64 encoded platform attestation object.
	Attestation string `json:"attestation"`
	// ClientDataJSON is the base64url encoded client data the attestation is bound to.
	ClientDataJSON string `json:"clientDataJSON"`
}

type keyAttestationRequest struct {
	ClientID       string         `json:"clientId"`
	KeyAttestation keyAttestation `json:"keyAttestation"`
	Challenge      string         `json:"challenge"`
}

type attestationResponse struct {
	WalletInstanceAttestation string `json:"walletInstanceAttestation"`
	WalletUnitAttestation     string `json:"walletUnitAttestation"`
}

func (r attestationResponse) jwt() string {
	if r.WalletUnitAttestation != "" {
		return r.WalletUnitAttestation
	}
	return r.WalletInstanceAttestation
}

// backendClient calls the wallet provider's attestation API.
type backendClient struct {
	baseURL    *url.URL
	httpClient core.HTTPRequestDoer
}

func (c backendClient) challenge(ctx context.Context) (string, error) {
	var response challengeResponse
	if err := c.post(ctx, "challenge", struct{}{}, &response); err != nil {
		return "", err
	}
	return response.Challenge, nil
}

func (c backendClient) issueJWKAttestation(ctx context.Context, request jwkAttestationRequest) (string, error) {
	var response attestationResponse
	if err := c.post(ctx, "wallet-instance-attestation/jwk", request, &response); err != nil {
		return "", err
	}
	return response.jwt(), nil
}

func (c backendClient) issueKeyAttestation(ctx context.Context, platform string, request keyAttestationRequest) (string, error) {
	var response attestationResponse
	if err := c.post(ctx, "wallet-instance-attestation/"+platform, request, &response); err != nil {
		return "", err
	}
	return response.jwt(), nil
}

func (c backendClient) post(ctx context.Context, path string, body interface{}, target interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := c.baseURL.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to call wallet provider (url=%s): %w", endpoint, err)
	}
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		_ = response.Body.Close()
		return err
	}
	return core.ReadJSON(response, target)
}

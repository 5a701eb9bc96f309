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

package openid4vp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
	"github.com/nuts-foundation/nuts-wallet/oauth"
	"github.com/nuts-foundation/nuts-wallet/openid4vp/log"
	"github.com/nuts-foundation/nuts-wallet/sdjwt"
)

// keyBindingClockSkew is subtracted from the iat of key binding JWTs, so verifiers with a clock behind accept it.
const keyBindingClockSkew = 100 * time.Second

var nowFunc = time.Now

var _ Presenter = (*presenter)(nil)

// NewPresenter creates a Presenter that hashes with the given digest and dispatches through the client.
func NewPresenter(client VerifierAPIClient, digest hash.Digest, metrics *Metrics) Presenter {
	return &presenter{
		client:  client,
		digest:  digest,
		metrics: metrics,
	}
}

type presenter struct {
	client  VerifierAPIClient
	digest  hash.Digest
	metrics *Metrics
}

func (p presenter) Present(ctx context.Context, request AuthorizationRequest, credential Credential) (*Result, error) {
	queryID := request.DCQLQuery.QueryID()
	presentation, err := p.presentation(request, credential, queryID)
	if err != nil {
		return nil, err
	}
	vpToken := map[string][]string{queryID: {presentation}}
	result, err := p.dispatch(ctx, request, vpToken)
	if err != nil {
		return nil, err
	}
	log.Logger().
		WithField(core.LogFieldClientID, request.ClientID).
		Infof("Verifier accepted presentation (response_mode=%s)", request.ResponseMode)
	return result, nil
}

// presentation creates the SD-JWT presentation with key binding JWT.
func (p presenter) presentation(request AuthorizationRequest, credential Credential, queryID string) (string, error) {
	if isMdoc(credential.Raw) {
		return "", core.CapabilityError(fmt.Errorf("%w: mdoc", ErrUnsupportedCredentialFormat))
	}
	parsed, err := sdjwt.Parse(credential.Raw)
	if err != nil {
		return "", core.CapabilityError(core.WrapError(ErrUnsupportedCredentialFormat, err))
	}
	if credential.Key == nil {
		return "", core.ConfigurationError(errors.New("credential has no key to sign the key binding JWT"))
	}
	claimNames := credential.ClaimNames
	if len(claimNames) == 0 && request.DCQLQuery != nil && len(request.DCQLQuery.Credentials) > 0 {
		claimNames = request.DCQLQuery.Credentials[0].ClaimNames()
	}
	selected := &sdjwt.SDJWT{IssuerJWT: parsed.IssuerJWT, Disclosures: parsed.Disclosures}
	if len(claimNames) > 0 {
		if selected, err = parsed.Select(claimNames...); err != nil {
			return "", core.CapabilityError(core.WrapError(ErrUnsupportedCredentialFormat, err))
		}
	}
	var transactionData []string
	for _, item := range request.TransactionData {
		if len(item.CredentialIDs) == 0 || slices.Contains(item.CredentialIDs, queryID) {
			transactionData = append(transactionData, item.Encoded)
		}
	}
	return selected.Present(credential.Key, sdjwt.KeyBinding{
		Audience:        request.ClientID,
		Nonce:           request.Nonce,
		IssuedAt:        nowFunc().Add(-keyBindingClockSkew),
		Digest:          p.digest,
		TransactionData: transactionData,
	})
}

func (p presenter) dispatch(ctx context.Context, request AuthorizationRequest, vpToken map[string][]string) (*Result, error) {
	vpTokenJSON, _ := json.Marshal(vpToken)
	params := url.Values{}
	params.Set(oauth.VpTokenParam, string(vpTokenJSON))
	if request.State != "" {
		params.Set(oauth.StateParam, request.State)
	}
	switch request.ResponseMode {
	case ResponseModeDirectPost:
		redirectURI, err := p.client.PostAuthorizationResponse(ctx, request.ResponseURI, params)
		if err != nil {
			outcome := "failed"
			if errors.Is(err, ErrPresentationRejected) {
				outcome = "rejected"
			}
			p.metrics.dispatch(request.ResponseMode, outcome)
			return nil, err
		}
		p.metrics.dispatch(request.ResponseMode, "accepted")
		return &Result{RedirectURI: redirectURI, VPToken: vpToken}, nil
	case ResponseModeFragment, ResponseModeQuery:
		redirectURL, err := url.Parse(request.RedirectURI)
		if err != nil {
			p.metrics.dispatch(request.ResponseMode, "failed")
			return nil, core.ProtocolError(fmt.Errorf("%w: invalid redirect_uri: %w", ErrInvalidRequest, err))
		}
		var redirectURI string
		if request.ResponseMode == ResponseModeQuery {
			values := redirectURL.Query()
			for key := range params {
				values.Set(key, params.Get(key))
			}
			redirectURL.RawQuery = values.Encode()
			redirectURI = redirectURL.String()
		} else {
			redirectURL.Fragment = ""
			redirectURI = redirectURL.String() + "#" + params.Encode()
		}
		p.metrics.dispatch(request.ResponseMode, "accepted")
		return &Result{RedirectURI: redirectURI, VPToken: vpToken}, nil
	}
	return nil, core.ProtocolError(fmt.Errorf("%w: %s", ErrUnsupportedResponseMode, request.ResponseMode))
}

// isMdoc reports whether the credential is a base64url encoded CBOR mdoc (IssuerSigned, Document or DeviceResponse).
func isMdoc(raw string) bool {
	if strings.Contains(raw, ".") || strings.Contains(raw, sdjwt.Separator) {
		return false
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return false
	}
	var structure map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &structure); err != nil {
		return false
	}
	for _, key := range []string{"issuerAuth", "nameSpaces", "docType", "documents"} {
		if _, ok := structure[key]; ok {
			return true
		}
	}
	return false
}

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
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testAuthorizationRequest() AuthorizationRequest {
	return AuthorizationRequest{
		ClientID:       testClientID,
		ClientIDScheme: PreRegisteredScheme,
		ResponseType:   "vp_token",
		ResponseMode:   ResponseModeDirectPost,
		ResponseURI:    "https://verifier.example/response",
		Nonce:          "n1",
		State:          "s1",
		DCQLQuery: &DCQLQuery{Credentials: []CredentialQuery{{
			ID:     "pid",
			Format: "dc+sd-jwt",
			Claims: []ClaimsQuery{{Path: []interface{}{"given_name"}}},
		}}},
	}
}

type presenterTestContext struct {
	client    *MockVerifierAPIClient
	metrics   *Metrics
	registry  *prometheus.Registry
	presenter Presenter
}

func newPresenterTestContext(t *testing.T, digest hash.Digest) presenterTestContext {
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = time.Now })
	ctrl := gomock.NewController(t)
	client := NewMockVerifierAPIClient(ctrl)
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	require.NoError(t, err)
	return presenterTestContext{
		client:    client,
		metrics:   metrics,
		registry:  registry,
		presenter: NewPresenter(client, digest, metrics),
	}
}

// splitPresentation returns the SD-JWT part and the parsed key binding JWT of a presentation.
func splitPresentation(t *testing.T, presentation string) (string, jwt.Token) {
	index := strings.LastIndex(presentation, "~")
	require.NotEqual(t, -1, index)
	keyBindingJWT := presentation[index+1:]
	message, err := jws.ParseString(keyBindingJWT)
	require.NoError(t, err)
	assert.Equal(t, "kb+jwt", message.Signatures()[0].ProtectedHeaders().Type())
	assert.Equal(t, jwa.ES256, message.Signatures()[0].ProtectedHeaders().Algorithm())
	token, err := jwt.ParseInsecure([]byte(keyBindingJWT))
	require.NoError(t, err)
	return presentation[:index+1], token
}

func TestPresenter_Present(t *testing.T) {
	ctx := context.Background()
	credential, disclosures := testSDJWT(t)
	issuerJWT := credential[:strings.Index(credential, "~")]
	holderKey := newTestKey(t, "holder")

	t.Run("direct_post", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		var posted url.Values
		test.client.EXPECT().PostAuthorizationResponse(ctx, "https://verifier.example/response", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, params url.Values) (string, error) {
				posted = params
				return "https://verifier.example/done", nil
			})

		result, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		assert.Equal(t, "https://verifier.example/done", result.RedirectURI)
		require.Len(t, result.VPToken["pid"], 1)
		presentation := result.VPToken["pid"][0]
		var vpToken map[string][]string
		require.NoError(t, json.Unmarshal([]byte(posted.Get("vp_token")), &vpToken))
		assert.Equal(t, result.VPToken, vpToken)
		assert.Equal(t, "s1", posted.Get("state"))
		sdJWT, token := splitPresentation(t, presentation)
		assert.Equal(t, issuerJWT+"~"+disclosures[0]+"~", sdJWT, "only given_name is disclosed")
		assert.Equal(t, []string{testClientID}, token.Audience())
		assert.Equal(t, testNow.Add(-100*time.Second).Unix(), token.IssuedAt().Unix())
		nonce, _ := token.Get("nonce")
		assert.Equal(t, "n1", nonce)
		sdHash, _ := token.Get("sd_hash")
		assert.Equal(t, hash.SHA256.Base64URL([]byte(sdJWT)), sdHash)
		_, ok := token.Get("transaction_data_hashes")
		assert.False(t, ok)
		_, err = jws.Verify([]byte(presentation[len(sdJWT):]), jws.WithKey(jwa.ES256, holderKey.Public()))
		assert.NoError(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(test.metrics.dispatches.WithLabelValues(ResponseModeDirectPost, "accepted")))
	})
	t.Run("transaction data", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", nil)
		request := testAuthorizationRequest()
		forPID := encodeTransactionData(`{"type":"payment","credential_ids":["pid"]}`)
		forOther := encodeTransactionData(`{"type":"payment","credential_ids":["mdl"]}`)
		request.TransactionData = []TransactionData{
			{Encoded: forPID, Type: "payment", CredentialIDs: []string{"pid"}},
			{Encoded: forOther, Type: "payment", CredentialIDs: []string{"mdl"}},
		}

		result, err := test.presenter.Present(ctx, request, Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		assert.Empty(t, result.RedirectURI)
		_, token := splitPresentation(t, result.VPToken["pid"][0])
		alg, _ := token.Get("transaction_data_hashes_alg")
		assert.Equal(t, "sha-256", alg)
		hashes, _ := token.Get("transaction_data_hashes")
		assert.Equal(t, []interface{}{hash.SHA256.Base64URL([]byte(forPID))}, hashes)
	})
	t.Run("SHA3-256", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA3_256)
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", nil)

		result, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		sdJWT, token := splitPresentation(t, result.VPToken["pid"][0])
		sdHash, _ := token.Get("sd_hash")
		assert.Equal(t, hash.SHA3_256.Base64URL([]byte(sdJWT)), sdHash)
	})
	t.Run("explicit claim selection", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", nil)

		result, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential, Key: holderKey, ClaimNames: []string{"family_name"}})

		require.NoError(t, err)
		sdJWT, _ := splitPresentation(t, result.VPToken["pid"][0])
		assert.Equal(t, issuerJWT+"~"+disclosures[1]+"~", sdJWT)
	})
	t.Run("without DCQL query all disclosures are presented", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", nil)
		request := testAuthorizationRequest()
		request.DCQLQuery = nil

		result, err := test.presenter.Present(ctx, request, Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		require.Len(t, result.VPToken[DefaultQueryID], 1)
		sdJWT, _ := splitPresentation(t, result.VPToken[DefaultQueryID][0])
		assert.Equal(t, credential, sdJWT)
	})
	t.Run("rejected", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		rejected := core.ProtocolError(core.WrapError(ErrPresentationRejected, core.NewHttpError(400, []byte(`{"error":"invalid_request"}`))))
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", rejected)

		_, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential, Key: holderKey})

		assert.ErrorIs(t, err, ErrPresentationRejected)
		assert.Equal(t, 1.0, testutil.ToFloat64(test.metrics.dispatches.WithLabelValues(ResponseModeDirectPost, "rejected")))
	})
	t.Run("dispatch failed", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		test.client.EXPECT().PostAuthorizationResponse(ctx, gomock.Any(), gomock.Any()).Return("", core.TransientError(errors.New("offline")))

		_, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential, Key: holderKey})

		assert.Equal(t, core.KindTransient, core.KindOf(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(test.metrics.dispatches.WithLabelValues(ResponseModeDirectPost, "failed")))
	})
	t.Run("fragment", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		request := testAuthorizationRequest()
		request.ResponseMode = ResponseModeFragment
		request.RedirectURI = "https://verifier.example/callback?session=1"

		result, err := test.presenter.Present(ctx, request, Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		redirectURL, err := url.Parse(result.RedirectURI)
		require.NoError(t, err)
		assert.Equal(t, "session=1", redirectURL.RawQuery)
		fragment, err := url.ParseQuery(redirectURL.EscapedFragment())
		require.NoError(t, err)
		assert.Equal(t, "s1", fragment.Get("state"))
		assert.Contains(t, fragment.Get("vp_token"), `"pid"`)
	})
	t.Run("query", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		request := testAuthorizationRequest()
		request.ResponseMode = ResponseModeQuery
		request.RedirectURI = "https://verifier.example/callback?session=1"

		result, err := test.presenter.Present(ctx, request, Credential{Raw: credential, Key: holderKey})

		require.NoError(t, err)
		redirectURL, err := url.Parse(result.RedirectURI)
		require.NoError(t, err)
		assert.Equal(t, "1", redirectURL.Query().Get("session"))
		assert.Equal(t, "s1", redirectURL.Query().Get("state"))
		assert.Contains(t, redirectURL.Query().Get("vp_token"), `"pid"`)
		assert.Equal(t, 1.0, testutil.ToFloat64(test.metrics.dispatches.WithLabelValues(ResponseModeQuery, "accepted")))
	})
	t.Run("mdoc is not supported", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		data, err := cbor.Marshal(map[string]interface{}{
			"docType":      "eu.europa.ec.eudi.pid.1",
			"issuerSigned": map[string]interface{}{"nameSpaces": map[string]interface{}{}},
		})
		require.NoError(t, err)

		_, err = test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: base64.RawURLEncoding.EncodeToString(data), Key: holderKey})

		assert.ErrorIs(t, err, ErrUnsupportedCredentialFormat)
		assert.ErrorContains(t, err, "mdoc")
		assert.Equal(t, core.KindCapability, core.KindOf(err))
	})
	t.Run("not an SD-JWT", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)

		_, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: "plain", Key: holderKey})

		assert.ErrorIs(t, err, ErrUnsupportedCredentialFormat)
	})
	t.Run("no key", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)

		_, err := test.presenter.Present(ctx, testAuthorizationRequest(), Credential{Raw: credential})

		assert.Equal(t, core.KindConfiguration, core.KindOf(err))
	})
	t.Run("unsupported response mode", func(t *testing.T) {
		test := newPresenterTestContext(t, hash.SHA256)
		request := testAuthorizationRequest()
		request.ResponseMode = "dc_api"

		_, err := test.presenter.Present(ctx, request, Credential{Raw: credential, Key: holderKey})

		assert.ErrorIs(t, err, ErrUnsupportedResponseMode)
	})
}

func TestIsMdoc(t *testing.T) {
	deviceResponse, _ := cbor.Marshal(map[string]interface{}{"version": "1.0", "documents": []interface{}{}})
	notMdoc, _ := cbor.Marshal(map[string]interface{}{"foo": "bar"})

	assert.True(t, isMdoc(base64.RawURLEncoding.EncodeToString(deviceResponse)))
	assert.False(t, isMdoc(base64.RawURLEncoding.EncodeToString(notMdoc)))
	assert.False(t, isMdoc("eyJhbGciOiJFUzI1NiJ9.e30.c2ln~"))
	assert.False(t, isMdoc("not base64!"))
}

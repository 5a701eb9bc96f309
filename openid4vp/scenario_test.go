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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-wallet/core"
	"github.com/nuts-foundation/nuts-wallet/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentation_TransactionData(t *testing.T) {
	ctx := context.Background()
	verifierKey := newTestKey(t, "verifier")
	holderKey := newTestKey(t, "holder")
	credential, _ := testSDJWT(t)
	transactionData := encodeTransactionData(`{"type":"qes_authorization","credential_ids":["pid"]}`)
	var keyBindingJWT jwt.Token
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("GET /jwks", func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(testJWKS(t, verifierKey)))
	})
	mux.HandleFunc("GET /request", func(writer http.ResponseWriter, _ *http.Request) {
		claims := testRequestClaims()
		claims["response_uri"] = server.URL + "/response"
		claims["transaction_data"] = []string{transactionData}
		writer.Header().Set("Content-Type", RequestObjectContentType)
		_, _ = writer.Write([]byte(signRequestObject(t, verifierKey, claims, map[string]interface{}{jws.KeyIDKey: "verifier"})))
	})
	mux.HandleFunc("POST /response", func(writer http.ResponseWriter, request *http.Request) {
		var vpToken map[string][]string
		if err := json.Unmarshal([]byte(request.FormValue("vp_token")), &vpToken); err != nil || len(vpToken["pid"]) != 1 {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		presentation := vpToken["pid"][0]
		token, err := jwt.ParseString(presentation[strings.LastIndex(presentation, "~")+1:], jwt.WithKey(jwa.ES256, holderKey.Public()))
		if err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		keyBindingJWT = token
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"redirect_uri":"https://verifier.example/done"}`))
	})
	// the verifier is reached over plain HTTP on the loopback interface
	client := NewVerifierAPIClient(http.DefaultClient, core.NewCachingHTTPRequestDoer(http.DefaultClient), false)
	trust := NewTrustPolicy([]VerifierConfig{{ClientID: testClientID, Algorithm: "ES256", JWKSURI: server.URL + "/jwks"}}, nil, client)
	resolver := NewRequestResolver(client, trust)
	presenter := NewPresenter(client, hash.SHA256, nil)

	request, err := resolver.Resolve(ctx, "openid4vp://?client_id=verifier.example&request_uri="+url.QueryEscape(server.URL+"/request")+"&request_uri_method=get")
	require.NoError(t, err)
	result, err := presenter.Present(ctx, *request, Credential{Raw: credential, Key: holderKey})
	require.NoError(t, err)

	assert.Equal(t, "https://verifier.example/done", result.RedirectURI)
	require.NotNil(t, keyBindingJWT)
	assert.Equal(t, []string{"verifier.example"}, keyBindingJWT.Audience())
	nonce, _ := keyBindingJWT.Get("nonce")
	assert.Equal(t, "n1", nonce)
	hashes, _ := keyBindingJWT.Get("transaction_data_hashes")
	assert.Len(t, hashes, 1)
	assert.WithinDuration(t, time.Now().Add(-100*time.Second), keyBindingJWT.IssuedAt(), 5*time.Second)
}

package payment

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name               string
		token              string
		expectedConfigured bool
		expectedWarnings   int
	}{
		{name: "token passed through", token: "abc123", expectedConfigured: true},
		{name: "token with spaces kept verbatim", token: "  APP_USR-1 ", expectedConfigured: true},
		{name: "empty token accepted", token: "", expectedConfigured: false, expectedWarnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)

			client := Init(Credentials{AccessToken: tt.token}, zap.New(core))

			require.NotNil(t, client)
			assert.Equal(t, tt.token, client.AccessToken())
			assert.Equal(t, tt.expectedConfigured, client.Configured())

			configured := logs.FilterMessage("payment client configured").All()
			require.Len(t, configured, 1)
			assert.Equal(t, tt.expectedConfigured, configured[0].ContextMap()["token_set"])
			assert.Equal(t, tt.expectedWarnings, logs.FilterMessage("payment access token is empty").Len())

			for _, entry := range logs.All() {
				for _, value := range entry.ContextMap() {
					if tt.token != "" {
						assert.NotEqual(t, tt.token, value)
					}
				}
			}
		})
	}
}

func TestInit_IndependentClients(t *testing.T) {
	first := Init(Credentials{AccessToken: "first"}, zap.NewNop())
	second := Init(Credentials{AccessToken: "second"}, zap.NewNop())

	assert.Equal(t, "first", first.AccessToken())
	assert.Equal(t, "second", second.AccessToken())
}

func TestClient_Authorize(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		expectedHeader string
	}{
		{name: "bearer token", token: "abc123", expectedHeader: "Bearer abc123"},
		{name: "empty token leaves request untouched", token: "", expectedHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := Init(Credentials{AccessToken: tt.token}, zap.NewNop())
			req := httptest.NewRequest(http.MethodPost, "https://api.mercadopago.com/v1/payments", nil)

			client.Authorize(req)

			assert.Equal(t, tt.expectedHeader, req.Header.Get("Authorization"))
		})
	}
}

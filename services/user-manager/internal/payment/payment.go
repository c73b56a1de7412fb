// Package payment holds the Mercado Pago client credentials used by the user-manager service.
package payment

import (
	"net/http"

	"go.uber.org/zap"
)

// Credentials are the payment provider settings read from configuration
type Credentials struct {
	AccessToken string
}

// Client carries the provider access token for the lifetime of the process.
// It is built once by Init and is read-only afterwards.
type Client struct {
	accessToken string
}

// Init configures a payment client from creds. It must run once during startup, before the HTTP listener binds.
//
// The token is passed through unchanged; an empty token is accepted and only logged as a warning.
func Init(creds Credentials, logger *zap.Logger) *Client {
	client := &Client{accessToken: creds.AccessToken}

	logger.Info("payment client configured", zap.Bool("token_set", client.Configured()))
	if !client.Configured() {
		logger.Warn("payment access token is empty")
	}

	return client
}

// AccessToken returns the configured provider access token
func (c *Client) AccessToken() string {
	return c.accessToken
}

// Configured reports whether a non-empty access token was provided
func (c *Client) Configured() bool {
	return c.accessToken != ""
}

// Authorize sets the bearer token on an outgoing provider request.
// Without a configured token the request is left untouched.
func (c *Client) Authorize(req *http.Request) {
	if !c.Configured() {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

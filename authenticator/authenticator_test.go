package authenticator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsDisplayName(t *testing.T) {
	assert.Equal(t, "janed", Claims{"nickname": "janed", "name": "Jane Doe", "sub": "auth|1"}.DisplayName())
	assert.Equal(t, "Jane Doe", Claims{"nickname": "", "name": "Jane Doe"}.DisplayName())
	assert.Equal(t, "jane@example.com", Claims{"email": "jane@example.com", "sub": "auth|1"}.DisplayName())
	assert.Equal(t, "auth|1", Claims{"sub": "auth|1"}.DisplayName())
	assert.Equal(t, "", Claims{}.DisplayName())
}

func TestIssuerURL(t *testing.T) {
	assert.Equal(t, "https://example.eu.auth0.com/", OpenIDConfig{Domain: "example.eu.auth0.com"}.IssuerURL())
	assert.Equal(t, "http://localhost:8080/", OpenIDConfig{Domain: "http://localhost:8080/"}.IssuerURL())
}

func TestNewOpenIDProvider_RequiresConfiguration(t *testing.T) {
	valid := OpenIDConfig{Domain: "d", ClientID: "id", ClientSecret: "secret", CallbackURL: "http://localhost/cb"}

	tests := []struct {
		name   string
		mutate func(*OpenIDConfig)
		want   string
	}{
		{"domain", func(c *OpenIDConfig) { c.Domain = "" }, "domain is required"},
		{"client id", func(c *OpenIDConfig) { c.ClientID = "" }, "client ID is required"},
		{"client secret", func(c *OpenIDConfig) { c.ClientSecret = "" }, "client secret is required"},
		{"callback", func(c *OpenIDConfig) { c.CallbackURL = "" }, "callback URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewOpenIDProvider(context.Background(), cfg)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestNewOpenIDProvider_Discovery(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"issuer":                 server.URL + "/",
			"authorization_endpoint": server.URL + "/authorize",
			"token_endpoint":         server.URL + "/oauth/token",
			"jwks_uri":               server.URL + "/.well-known/jwks.json",
		})
	}))
	defer server.Close()

	provider, err := NewOpenIDProvider(context.Background(), OpenIDConfig{
		Domain:       server.URL,
		ClientID:     "loan-app",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:10000/auth/oidc/callback",
	})
	require.NoError(t, err)

	authURL, err := url.Parse(provider.GetAuthURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", authURL.Path)
	assert.Equal(t, "loan-app", authURL.Query().Get("client_id"))
	assert.Equal(t, "state-123", authURL.Query().Get("state"))
	assert.Equal(t, "openid profile email", authURL.Query().Get("scope"))

	_, err = provider.GetClaims(context.Background(), &Token{})
	assert.EqualError(t, err, "no id_token in token")
}

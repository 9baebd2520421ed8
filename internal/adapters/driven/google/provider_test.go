package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewProvider_RequiresClientID(t *testing.T) {
	_, err := NewProvider(Config{})
	assert.Error(t, err)
}

// fakeGoogle stands in for Google's OAuth endpoint: it records the
// authorization request and answers the token exchange.
func fakeGoogle(t *testing.T, idToken string) (*httptest.Server, *url.Values) {
	t.Helper()
	var tokenForm url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		tokenForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &tokenForm
}

func TestProvider_SignInReturnsIDToken(t *testing.T) {
	google, tokenForm := fakeGoogle(t, "signed-jwt")

	var authorizeURL string
	provider, err := NewProvider(Config{
		ClientID:        "client-1",
		ClientSecret:    "secret-1",
		CallbackTimeout: 5 * time.Second,
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.URL + "/auth",
			TokenURL: google.URL + "/token",
		},
		// Play the user's part: follow the redirect straight back to the
		// loopback callback with the expected state.
		OpenBrowser: func(u string) error {
			authorizeURL = u
			parsed, err := url.Parse(u)
			if err != nil {
				return err
			}
			redirect := parsed.Query().Get("redirect_uri")
			state := parsed.Query().Get("state")
			go func() {
				resp, err := http.Get(redirect + "?code=auth-code-1&state=" + url.QueryEscape(state))
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		},
	})
	require.NoError(t, err)

	identity, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "signed-jwt", identity.IDToken)
	assert.Empty(t, identity.Email)

	// The authorization request carried PKCE parameters and the right scopes.
	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Query().Get("code_challenge"))
	assert.Equal(t, "S256", parsed.Query().Get("code_challenge_method"))
	assert.Contains(t, parsed.Query().Get("scope"), "openid")

	// The exchange proved possession of the verifier.
	require.NotNil(t, tokenForm)
	assert.Equal(t, "auth-code-1", tokenForm.Get("code"))
	assert.NotEmpty(t, tokenForm.Get("code_verifier"))
}

func TestProvider_SignInBrowserFailure(t *testing.T) {
	google, _ := fakeGoogle(t, "unused")

	provider, err := NewProvider(Config{
		ClientID: "client-1",
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.URL + "/auth",
			TokenURL: google.URL + "/token",
		},
		OpenBrowser: func(string) error { return assert.AnError },
	})
	require.NoError(t, err)

	_, err = provider.SignIn(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open browser")
}

func TestProvider_SignInTimesOutWithoutCallback(t *testing.T) {
	google, _ := fakeGoogle(t, "unused")

	provider, err := NewProvider(Config{
		ClientID:        "client-1",
		CallbackTimeout: 100 * time.Millisecond,
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.URL + "/auth",
			TokenURL: google.URL + "/token",
		},
		OpenBrowser: func(string) error { return nil }, // user never completes
	})
	require.NoError(t, err)

	_, err = provider.SignIn(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

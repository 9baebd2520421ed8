//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8080, "test-state-123")

	require.NotNil(t, server)
	assert.Equal(t, 8080, server.port)
	assert.Equal(t, "test-state-123", server.expectedState)
	assert.NotNil(t, server.codeChan)
	assert.NotNil(t, server.errChan)
	assert.Nil(t, server.server)
}

func TestCallbackServer_StartPicksFreePort(t *testing.T) {
	server := NewCallbackServer(0, "test-state")

	require.NoError(t, server.Start())
	defer server.Stop()

	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_ReceivesCode(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")
	require.NoError(t, server.Start())
	defer server.Stop()

	callback := fmt.Sprintf("http://127.0.0.1:%d/callback?code=auth-code-1&state=expected-state", server.Port())
	resp, err := http.Get(callback)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, err := server.WaitForCode(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-1", code)
}

func TestCallbackServer_RejectsStateMismatch(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")
	require.NoError(t, server.Start())
	defer server.Stop()

	callback := fmt.Sprintf("http://127.0.0.1:%d/callback?code=auth-code-1&state=forged", server.Port())
	resp, err := http.Get(callback)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")
	require.NoError(t, server.Start())
	defer server.Stop()

	callback := fmt.Sprintf("http://127.0.0.1:%d/callback?error=access_denied&error_description=%s",
		server.Port(), url.QueryEscape("user declined"))
	resp, err := http.Get(callback)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")
	require.NoError(t, server.Start())
	defer server.Stop()

	callback := fmt.Sprintf("http://127.0.0.1:%d/callback?state=expected-state", server.Port())
	resp, err := http.Get(callback)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code")
}

func TestCallbackServer_WaitTimesOut(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")
	require.NoError(t, server.Start())
	defer server.Stop()

	_, err := server.WaitForCode(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(18080, 18180)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 18080)
	assert.LessOrEqual(t, port, 18180)
}

func TestGenerateState_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateState(), GenerateState())
	assert.NotEmpty(t, GenerateState())
}

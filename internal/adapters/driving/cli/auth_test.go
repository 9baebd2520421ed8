package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

func TestLoginCmd_Use(t *testing.T) {
	assert.Equal(t, "login", loginCmd.Use)
}

func TestLoginCmd_SignedIn(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Signed in as dev@acme.test")
}

func TestLoginCmd_DegradedSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		signInFn: func(context.Context) (*domain.Session, error) {
			return domain.AbsentSession("dev@acme.test", "backend unavailable: connection refused"), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "backend is unavailable")
	assert.Contains(t, buf.String(), "backend unavailable: connection refused")
	assert.Contains(t, buf.String(), "Run 'atlas login' again")
}

func TestLoginCmd_DomainRejectionFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		signInFn: func(context.Context) (*domain.Session, error) {
			return nil, domain.ErrDomainRejected
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDomainRejected)
}

func TestLoginCmd_ServiceNotConfigured(t *testing.T) {
	oldService := authService
	authService = nil
	defer func() {
		authService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestLogoutCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := &mockAuthService{}
	authService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"logout"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, mock.signedOut)
	assert.Contains(t, buf.String(), "Signed out.")
}

func TestWhoamiCmd_SignedIn(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		currentFn: func() (*domain.Session, error) {
			return domain.PresentSession("tok", domain.User{
				Email: "dev@acme.test",
				Name:  "Dev Eloper",
				Admin: true,
			}), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"whoami"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Signed in as dev@acme.test")
	assert.Contains(t, buf.String(), "Dev Eloper")
	assert.Contains(t, buf.String(), "Admin: true")
}

func TestWhoamiCmd_DegradedSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		currentFn: func() (*domain.Session, error) {
			return domain.AbsentSession("dev@acme.test", "backend unavailable: timeout"), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"whoami"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "no Atlas session")
	assert.Contains(t, buf.String(), "backend unavailable: timeout")
}

func TestWhoamiCmd_NotSignedIn(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		currentFn: func() (*domain.Session, error) {
			return nil, domain.ErrNotSignedIn
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"whoami"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "atlas login")
}

func TestLoginCmd_SignInFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	authService = &mockAuthService{
		signInFn: func(context.Context) (*domain.Session, error) {
			return nil, errors.New("browser could not be opened")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sign-in failed")
}

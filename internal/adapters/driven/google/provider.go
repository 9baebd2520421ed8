// Package google provides the Google OAuth identity provider adapter.
package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/oauth"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// Default configuration values.
const (
	// DefaultCallbackTimeout bounds the wait for the browser redirect.
	DefaultCallbackTimeout = 3 * time.Minute

	// Ports tried for the loopback redirect, in order.
	callbackPortStart = 8085
	callbackPortEnd   = 8185
)

// Config holds configuration for the Google identity provider.
type Config struct {
	// ClientID is the OAuth client id (required).
	ClientID string

	// ClientSecret is the OAuth client secret (required for the
	// authorization-code exchange).
	ClientSecret string

	// CallbackTimeout bounds the wait for the redirect (default: 3m).
	CallbackTimeout time.Duration

	// Endpoint overrides Google's OAuth endpoint, for tests.
	Endpoint oauth2.Endpoint

	// OpenBrowser overrides browser launching, for tests.
	OpenBrowser func(url string) error
}

// Provider runs the interactive Google sign-in: browser authorization with
// PKCE against a loopback redirect, then a code exchange. It never talks to
// the Atlas backend; the session bridge owns that exchange.
type Provider struct {
	clientID        string
	clientSecret    string
	callbackTimeout time.Duration
	endpoint        oauth2.Endpoint
	openBrowser     func(url string) error
}

// NewProvider creates a Google identity provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("google: client id is required")
	}
	if cfg.CallbackTimeout == 0 {
		cfg.CallbackTimeout = DefaultCallbackTimeout
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = oauth.OpenBrowser
	}

	return &Provider{
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		callbackTimeout: cfg.CallbackTimeout,
		endpoint:        cfg.Endpoint,
		openBrowser:     cfg.OpenBrowser,
	}, nil
}

// SignIn runs the browser flow and returns the identity assertion. The ID
// token is taken from the exchange response when Google includes one; when
// it is missing, the userinfo endpoint supplies the verified email and
// subject as the fallback assertion.
func (p *Provider) SignIn(ctx context.Context) (*driven.Identity, error) {
	port, err := oauth.FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return nil, fmt.Errorf("find callback port: %w", err)
	}

	state := oauth.GenerateState()
	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Debug("stop callback server: %v", err)
		}
	}()

	config := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     p.endpoint,
		RedirectURL:  server.RedirectURI(),
		Scopes:       []string{"openid", "email", "profile"},
	}

	verifier := oauth2.GenerateVerifier()
	authURL := config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	logger.Info("opening browser for Google sign-in")
	if err := p.openBrowser(authURL); err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}

	code, err := server.WaitForCode(p.callbackTimeout)
	if err != nil {
		return nil, fmt.Errorf("authorization: %w", err)
	}

	token, err := config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	identity := &driven.Identity{}
	if idToken, ok := token.Extra("id_token").(string); ok {
		identity.IDToken = idToken
	}
	if identity.IDToken != "" {
		return identity, nil
	}

	// No ID token in the exchange response: fall back to the userinfo
	// endpoint for a verified email and subject.
	logger.Debug("exchange response carried no id_token, querying userinfo")
	info, err := p.userinfo(ctx, config, token)
	if err != nil {
		return nil, fmt.Errorf("userinfo fallback: %w", err)
	}
	identity.Email = info.Email
	identity.Subject = info.Id
	return identity, nil
}

// userinfo fetches the signed-in user's profile with the access token.
func (p *Provider) userinfo(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*goauth.Userinfo, error) {
	service, err := goauth.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response carried no email")
	}
	return info, nil
}

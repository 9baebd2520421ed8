// Command atlas is the terminal client for the Atlas knowledge-base
// assistant.
package main

import (
	"fmt"
	"os"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/backend"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/config/file"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/google"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/storage/memory"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driven/storage/sqlite"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/cli"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/services"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultBackendURL is used when neither the config file nor
// ATLAS_BACKEND_URL names the API.
const defaultBackendURL = "http://localhost:8000/api/v1"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	sessionStore, err := file.NewSessionStore("")
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	// The sidebar survives backend outages through the local cache; if the
	// database cannot be opened the session falls back to an in-memory one.
	var cache driven.ConversationCache
	if sqliteCache, err := sqlite.NewCache(""); err != nil {
		logger.Warn("conversation cache unavailable, using in-memory cache: %v", err)
		cache = memory.NewConversationCache()
	} else {
		cache = sqliteCache
	}
	defer cache.Close()

	baseURL := configStore.GetString("backend.url")
	if baseURL == "" {
		baseURL = defaultBackendURL
	}

	// The token source re-reads the session file per request, so a sign-in
	// from another terminal is picked up without restarting.
	client, err := backend.NewClient(backend.Config{
		BaseURL: baseURL,
		Token: func() string {
			session, err := sessionStore.Load()
			if err != nil {
				return ""
			}
			return session.Token
		},
	})
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	state := services.NewState(domain.DefaultScope)
	settingsService := services.NewSettingsService(configStore, state)

	watcher, err := file.NewWatcher(configStore, settingsService.Reload)
	if err != nil {
		logger.Warn("config watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	poller := services.NewConvergencePoller(client, state, services.PollerConfig{})
	chatService := services.NewChatService(client, cache, state)
	documentService := services.NewDocumentService(client, poller, state)

	svc := cli.Services{
		Chat:     chatService,
		Document: documentService,
		Settings: settingsService,
	}

	// Sign-in needs OAuth client credentials; without them the auth
	// commands report themselves unconfigured and the rest still works.
	if clientID := configStore.GetString("google.client_id"); clientID != "" {
		provider, err := google.NewProvider(google.Config{
			ClientID:     clientID,
			ClientSecret: configStore.GetString("google.client_secret"),
		})
		if err != nil {
			return fmt.Errorf("create identity provider: %w", err)
		}
		svc.Auth = services.NewAuthService(provider, client, sessionStore)
	}

	cli.SetServices(svc)
	cli.SetVersion(version)

	return cli.Execute()
}

package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
	"github.com/omjanipms/LinkedIn-Agent/internal/oauthflow"
)

const googleTokenFileName = "google_token.json"

var sheetScopes = []string{gsheets.SpreadsheetsScope}

// AuthManager handles the Google side of authentication: installed-app
// client secrets from credentials.json, a cached token, and the same local
// redirect flow the LinkedIn authorizer uses. The listener port is picked
// fresh for each authorization.
type AuthManager struct {
	credentialsPath string
	tokenPath       string
}

func NewAuthManager(cacheDir, credentialsPath string) *AuthManager {
	return &AuthManager{
		credentialsPath: credentialsPath,
		tokenPath:       filepath.Join(cacheDir, googleTokenFileName),
	}
}

// clientSecrets mirrors the credentials.json layout the Google Cloud
// Console produces for installed applications.
type clientSecrets struct {
	Installed *secretEntry `json:"installed"`
	Web       *secretEntry `json:"web"`
}

type secretEntry struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (a *AuthManager) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(a.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s (download it from the Google Cloud Console): %w",
			a.credentialsPath, err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("invalid client secrets file %s: %w", a.credentialsPath, err)
	}

	entry := secrets.Installed
	if entry == nil {
		entry = secrets.Web
	}
	if entry == nil || entry.ClientID == "" {
		return nil, fmt.Errorf("client secrets file %s has no installed or web client", a.credentialsPath)
	}

	return &oauth2.Config{
		ClientID:     entry.ClientID,
		ClientSecret: entry.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       sheetScopes,
	}, nil
}

// Client returns an HTTP client that authenticates Sheets calls, running
// the browser flow when no usable token is cached. Expired tokens with a
// refresh token are refreshed transparently by the token source.
func (a *AuthManager) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}

	token := a.loadToken()
	if token == nil || (!token.Valid() && token.RefreshToken == "") {
		logger.Info("no usable Google token cached, starting authorization")
		token, err = a.authenticate(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := a.saveToken(token); err != nil {
			logger.Error("failed to save Google token", "error", err)
		}
	}

	return oauth2.NewClient(ctx, cfg.TokenSource(ctx, token)), nil
}

// Authenticate forces a fresh browser authorization regardless of cache.
func (a *AuthManager) Authenticate(ctx context.Context) error {
	cfg, err := a.oauthConfig()
	if err != nil {
		return err
	}

	token, err := a.authenticate(ctx, cfg)
	if err != nil {
		return err
	}
	return a.saveToken(token)
}

func (a *AuthManager) authenticate(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	port, err := oauthflow.FreePort("localhost")
	if err != nil {
		return nil, fmt.Errorf("failed to pick a callback port: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/", port)

	flow := oauthflow.New(cfg)
	flow.AuthCodeOptions = []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}

	return flow.Authorize(ctx)
}

// HasValidToken reports whether a cached token can produce authenticated
// calls without a browser round-trip.
func (a *AuthManager) HasValidToken() bool {
	token := a.loadToken()
	return token != nil && (token.Valid() || token.RefreshToken != "")
}

// ClearToken removes the cached Google token.
func (a *AuthManager) ClearToken() error {
	if err := os.Remove(a.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove Google token: %w", err)
	}
	return nil
}

func (a *AuthManager) loadToken() *oauth2.Token {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return nil
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		logger.Warn("cached Google token is not valid JSON, ignoring", "path", a.tokenPath)
		return nil
	}
	return &token
}

func (a *AuthManager) saveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

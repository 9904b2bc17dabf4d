// Package oauthflow drives an OAuth2 authorization-code exchange against a
// provider, capturing the browser redirect with a transient local listener.
package oauthflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/skratchdot/open-golang/open"
	"golang.org/x/oauth2"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

// DefaultTimeout bounds the redirect wait so an abandoned browser step does
// not block the process forever.
const DefaultTimeout = 5 * time.Minute

// Flow runs the authorization-code flow for one provider.
type Flow struct {
	Config  *oauth2.Config
	Timeout time.Duration

	// OpenBrowser controls the best-effort launch of the default browser.
	// When it fails or is disabled the URL is printed instead.
	OpenBrowser bool

	// AuthCodeOptions are appended to the authorization URL. Google needs
	// access_type=offline to issue a refresh token.
	AuthCodeOptions []oauth2.AuthCodeOption

	// newState overrides anti-replay state generation in tests.
	newState func() (string, error)
}

func New(cfg *oauth2.Config) *Flow {
	return &Flow{
		Config:      cfg,
		Timeout:     DefaultTimeout,
		OpenBrowser: true,
	}
}

// Authorize walks the full flow: authorization URL, browser hand-off, local
// redirect capture, code-for-token exchange. Every failure is an *AuthError.
func (f *Flow) Authorize(ctx context.Context) (*oauth2.Token, error) {
	if f.Config.ClientID == "" || f.Config.ClientSecret == "" {
		return nil, NewAuthError(ReasonMissingCredentials,
			"client ID and secret are required; check your .env file")
	}

	state, err := f.state()
	if err != nil {
		return nil, NewAuthError(ReasonListener, "failed to generate state value").WithCause(err)
	}

	host, port, path, err := splitRedirectURI(f.Config.RedirectURL)
	if err != nil {
		return nil, NewAuthError(ReasonListener,
			fmt.Sprintf("invalid redirect URI %q", f.Config.RedirectURL)).WithCause(err)
	}

	server := NewCallbackServer(host, port, path)
	if err := server.Start(); err != nil {
		return nil, err
	}
	defer func() {
		if stopErr := server.Stop(context.Background()); stopErr != nil {
			logger.Warn("failed to stop callback server", "error", stopErr)
		}
	}()

	authURL := f.Config.AuthCodeURL(state, f.AuthCodeOptions...)

	fmt.Println("Opening the authorization page in your browser...")
	fmt.Println("If it does not open automatically, visit this URL:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()

	if f.OpenBrowser {
		if err := open.Run(authURL); err != nil {
			// Non-fatal: the URL is already printed for manual use.
			logger.Warn("failed to open browser", "error", err)
		}
	}

	logger.Info("waiting for authorization redirect", "timeout", f.timeout().String())
	result, err := server.WaitForRedirect(f.timeout())
	if err != nil {
		return nil, err
	}

	if result.Error != "" {
		msg := result.Error
		if result.ErrorDescription != "" {
			msg = fmt.Sprintf("%s: %s", result.Error, result.ErrorDescription)
		}
		return nil, NewAuthError(ReasonDenied, msg)
	}

	if result.State != state {
		return nil, NewAuthError(ReasonStateMismatch, "state value in redirect does not match request")
	}

	logger.Debug("authorization code received, exchanging for token")
	token, err := f.Config.Exchange(ctx, result.Code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, NewAuthError(ReasonExchangeFailed, "token endpoint rejected the code").
				WithResponse(re.Response.StatusCode, string(re.Body)).WithCause(err)
		}
		return nil, NewAuthError(ReasonExchangeFailed, "token exchange request failed").WithCause(err)
	}

	return token, nil
}

func (f *Flow) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *Flow) state() (string, error) {
	if f.newState != nil {
		return f.newState()
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func splitRedirectURI(redirectURI string) (host string, port int, path string, err error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", 0, "", err
	}

	host = u.Hostname()
	if host == "" {
		return "", 0, "", fmt.Errorf("redirect URI has no host")
	}

	portStr := u.Port()
	if portStr == "" {
		portStr = "80"
	}
	port, err = strconv.Atoi(portStr)
	if err != nil {
		return "", 0, "", fmt.Errorf("redirect URI has invalid port: %w", err)
	}

	path = u.Path
	if path == "" {
		path = "/"
	}

	return host, port, path, nil
}

// FreePort asks the kernel for an unused TCP port. Used when the redirect
// URI leaves the port to the implementation (port 0).
func FreePort(host string) (int, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer func() { _ = ln.Close() }()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

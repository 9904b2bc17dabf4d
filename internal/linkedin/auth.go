// Package linkedin holds the LinkedIn-specific pieces: credential storage,
// the authorization flow against LinkedIn's OAuth endpoints, and the
// two-phase image post publisher.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	linkedinoauth "golang.org/x/oauth2/linkedin"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
	"github.com/omjanipms/LinkedIn-Agent/internal/oauthflow"
)

// Scopes requested during authorization. w_member_social is what allows
// creating posts on the member's behalf.
var Scopes = []string{"openid", "profile", "email", "w_member_social"}

const defaultUserInfoURL = "https://api.linkedin.com/v2/userinfo"

// Authorizer drives the LinkedIn authorization-code flow and persists the
// resulting credential.
type Authorizer struct {
	clientID     string
	clientSecret string
	redirectURI  string
	store        *Store

	// Timeout bounds the redirect wait of the underlying flow.
	Timeout time.Duration

	httpClient  *http.Client
	userInfoURL string
}

func NewAuthorizer(clientID, clientSecret, redirectURI string, store *Store) *Authorizer {
	return &Authorizer{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		store:        store,
		Timeout:      oauthflow.DefaultTimeout,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userInfoURL:  defaultUserInfoURL,
	}
}

// Authorize runs the browser flow, resolves the member identity, and
// persists the assembled credential. Any step failing aborts the flow.
func (a *Authorizer) Authorize(ctx context.Context) (*Credential, error) {
	flow := oauthflow.New(&oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  a.redirectURI,
		Scopes:       Scopes,
		Endpoint:     linkedinoauth.Endpoint,
	})
	flow.Timeout = a.Timeout

	token, err := flow.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("access token obtained, fetching member identity")
	claims, err := a.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"userinfo response is missing the sub claim")
	}

	cred := &Credential{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry.Unix(),
		MemberID:    sub,
		TokenType:   token.TokenType,
		Claims:      claims,
	}

	if err := a.store.Persist(cred); err != nil {
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}

	logger.Info("authenticated with LinkedIn", "member_id", sub)
	return cred, nil
}

func (a *Authorizer) fetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"failed to build userinfo request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"userinfo request failed").WithCause(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"failed to read userinfo response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"userinfo endpoint returned an error").WithResponse(resp.StatusCode, string(body))
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, oauthflow.NewAuthError(oauthflow.ReasonIdentityFailed,
			"userinfo response is not valid JSON").WithCause(err)
	}

	return claims, nil
}

package linkedin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

const tokenFileName = "linkedin_token.json"

// Credential is the persisted LinkedIn bearer credential. The JSON layout
// matches the token file the OAuth exchange produces: the raw token fields
// plus the member ID resolved from the userinfo endpoint.
type Credential struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   int64          `json:"expires_at"`
	MemberID    string         `json:"linkedin_id"`
	Scope       string         `json:"scope,omitempty"`
	TokenType   string         `json:"token_type,omitempty"`
	Claims      map[string]any `json:"claims,omitempty"`
}

// Valid reports whether the credential can still authenticate requests.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && time.Now().Unix() < c.ExpiresAt
}

// AuthorURN returns the member URN used as asset owner and post author.
func (c *Credential) AuthorURN() string {
	return "urn:li:person:" + c.MemberID
}

// Store persists the LinkedIn credential as a JSON file in the cache
// directory.
type Store struct {
	path string
}

func NewStore(cacheDir string) *Store {
	return &Store{path: filepath.Join(cacheDir, tokenFileName)}
}

// Load returns the stored credential, or nil when none exists, it cannot be
// parsed, or it has expired. An expired credential is treated exactly like a
// missing one: it is never returned and forces re-authorization.
func (s *Store) Load() *Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read credential file", "path", s.path, "error", err)
		}
		return nil
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		logger.Warn("stored credential is not valid JSON, ignoring", "path", s.path, "error", err)
		return nil
	}

	if !cred.Valid() {
		logger.Info("stored credential has expired", "expires_at", cred.ExpiresAt)
		return nil
	}

	return &cred
}

// Persist overwrites any prior credential. The write goes through a temp
// file in the same directory followed by a rename so a concurrent reader
// never observes a partial credential.
func (s *Store) Persist(cred *Credential) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tokenFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set credential file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp credential file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}

	logger.Debug("credential saved", "path", s.path)
	return nil
}

// Clear removes the stored credential.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

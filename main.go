package main

import (
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"

	"github.com/omjanipms/LinkedIn-Agent/cmd"
	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

// Build-time variables injected by ldflags
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	// Load .env file if present (current directory or XDG config dir) so API
	// keys and OAuth client credentials can live outside the shell profile.
	// Order: project root .env > XDG config dir .env (first one found wins)
	tryPaths := []string{".env"}
	if cfgHome, err := os.UserConfigDir(); err == nil {
		tryPaths = append(tryPaths, filepath.Join(cfgHome, "linkedin-agent", ".env"))
	}
	for _, p := range tryPaths {
		if _, err := os.Stat(p); err == nil {
			if loadErr := gotenv.Load(p); loadErr == nil {
				break
			}
		}
	}

	cmd.SetVersionInfo(Version, CommitHash, BuildTime)

	if err := cmd.Execute(); err != nil {
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omjanipms/LinkedIn-Agent/internal/config"
	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

var (
	cacheDir string
	verbose  bool
	cfgFile  string
	cfg      *config.Config

	// Version information
	version    string
	commitHash string
	buildTime  string
)

var rootCmd = &cobra.Command{
	Use:   "linkedin-agent",
	Short: "Generate and publish LinkedIn posts from a Google Sheet of topics",
	Long: `A CLI tool that turns a Google Sheet of topics into published LinkedIn posts.

linkedin-agent reads the topic sheet, generates marketing copy and finds an
illustrative image for the newest unprocessed topic, writes both back to the
sheet, and publishes the post to LinkedIn with the image attached.

Authentication against LinkedIn and Google Sheets uses the OAuth2
authorization-code flow with a local browser redirect; credentials are cached
under the cache directory.`,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, buildTimeStr string) {
	version = v
	commitHash = commit
	buildTime = buildTimeStr

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commitHash, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: ~/.cache/linkedin-agent)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/linkedin-agent/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() {
	// Initialize logger with verbose flag
	logger.Init(verbose)

	if cacheDir == "" {
		defaultCacheDir, err := getDefaultCacheDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default cache directory: %v\n", err)
			os.Exit(1)
		}
		cacheDir = defaultCacheDir
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

func getDefaultCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cache", "linkedin-agent"), nil
}

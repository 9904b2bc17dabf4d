package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omjanipms/LinkedIn-Agent/internal/linkedin"
	"github.com/omjanipms/LinkedIn-Agent/internal/nerdfonts"
	"github.com/omjanipms/LinkedIn-Agent/internal/sheets"
)

var (
	revokeFlag bool
	statusOnly bool
	googleFlag bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage LinkedIn and Google Sheets authentication",
	Long: `Authenticate using the OAuth 2.0 authorization-code flow.

A browser window opens with the provider's authorization page; after you
approve, the redirect is captured by a temporary local listener and the
credential is cached for later runs.

Examples:
  linkedin-agent auth                    # Authenticate with LinkedIn
  linkedin-agent auth --google           # Authenticate with Google Sheets
  linkedin-agent auth --status           # Check authentication status
  linkedin-agent auth --revoke           # Clear cached LinkedIn credential`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&revokeFlag, "revoke", false, "clear cached credential")
	authCmd.Flags().BoolVar(&statusOnly, "status", false, "check authentication status only")
	authCmd.Flags().BoolVar(&googleFlag, "google", false, "act on the Google Sheets credential instead of LinkedIn")
}

func runAuth(cmd *cobra.Command, args []string) error {
	if googleFlag {
		return runGoogleAuth(cmd)
	}
	return runLinkedInAuth(cmd)
}

func runLinkedInAuth(cmd *cobra.Command) error {
	store := linkedin.NewStore(cacheDir)

	// Handle status check only
	if statusOnly {
		if store.Load() != nil {
			fmt.Printf("%s LinkedIn authentication: Valid\n", nerdfonts.CheckCircle)
		} else {
			fmt.Printf("%s LinkedIn authentication: Required\n", nerdfonts.ExclamationCircle)
		}
		return nil
	}

	// Handle revoke (clear cached credential)
	if revokeFlag {
		fmt.Printf("%s Clearing LinkedIn credential...\n", nerdfonts.InfoCircle)
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear credential: %w", err)
		}
		fmt.Printf("%s Credential cleared successfully\n", nerdfonts.CheckCircle)
		return nil
	}

	// Check current authentication status
	if cred := store.Load(); cred != nil {
		fmt.Printf("%s Already authenticated with LinkedIn (member %s)\n", nerdfonts.CheckCircle, cred.MemberID)
		fmt.Println("Use --revoke to re-authenticate or --status to check status")
		return nil
	}

	if cfg.Secrets.LinkedInClientID == "" || cfg.Secrets.LinkedInClientSecret == "" {
		return fmt.Errorf("LINKEDIN_CLIENT_ID and LINKEDIN_CLIENT_SECRET must be set (check your .env file)")
	}

	fmt.Printf("%s Starting LinkedIn authorization...\n", nerdfonts.InfoCircle)
	fmt.Println("Log in and authorize the application in the browser window.")
	fmt.Println()

	authorizer := linkedin.NewAuthorizer(
		cfg.Secrets.LinkedInClientID,
		cfg.Secrets.LinkedInClientSecret,
		cfg.RedirectURI(),
		store,
	)
	authorizer.Timeout = time.Duration(cfg.OAuth.TimeoutMinutes) * time.Minute

	cred, err := authorizer.Authorize(cmd.Context())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Printf("%s Authentication successful! (member %s)\n", nerdfonts.CheckCircle, cred.MemberID)
	fmt.Println("You can now use 'linkedin-agent post' to publish a topic.")

	return nil
}

func runGoogleAuth(cmd *cobra.Command) error {
	manager := sheets.NewAuthManager(cacheDir, cfg.Secrets.GoogleCredentials)

	if statusOnly {
		if manager.HasValidToken() {
			fmt.Printf("%s Google Sheets authentication: Valid\n", nerdfonts.CheckCircle)
		} else {
			fmt.Printf("%s Google Sheets authentication: Required\n", nerdfonts.ExclamationCircle)
		}
		return nil
	}

	if revokeFlag {
		fmt.Printf("%s Clearing Google token...\n", nerdfonts.InfoCircle)
		if err := manager.ClearToken(); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		fmt.Printf("%s Token cleared successfully\n", nerdfonts.CheckCircle)
		return nil
	}

	if manager.HasValidToken() {
		fmt.Printf("%s Already authenticated with Google Sheets\n", nerdfonts.CheckCircle)
		fmt.Println("Use --revoke to re-authenticate or --status to check status")
		return nil
	}

	fmt.Printf("%s Starting Google authorization...\n", nerdfonts.InfoCircle)
	fmt.Println("Log in and grant spreadsheet access in the browser window.")
	fmt.Println()

	if err := manager.Authenticate(cmd.Context()); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Printf("%s Authentication successful!\n", nerdfonts.CheckCircle)
	return nil
}

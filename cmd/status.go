package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omjanipms/LinkedIn-Agent/internal/linkedin"
	"github.com/omjanipms/LinkedIn-Agent/internal/nerdfonts"
	"github.com/omjanipms/LinkedIn-Agent/internal/sheets"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the agent",
	Long: `Display the current status of the agent including:
- LinkedIn and Google Sheets authentication
- Configured sheet and pipeline mode

This command makes no network calls; it only inspects cached credentials
and configuration.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Authentication ===")

	store := linkedin.NewStore(cacheDir)
	if cred := store.Load(); cred != nil {
		expires := time.Unix(cred.ExpiresAt, 0)
		fmt.Printf("%s LinkedIn: Valid (member %s, expires %s)\n",
			nerdfonts.CheckCircle, cred.MemberID, expires.Format("2006-01-02 15:04"))
	} else {
		fmt.Printf("%s LinkedIn: Required (run 'linkedin-agent auth')\n", nerdfonts.ExclamationCircle)
	}

	googleAuth := sheets.NewAuthManager(cacheDir, cfg.Secrets.GoogleCredentials)
	if googleAuth.HasValidToken() {
		fmt.Printf("%s Google Sheets: Valid\n", nerdfonts.CheckCircle)
	} else {
		fmt.Printf("%s Google Sheets: Required (run 'linkedin-agent auth --google')\n", nerdfonts.ExclamationCircle)
	}

	fmt.Println("\n=== Configuration ===")

	if cfg.Secrets.SpreadsheetID != "" {
		fmt.Printf("Spreadsheet: %s (sheet %q)\n", cfg.Secrets.SpreadsheetID, cfg.Sheet.Name)
	} else {
		fmt.Printf("%s Spreadsheet: SPREADSHEET_ID not set\n", nerdfonts.ExclamationTriangle)
	}

	fmt.Printf("Pipeline mode: %s\n", cfg.Post.Mode)
	fmt.Printf("Content model: %s (max %d chars)\n", cfg.Content.Model, cfg.Content.MaxLength)
	fmt.Printf("Redirect URI: %s\n", cfg.RedirectURI())
	fmt.Printf("Cache directory: %s\n", cacheDir)

	missing := []string{}
	for name, value := range map[string]string{
		"LINKEDIN_CLIENT_ID":     cfg.Secrets.LinkedInClientID,
		"LINKEDIN_CLIENT_SECRET": cfg.Secrets.LinkedInClientSecret,
		"GOOGLE_API_KEY":         cfg.Secrets.GeminiAPIKey,
		"UNSPLASH_ACCESS_KEY":    cfg.Secrets.UnsplashAccessKey,
		"SPREADSHEET_ID":         cfg.Secrets.SpreadsheetID,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		fmt.Println("\n=== Missing Settings ===")
		for _, name := range missing {
			fmt.Printf("%s %s is not set\n", nerdfonts.ExclamationTriangle, name)
		}
	}

	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omjanipms/LinkedIn-Agent/internal/nerdfonts"
	"github.com/omjanipms/LinkedIn-Agent/internal/sheets"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topic sheet rows and their processing state",
	Long: `List every row of the topic sheet with its processing state.

A row counts as processed once content has been generated for it; the
pipeline always picks the newest unprocessed row first.`,
	RunE: runTopics,
}

func runTopics(cmd *cobra.Command, args []string) error {
	if cfg.Secrets.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is not set (check your .env file)")
	}

	ctx := cmd.Context()

	googleAuth := sheets.NewAuthManager(cacheDir, cfg.Secrets.GoogleCredentials)
	httpClient, err := googleAuth.Client(ctx)
	if err != nil {
		return fmt.Errorf("Google authentication failed: %w", err)
	}

	sheetClient, err := sheets.NewClient(ctx, httpClient, cfg.Secrets.SpreadsheetID, cfg.Sheet.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	rows, err := sheetClient.ReadRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to read topics: %w", err)
	}

	if len(rows) == 0 {
		fmt.Printf("%s No topics found in sheet %q\n", nerdfonts.InfoCircle, cfg.Sheet.Name)
		return nil
	}

	pending := 0
	for _, row := range rows {
		symbol := nerdfonts.CheckCircle
		state := "processed"
		if !row.Processed() {
			symbol = nerdfonts.Circle
			state = "pending"
			pending++
		}

		topic := strings.TrimSpace(row.Topic)
		if topic == "" {
			topic = "(no topic)"
		}

		fmt.Printf("%s %3d  %-40s %s\n", symbol, row.Index, topic, state)
		if row.ImageURL != "" {
			fmt.Printf("      %s %s\n", nerdfonts.Image, row.ImageURL)
		}
	}

	fmt.Printf("\nTotal: %d topics, %d pending\n", len(rows), pending)
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omjanipms/LinkedIn-Agent/internal/content"
	"github.com/omjanipms/LinkedIn-Agent/internal/linkedin"
	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
	"github.com/omjanipms/LinkedIn-Agent/internal/nerdfonts"
	"github.com/omjanipms/LinkedIn-Agent/internal/pipeline"
	"github.com/omjanipms/LinkedIn-Agent/internal/sheets"
	"github.com/omjanipms/LinkedIn-Agent/internal/unsplash"
)

var modeFlag string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Run the publish pipeline once",
	Long: `Run one pass of the publish pipeline.

In generate mode (the default) the newest topic row without content is
selected, marketing copy and an image are generated for it, written back to
the sheet, and the post is published to LinkedIn.

In prefilled mode every row that already carries topic, content, and image
URL is published as-is, with a short pause between posts.

Examples:
  linkedin-agent post                    # Generate and publish the newest topic
  linkedin-agent post --mode=prefilled   # Publish rows filled in by hand`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&modeFlag, "mode", "", "pipeline mode (generate/prefilled, default from config)")
}

func runPost(cmd *cobra.Command, args []string) error {
	if modeFlag == "" {
		modeFlag = cfg.Post.Mode
	}
	if modeFlag != string(pipeline.ModeGenerate) && modeFlag != string(pipeline.ModePrefilled) {
		return fmt.Errorf("unknown mode: %s (supported: generate, prefilled)", modeFlag)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	// LinkedIn credential: reuse the cached one, re-authorize when it is
	// absent or expired.
	store := linkedin.NewStore(cacheDir)
	cred := store.Load()
	if cred == nil {
		fmt.Printf("%s No valid LinkedIn credential, starting authorization...\n", nerdfonts.InfoCircle)

		authorizer := linkedin.NewAuthorizer(
			cfg.Secrets.LinkedInClientID,
			cfg.Secrets.LinkedInClientSecret,
			cfg.RedirectURI(),
			store,
		)
		authorizer.Timeout = time.Duration(cfg.OAuth.TimeoutMinutes) * time.Minute

		var err error
		cred, err = authorizer.Authorize(ctx)
		if err != nil {
			return fmt.Errorf("LinkedIn authentication failed: %w", err)
		}
	}

	// Google Sheets access; triggers its own browser flow when no token is
	// cached.
	googleAuth := sheets.NewAuthManager(cacheDir, cfg.Secrets.GoogleCredentials)
	httpClient, err := googleAuth.Client(ctx)
	if err != nil {
		return fmt.Errorf("Google authentication failed: %w", err)
	}

	sheetClient, err := sheets.NewClient(ctx, httpClient, cfg.Secrets.SpreadsheetID, cfg.Sheet.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	pl := pipeline.New(
		sheetClient,
		content.NewGenerator(cfg.Secrets.GeminiAPIKey, cfg.Content.Model, cfg.Content.MaxLength),
		unsplash.NewClient(cfg.Secrets.UnsplashAccessKey),
		linkedin.NewPublisher(cred),
		pipeline.Mode(modeFlag),
		time.Duration(cfg.Post.DelaySeconds)*time.Second,
	)

	logger.Info("running pipeline", "mode", modeFlag)
	outcome := pl.Run(ctx)

	switch outcome.State {
	case pipeline.StateNoWork:
		fmt.Printf("%s No new topics to process\n", nerdfonts.InfoCircle)
		return nil
	case pipeline.StatePublished:
		if outcome.Published > 1 {
			fmt.Printf("%s Published %d posts (last: %s)\n", nerdfonts.PaperPlane, outcome.Published, outcome.Topic)
		} else {
			fmt.Printf("%s Published post for topic: %s\n", nerdfonts.PaperPlane, outcome.Topic)
		}
		return nil
	case pipeline.StateFailed:
		return fmt.Errorf("pipeline failed at %s stage: %w", outcome.Stage, outcome.Err)
	default:
		return fmt.Errorf("pipeline returned unknown state %v", outcome.State)
	}
}

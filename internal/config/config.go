package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Sheet   SheetConfig   `mapstructure:"sheet"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Post    PostConfig    `mapstructure:"post"`
	Content ContentConfig `mapstructure:"content"`

	// Secrets come from the environment (.env), never from the config file.
	Secrets Secrets `mapstructure:"-"`
}

type SheetConfig struct {
	Name string `mapstructure:"name"`
}

type OAuthConfig struct {
	RedirectHost   string `mapstructure:"redirect_host"`
	RedirectPort   int    `mapstructure:"redirect_port"`
	RedirectPath   string `mapstructure:"redirect_path"`
	TimeoutMinutes int    `mapstructure:"timeout_minutes"`
}

type PostConfig struct {
	Mode         string `mapstructure:"mode"`
	DelaySeconds int    `mapstructure:"delay_seconds"`
}

type ContentConfig struct {
	Model     string `mapstructure:"model"`
	MaxLength int    `mapstructure:"max_length"`
}

type Secrets struct {
	LinkedInClientID     string
	LinkedInClientSecret string
	SpreadsheetID        string
	GeminiAPIKey         string
	UnsplashAccessKey    string
	GoogleCredentials    string // path to installed-app client secrets JSON
}

var defaultConfig = Config{
	Sheet: SheetConfig{
		Name: "Sheet1",
	},
	OAuth: OAuthConfig{
		RedirectHost:   "localhost",
		RedirectPort:   8080,
		RedirectPath:   "/callback",
		TimeoutMinutes: 5,
	},
	Post: PostConfig{
		Mode:         "generate",
		DelaySeconds: 5,
	},
	Content: ContentConfig{
		Model:     "gemini-1.5-pro",
		MaxLength: 2500,
	},
}

func Load(configPath string) (*Config, error) {
	// Set up viper
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")

	// Set default configuration path
	if configPath == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config file doesn't exist, create it with defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createDefaultConfig(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			// Try to read again after creating
			if err := v.ReadInConfig(); err != nil {
				cfg := defaultConfig
				cfg.Secrets = loadSecrets()
				return &cfg, nil
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Secrets = loadSecrets()

	return &config, nil
}

func loadSecrets() Secrets {
	credsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credsFile == "" {
		credsFile = "credentials.json"
	}

	return Secrets{
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		SpreadsheetID:        os.Getenv("SPREADSHEET_ID"),
		GeminiAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		UnsplashAccessKey:    os.Getenv("UNSPLASH_ACCESS_KEY"),
		GoogleCredentials:    credsFile,
	}
}

// Validate checks that the settings every command depends on are present.
// Missing secrets are fatal: nothing works without them.
func (c *Config) Validate() error {
	if c.Secrets.LinkedInClientID == "" {
		return NewConfigError("LINKEDIN_CLIENT_ID", "required environment variable is not set")
	}
	if c.Secrets.LinkedInClientSecret == "" {
		return NewConfigError("LINKEDIN_CLIENT_SECRET", "required environment variable is not set")
	}
	if c.Secrets.SpreadsheetID == "" {
		return NewConfigError("SPREADSHEET_ID", "required environment variable is not set")
	}
	if c.Secrets.GeminiAPIKey == "" {
		return NewConfigError("GOOGLE_API_KEY", "required environment variable is not set")
	}
	if c.Post.Mode != "generate" && c.Post.Mode != "prefilled" {
		return NewConfigError("post.mode", fmt.Sprintf("unknown mode %q (supported: generate, prefilled)", c.Post.Mode))
	}
	return nil
}

// RedirectURI assembles the OAuth redirect URI registered with the provider.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d%s", c.OAuth.RedirectHost, c.OAuth.RedirectPort, c.OAuth.RedirectPath)
}

func setDefaults(v *viper.Viper) {
	// Sheet
	v.SetDefault("sheet.name", defaultConfig.Sheet.Name)

	// OAuth
	v.SetDefault("oauth.redirect_host", defaultConfig.OAuth.RedirectHost)
	v.SetDefault("oauth.redirect_port", defaultConfig.OAuth.RedirectPort)
	v.SetDefault("oauth.redirect_path", defaultConfig.OAuth.RedirectPath)
	v.SetDefault("oauth.timeout_minutes", defaultConfig.OAuth.TimeoutMinutes)

	// Post
	v.SetDefault("post.mode", defaultConfig.Post.Mode)
	v.SetDefault("post.delay_seconds", defaultConfig.Post.DelaySeconds)

	// Content
	v.SetDefault("content.model", defaultConfig.Content.Model)
	v.SetDefault("content.max_length", defaultConfig.Content.MaxLength)
}

func createDefaultConfig(configPath string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		return nil // Already exists
	}

	// Create default config content
	configContent := `# linkedin-agent configuration
# API keys and OAuth client credentials go in .env, not here.

[sheet]
name = "Sheet1"

[oauth]
redirect_host = "localhost"
redirect_port = 8080
redirect_path = "/callback"
timeout_minutes = 5  # how long to wait for the browser redirect

[post]
mode = "generate"    # generate: fill the newest empty topic; prefilled: publish completed rows
delay_seconds = 5    # pause between posts in prefilled mode

[content]
model = "gemini-1.5-pro"
max_length = 2500    # LinkedIn post budget, emojis included
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func getDefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "linkedin-agent"), nil
}

func GetDefaultConfigDir() (string, error) {
	return getDefaultConfigDir()
}

// Package config loads mailsense settings from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds all environment-sourced configuration. A missing
// required credential is a startup fault, not a per-call fault.
type Settings struct {
	// Model gateway.
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	// Model identifiers per agent type.
	CategorizationModel string `envconfig:"CATEGORIZATION_MODEL" default:"gpt-4"`
	SummaryModel        string `envconfig:"SUMMARY_MODEL" default:"gpt-3.5-turbo"`
	ResponseModel       string `envconfig:"RESPONSE_MODEL" default:"gpt-4"`

	// Mailbox.
	EmailAddress    string `envconfig:"EMAIL_ADDRESS"`
	CredentialsPath string `envconfig:"GMAIL_CREDENTIALS_PATH" default:"./credentials.json"`
	TokenPath       string `envconfig:"GMAIL_TOKEN_PATH" default:"./token.json"`

	// Storage.
	DBPath string `envconfig:"DB_PATH" default:"./data/emails.db"`

	// Behavior.
	MaxEmailsToFetch int    `envconfig:"MAX_EMAILS_TO_FETCH" default:"50"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`

	// Dashboard API.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8501"`
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("mailsense", &s); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &s, nil
}

package config

import (
	"os"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultName is the display identity the chatbot speaks for.
	DefaultName = "Ryan Griego"
	// DefaultGitHubUsername is used when GITHUB_USERNAME is unset or empty.
	DefaultGitHubUsername = "ryan-griego"
)

// ChatbotConfig holds the identity fields used to personalize the chatbot.
// It is a plain value: copies compare equal when built from the same environment.
type ChatbotConfig struct {
	Name           string
	GitHubUsername string
}

type identityEnv struct {
	GitHubUsername string `env:"GITHUB_USERNAME"`
}

// NewChatbotConfig builds the identity configuration from an explicit environment
// mapping. It never fails; unusable values fall back to the defaults.
func NewChatbotConfig(environ map[string]string) ChatbotConfig {
	if environ == nil {
		// A nil map makes env fall back to the process environment.
		environ = map[string]string{}
	}

	var parsed identityEnv
	if err := env.ParseWithOptions(&parsed, env.Options{Environment: environ}); err != nil {
		parsed = identityEnv{}
	}

	// Any non-empty value is kept exactly as given, whitespace included.
	username := parsed.GitHubUsername
	if username == "" {
		username = DefaultGitHubUsername
	}

	return ChatbotConfig{
		Name:           DefaultName,
		GitHubUsername: username,
	}
}

// LoadChatbotConfig builds the identity configuration from the process environment.
func LoadChatbotConfig() ChatbotConfig {
	return NewChatbotConfig(Environ())
}

// Environ snapshots the process environment as a map.
func Environ() map[string]string {
	return env.ToMap(os.Environ())
}

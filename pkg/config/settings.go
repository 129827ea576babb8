package config

import (
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

const (
	InterfaceWeb      = "web"
	InterfaceTerminal = "terminal"

	// PersistenceDisabled as CHATBOT_DB_PATH turns off the lead store.
	PersistenceDisabled = "none"
)

// Settings holds the runtime configuration of the chatbot implementation.
type Settings struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"OPENAI_MODEL"`

	Interface   string        `env:"CHATBOT_INTERFACE"`
	ListenAddr  string        `env:"CHATBOT_LISTEN_ADDR"`
	Port        string        `env:"PORT"`
	MaxTurns    int           `env:"CHATBOT_MAX_TURNS"`
	SessionTTL  time.Duration `env:"CHATBOT_SESSION_TTL"`
	ProfilePath string        `env:"CHATBOT_PROFILE_PATH"`
	DBPath      string        `env:"CHATBOT_DB_PATH"`
	Verbose     bool          `env:"CHATBOT_VERBOSE"`

	GitHubToken string `env:"GITHUB_TOKEN"`

	Pushover Pushover `envPrefix:"PUSHOVER_"`
}

// Pushover holds push notification credentials. Both must be set to enable it.
type Pushover struct {
	Token string `env:"TOKEN"`
	User  string `env:"USER"`
}

// Enabled reports whether both credentials are present.
func (p Pushover) Enabled() bool {
	return p.Token != "" && p.User != ""
}

// DefaultSettings returns a baseline configuration without side effects.
func DefaultSettings() Settings {
	return Settings{
		Model:       "gpt-4o-mini",
		Interface:   InterfaceWeb,
		ListenAddr:  ":7860",
		MaxTurns:    10,
		SessionTTL:  time.Hour,
		ProfilePath: "me/profile.yaml",
		DBPath:      "career_chatbot.db",
	}
}

// LoadSettings parses settings from an explicit environment mapping and fills
// unset fields from DefaultSettings.
func LoadSettings(environ map[string]string) (Settings, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	if strings.TrimSpace(s.ListenAddr) == "" && strings.TrimSpace(s.Port) != "" {
		s.ListenAddr = ":" + strings.TrimSpace(s.Port)
	}

	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return Settings{}, fmt.Errorf("merge default settings: %w", err)
	}

	return Normalize(s), nil
}

// Normalize sanitizes configuration values.
func Normalize(s Settings) Settings {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.BaseURL = strings.TrimSpace(s.BaseURL)
	s.Model = strings.TrimSpace(s.Model)
	s.Interface = strings.ToLower(strings.TrimSpace(s.Interface))
	s.ListenAddr = strings.TrimSpace(s.ListenAddr)
	s.ProfilePath = strings.TrimSpace(s.ProfilePath)
	s.DBPath = strings.TrimSpace(s.DBPath)
	s.GitHubToken = strings.TrimSpace(s.GitHubToken)
	s.Pushover.Token = strings.TrimSpace(s.Pushover.Token)
	s.Pushover.User = strings.TrimSpace(s.Pushover.User)

	if s.MaxTurns <= 0 {
		s.MaxTurns = 1
	}
	if s.SessionTTL < 0 {
		s.SessionTTL = 0
	}
	return s
}

// PersistenceEnabled reports whether captured leads should be stored.
func (s Settings) PersistenceEnabled() bool {
	return s.DBPath != "" && s.DBPath != PersistenceDisabled
}

// Validate checks the settings required to talk to the model.
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	if s.Model == "" {
		return ErrMissingModel
	}
	switch s.Interface {
	case InterfaceWeb, InterfaceTerminal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInterface, s.Interface)
	}
	return nil
}

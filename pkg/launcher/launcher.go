// Package launcher composes the identity configuration and hands control to a
// chatbot's blocking interface.
package launcher

//go:generate mockgen -source=launcher.go -destination=../mock/chatbot_mock.go -package=mock

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

// Chatbot is a handle exposing one blocking operation. LaunchInterface serves
// a user-facing interface until ctx is done or serving fails.
type Chatbot interface {
	LaunchInterface(ctx context.Context) error
}

// Factory constructs a chatbot from the identity configuration.
type Factory func(cfg config.ChatbotConfig) (Chatbot, error)

// EnvLoader populates the process environment from external sources. It must
// not fail when a source is absent.
type EnvLoader func(filenames ...string)

// LoadDotEnv applies variables from .env files that exist. Variables already
// present in the process environment are left untouched.
func LoadDotEnv(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// Launcher runs the startup sequence: load env, build config, build chatbot, launch.
type Launcher struct {
	LoadEnv    EnvLoader
	Environ    func() map[string]string
	NewChatbot Factory
	Logger     loggerpkg.Logger
}

// New returns a Launcher using .env files and the process environment.
func New(factory Factory, logger loggerpkg.Logger) *Launcher {
	return &Launcher{
		LoadEnv:    LoadDotEnv,
		Environ:    config.Environ,
		NewChatbot: factory,
		Logger:     logger,
	}
}

// Run executes the startup sequence and blocks in the chatbot's interface.
func (l *Launcher) Run(ctx context.Context) error {
	if l.NewChatbot == nil {
		return errors.New("chatbot factory is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if l.LoadEnv != nil {
		l.LoadEnv()
	}

	environ := l.Environ
	if environ == nil {
		environ = config.Environ
	}
	cfg := config.NewChatbotConfig(environ())
	loggerpkg.Info(l.Logger, "configuration ready", map[string]any{
		"name":            cfg.Name,
		"github_username": cfg.GitHubUsername,
	})

	bot, err := l.NewChatbot(cfg)
	if err != nil {
		return fmt.Errorf("create chatbot: %w", err)
	}
	if bot == nil {
		return errors.New("create chatbot: factory returned no chatbot")
	}

	loggerpkg.Info(l.Logger, "launching interface", nil)
	return bot.LaunchInterface(ctx)
}

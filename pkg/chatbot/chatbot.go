// Package chatbot implements the career chatbot: an LLM persona grounded in a
// profile and public GitHub activity, served over a web page or a terminal.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/github"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
	"github.com/ryan-griego/career-chatbot-go/pkg/notify"
	"github.com/ryan-griego/career-chatbot-go/pkg/profile"
	"github.com/ryan-griego/career-chatbot-go/pkg/prompt"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
	"github.com/ryan-griego/career-chatbot-go/pkg/tools"
)

// snapshotTimeout bounds the GitHub lookup done while starting up.
const snapshotTimeout = 10 * time.Second

// CareerChatbot holds chatbot runtime state. It is safe for concurrent use
// across sessions.
type CareerChatbot struct {
	config       config.ChatbotConfig
	settings     config.Settings
	client       openai.Client
	tools        *tools.Registry
	systemPrompt string
	profile      profile.Profile

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time

	in      io.Reader
	out     io.Writer
	closers []io.Closer

	logger  loggerpkg.Logger
	verbose bool
}

// New builds a CareerChatbot for the given identity and runtime settings.
func New(ctx context.Context, cfg config.ChatbotConfig, settings config.Settings, opts ...Option) (*CareerChatbot, error) {
	settings = config.Normalize(settings)
	d := deps{logger: loggerpkg.NopLogger{}, in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	loggerpkg.Debug(settings.Verbose, d.logger, "chatbot init", map[string]any{
		"name":            cfg.Name,
		"github_username": cfg.GitHubUsername,
		"model":           settings.Model,
		"base_url":        settings.BaseURL,
		"interface":       settings.Interface,
		"max_turns":       settings.MaxTurns,
	})
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	p, err := profile.Load(settings.ProfilePath, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p.Source == "" {
		loggerpkg.Warn(d.logger, "profile file not found, using default profile", map[string]any{
			"path": settings.ProfilePath,
		})
	}

	bot := &CareerChatbot{
		config:   cfg,
		settings: settings,
		profile:  p,
		sessions: make(map[string]*session),
		now:      time.Now,
		in:       d.in,
		out:      d.out,
		logger:   d.logger,
		verbose:  settings.Verbose,
	}

	if d.recorder == nil {
		d.recorder = store.NopRecorder{}
		if settings.PersistenceEnabled() {
			s, err := store.Open(settings.DBPath)
			if err != nil {
				return nil, fmt.Errorf("open lead store: %w", err)
			}
			bot.closers = append(bot.closers, s)
			d.recorder = s
		}
	}

	if d.notifier == nil {
		d.notifier = notify.Nop{}
		if settings.Pushover.Enabled() {
			d.notifier = notify.NewPushover(notify.PushoverConfig{
				Token: settings.Pushover.Token,
				User:  settings.Pushover.User,
			})
		}
	}

	if d.repos == nil {
		d.repos = github.NewClient(settings.GitHubToken)
	}

	repos := bot.fetchSnapshot(ctx, d.repos)
	bot.systemPrompt = prompt.BuildSystemPrompt(cfg, p, repos)
	loggerpkg.Debug(bot.verbose, bot.logger, "system prompt ready", map[string]any{
		"bytes":        len(bot.systemPrompt),
		"repositories": len(repos),
	})

	bot.client = newOpenAIClient(settings, d.requestOptions...)
	bot.tools = tools.New(tools.Context{
		GitHubUsername: cfg.GitHubUsername,
		Repos:          d.repos,
		Recorder:       d.recorder,
		Notifier:       d.notifier,
		Verbose:        settings.Verbose,
		Logger:         d.logger,
	})
	loggerpkg.Debug(bot.verbose, bot.logger, "tools registered", map[string]any{
		"count": len(bot.tools.Definitions()),
	})

	return bot, nil
}

// fetchSnapshot loads recent repositories for the prompt. Failures are logged
// and yield no repositories.
func (b *CareerChatbot) fetchSnapshot(ctx context.Context, repos tools.RepoLister) []github.Repository {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	list, err := repos.ListRepositories(ctx, b.config.GitHubUsername, github.DefaultRepositoryLimit)
	if err != nil {
		loggerpkg.Warn(b.logger, "github snapshot unavailable", map[string]any{
			"github_username": b.config.GitHubUsername,
			"error":           err.Error(),
		})
		return nil
	}
	return list
}

func newOpenAIClient(settings config.Settings, extra ...option.RequestOption) openai.Client {
	opts := []option.RequestOption{}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	if settings.APIKey != "" {
		opts = append(opts, option.WithAPIKey(settings.APIKey))
	}
	opts = append(opts, extra...)
	return openai.NewClient(opts...)
}

// Config returns the identity configuration the chatbot was built from.
func (b *CareerChatbot) Config() config.ChatbotConfig {
	return b.config
}

// SystemPrompt returns the prompt every session starts from.
func (b *CareerChatbot) SystemPrompt() string {
	return b.systemPrompt
}

// Close releases resources opened by New.
func (b *CareerChatbot) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

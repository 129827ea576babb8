// Package main starts the career chatbot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryan-griego/career-chatbot-go/pkg/chatbot"
	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/launcher"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

// main is the program entry point.
func main() {
	flags, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		stop()
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags cliFlags) error {
	if flags.listLeads {
		launcher.LoadDotEnv()
		settings, err := config.LoadSettings(config.Environ())
		if err != nil {
			return err
		}
		return listLeads(ctx, settings, flags.leadLimit, os.Stdout)
	}

	// Settings are read inside the factory so .env values loaded by the
	// launcher are visible.
	factory := func(cfg config.ChatbotConfig) (launcher.Chatbot, error) {
		settings, err := config.LoadSettings(config.Environ())
		if err != nil {
			return nil, err
		}
		settings = flags.apply(settings)

		appLogger := loggerpkg.New(os.Stderr, "career-chatbot", settings.Verbose)
		return chatbot.New(ctx, cfg, settings, chatbot.WithLogger(appLogger))
	}

	return launcher.New(factory, loggerpkg.New(os.Stderr, "launcher", flags.verbose)).Run(ctx)
}

package chatbot

import (
	"context"
	"fmt"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
	"github.com/ryan-griego/career-chatbot-go/pkg/terminal"
	"github.com/ryan-griego/career-chatbot-go/pkg/web"
)

// LaunchInterface starts the configured user interface and blocks until it
// stops. Resources opened by New are released on return.
func (b *CareerChatbot) LaunchInterface(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close chatbot: %w", cerr)
		}
	}()

	loggerpkg.Info(b.logger, "launching interface", map[string]any{
		"interface":       b.settings.Interface,
		"name":            b.config.Name,
		"github_username": b.config.GitHubUsername,
	})

	switch b.settings.Interface {
	case config.InterfaceWeb:
		handler := web.NewHandler(b, b.config.Name, b.logger).Routes()
		return web.Serve(ctx, b.settings.ListenAddr, handler, b.logger)
	case config.InterfaceTerminal:
		return terminal.Run(ctx, b, terminal.Options{
			Name:    b.config.Name,
			Verbose: b.verbose,
			Logger:  b.logger,
		}, b.in, b.out)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownInterface, b.settings.Interface)
	}
}

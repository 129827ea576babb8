package chatbot

import (
	"io"

	"github.com/openai/openai-go/option"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
	"github.com/ryan-griego/career-chatbot-go/pkg/notify"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
	"github.com/ryan-griego/career-chatbot-go/pkg/tools"
)

// Option configures optional runtime dependencies for CareerChatbot.
type Option func(*deps)

type deps struct {
	logger         loggerpkg.Logger
	notifier       notify.Notifier
	recorder       store.Recorder
	repos          tools.RepoLister
	requestOptions []option.RequestOption
	in             io.Reader
	out            io.Writer
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *deps) {
		d.logger = l
	}
}

// WithNotifier replaces the notifier derived from settings.
func WithNotifier(n notify.Notifier) Option {
	return func(d *deps) {
		d.notifier = n
	}
}

// WithRecorder replaces the lead store derived from settings.
func WithRecorder(r store.Recorder) Option {
	return func(d *deps) {
		d.recorder = r
	}
}

// WithRepoLister replaces the GitHub client derived from settings.
func WithRepoLister(r tools.RepoLister) Option {
	return func(d *deps) {
		d.repos = r
	}
}

// WithRequestOptions appends OpenAI client request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(d *deps) {
		d.requestOptions = append(d.requestOptions, opts...)
	}
}

// WithTerminal sets the streams used by the terminal interface.
func WithTerminal(in io.Reader, out io.Writer) Option {
	return func(d *deps) {
		d.in = in
		d.out = out
	}
}

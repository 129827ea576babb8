package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/ryan-griego/career-chatbot-go/pkg/github"
	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
	"github.com/ryan-griego/career-chatbot-go/pkg/notify"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

type tool interface {
	definition() openai.ChatCompletionToolParam
	execute(ctx context.Context, sessionID, argText string) (string, error)
	name() string
}

// RepoLister lists a user's public repositories.
type RepoLister interface {
	ListRepositories(ctx context.Context, username string, limit int) ([]github.Repository, error)
}

// UserFetcher looks up a user's public GitHub profile.
type UserFetcher interface {
	FetchUser(ctx context.Context, username string) (github.User, error)
}

// Context carries the dependencies shared by all tools.
type Context struct {
	GitHubUsername string
	Repos          RepoLister
	Recorder       store.Recorder
	Notifier       notify.Notifier
	Verbose        bool
	Logger         loggerpkg.Logger
}

func (c Context) debugf(format string, args ...any) {
	loggerpkg.Debugf(c.Verbose, c.Logger, format, args...)
}

// notifyOwner sends a notification and reports whether it was delivered.
// Failures are logged, never returned.
func (c Context) notifyOwner(ctx context.Context, toolName, title, message string) bool {
	if !notify.Delivers(c.Notifier) {
		return false
	}
	if err := c.Notifier.Notify(ctx, title, message); err != nil {
		loggerpkg.Warn(c.Logger, "notification failed", map[string]any{"tool": toolName, "error": err.Error()})
		return false
	}
	return true
}

// Registry holds registered tools and handles execution.
type Registry struct {
	registry map[string]tool
	ctx      Context
	params   []openai.ChatCompletionToolParam
}

type toolResponse struct {
	OK   bool        `json:"ok"`
	Tool string      `json:"tool,omitempty"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"error,omitempty"`
}

// New builds a registry with the built-in tools. GitHub tools are only
// registered when Repos is set; the profile tool also needs Repos to be a
// UserFetcher.
func New(ctx Context) *Registry {
	if ctx.Logger == nil {
		ctx.Logger = loggerpkg.NopLogger{}
	}
	if ctx.Recorder == nil {
		ctx.Recorder = store.NopRecorder{}
	}
	if ctx.Notifier == nil {
		ctx.Notifier = notify.Nop{}
	}
	t := &Registry{
		registry: make(map[string]tool),
		ctx:      ctx,
	}

	t.register(&recordUserDetailsTool{ctx: ctx})
	t.register(&recordUnknownQuestionTool{ctx: ctx})
	if ctx.Repos != nil {
		t.register(&listRepositoriesTool{ctx: ctx})
		if users, ok := ctx.Repos.(UserFetcher); ok {
			t.register(&githubProfileTool{ctx: ctx, users: users})
		}
	}
	return t
}

func (t *Registry) register(toolImpl tool) {
	t.registry[toolImpl.name()] = toolImpl
	t.params = append(t.params, toolImpl.definition())
	t.ctx.debugf("registered tool: %s", toolImpl.name())
}

// Definitions returns the function definitions sent with each completion request.
func (t *Registry) Definitions() []openai.ChatCompletionToolParam {
	return t.params
}

// Execute runs one tool call on behalf of a session. The returned string is the
// JSON envelope handed back to the model.
func (t *Registry) Execute(ctx context.Context, sessionID string, call openai.ChatCompletionMessageToolCall) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return marshalToolResponse(call.Function.Name, nil, ctx.Err())
	default:
	}

	toolImpl, ok := t.registry[call.Function.Name]
	if !ok {
		return marshalToolResponse(call.Function.Name, nil, fmt.Errorf("unknown tool: %s", call.Function.Name))
	}

	t.ctx.debugf("executing tool: %s session=%s", call.Function.Name, sessionID)
	return toolImpl.execute(ctx, sessionID, call.Function.Arguments)
}

func marshalToolResponse(toolName string, data interface{}, err error) (string, error) {
	resp := toolResponse{
		OK:   err == nil,
		Tool: toolName,
		Data: data,
	}
	if err != nil {
		resp.Err = err.Error()
	}
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(payload), nil
}

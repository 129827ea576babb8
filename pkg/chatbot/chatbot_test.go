package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/github"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

type fakeRepos struct {
	repos []github.Repository
	err   error
}

func (f *fakeRepos) ListRepositories(context.Context, string, int) ([]github.Repository, error) {
	return f.repos, f.err
}

type memRecorder struct {
	mu        sync.Mutex
	questions []store.UnknownQuestion
	contacts  []store.Contact
}

func (m *memRecorder) SaveContact(_ context.Context, c store.Contact) (store.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, c)
	return c, nil
}

func (m *memRecorder) SaveUnknownQuestion(_ context.Context, q store.UnknownQuestion) (store.UnknownQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, q)
	return q, nil
}

type capturedRequest struct {
	Model    string           `json:"model"`
	Messages []map[string]any `json:"messages"`
	Tools    []map[string]any `json:"tools"`
}

// fakeModel replays canned chat completions and records each request.
type fakeModel struct {
	mu        sync.Mutex
	responses []string
	requests  []capturedRequest
	status    int
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req capturedRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.requests = append(f.requests, req)

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		return
	}

	body := textCompletion("fallback")
	if len(f.responses) > 0 {
		body = f.responses[0]
		f.responses = f.responses[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeModel) captured() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func textCompletion(content string) string {
	c, _ := json.Marshal(content)
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-test",`+
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, c)
}

func toolCompletion(id, name, args string) string {
	a, _ := json.Marshal(args)
	return fmt.Sprintf(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-test",`+
		`"choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":null,`+
		`"tool_calls":[{"id":%q,"type":"function","function":{"name":%q,"arguments":%s}}]}}]}`, id, name, a)
}

func testSettings(t *testing.T, baseURL string) config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.APIKey = "test-key"
	s.Model = "gpt-test"
	s.BaseURL = baseURL
	s.ProfilePath = filepath.Join(t.TempDir(), "missing.yaml")
	s.DBPath = config.PersistenceDisabled
	return s
}

func newTestBot(t *testing.T, model *fakeModel, opts ...Option) (*CareerChatbot, *memRecorder) {
	t.Helper()
	srv := httptest.NewServer(model)
	t.Cleanup(srv.Close)

	rec := &memRecorder{}
	cfg := config.ChatbotConfig{Name: "Ryan Griego", GitHubUsername: "ryan-griego"}
	all := append([]Option{
		WithRecorder(rec),
		WithRepoLister(&fakeRepos{repos: []github.Repository{{Name: "career-chatbot", Language: "Go"}}}),
		WithRequestOptions(option.WithMaxRetries(0)),
	}, opts...)
	bot, err := New(context.Background(), cfg, testSettings(t, srv.URL+"/v1/"), all...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bot.Close() })
	return bot, rec
}

func TestNewValidatesSettings(t *testing.T) {
	cfg := config.ChatbotConfig{Name: "Ryan Griego", GitHubUsername: "ryan-griego"}

	s := testSettings(t, "")
	s.APIKey = ""
	_, err := New(context.Background(), cfg, s, WithRepoLister(&fakeRepos{}))
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)

	s = testSettings(t, "")
	s.Interface = "carrier-pigeon"
	_, err = New(context.Background(), cfg, s, WithRepoLister(&fakeRepos{}))
	assert.ErrorIs(t, err, config.ErrUnknownInterface)
}

func TestNewBuildsSystemPromptFromSnapshot(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})

	sp := bot.SystemPrompt()
	assert.Contains(t, sp, "You are acting as Ryan Griego")
	assert.Contains(t, sp, "career-chatbot")
	assert.Equal(t, "ryan-griego", bot.Config().GitHubUsername)
}

func TestNewToleratesGitHubFailure(t *testing.T) {
	srv := httptest.NewServer(&fakeModel{})
	defer srv.Close()

	cfg := config.ChatbotConfig{Name: "Ryan Griego", GitHubUsername: "ryan-griego"}
	bot, err := New(context.Background(), cfg, testSettings(t, srv.URL+"/v1/"),
		WithRecorder(&memRecorder{}),
		WithRepoLister(&fakeRepos{err: errors.New("rate limited")}),
	)
	require.NoError(t, err)
	assert.Contains(t, bot.SystemPrompt(), "You are acting as Ryan Griego")
}

func TestNewOpensStoreWhenEnabled(t *testing.T) {
	srv := httptest.NewServer(&fakeModel{})
	defer srv.Close()

	s := testSettings(t, srv.URL+"/v1/")
	s.DBPath = filepath.Join(t.TempDir(), "leads.db")
	cfg := config.ChatbotConfig{Name: "Ryan Griego", GitHubUsername: "ryan-griego"}
	bot, err := New(context.Background(), cfg, s, WithRepoLister(&fakeRepos{}))
	require.NoError(t, err)

	require.Len(t, bot.closers, 1)
	assert.NoError(t, bot.Close())
	assert.Empty(t, bot.closers)
}

func TestReplyReturnsModelText(t *testing.T) {
	model := &fakeModel{responses: []string{textCompletion("Hi, I'm Ryan.")}}
	bot, _ := newTestBot(t, model)

	reply, err := bot.Reply(context.Background(), "s1", "  who are you?  ")
	require.NoError(t, err)
	assert.Equal(t, "Hi, I'm Ryan.", reply)

	reqs := model.captured()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gpt-test", reqs[0].Model)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "system", reqs[0].Messages[0]["role"])
	assert.Equal(t, "user", reqs[0].Messages[1]["role"])
	assert.Equal(t, "who are you?", reqs[0].Messages[1]["content"])
	assert.Len(t, reqs[0].Tools, 3)
}

func TestReplyRejectsEmptyInput(t *testing.T) {
	model := &fakeModel{}
	bot, _ := newTestBot(t, model)

	_, err := bot.Reply(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, model.captured())
}

func TestReplyRunsToolCalls(t *testing.T) {
	model := &fakeModel{responses: []string{
		toolCompletion("call_1", "record_unknown_question", `{"question":"favorite color?"}`),
		textCompletion("I've noted that question."),
	}}
	bot, rec := newTestBot(t, model)

	reply, err := bot.Reply(context.Background(), "visitor-7", "What's your favorite color?")
	require.NoError(t, err)
	assert.Equal(t, "I've noted that question.", reply)

	require.Len(t, rec.questions, 1)
	assert.Equal(t, "favorite color?", rec.questions[0].Question)
	assert.Equal(t, "visitor-7", rec.questions[0].SessionID)

	reqs := model.captured()
	require.Len(t, reqs, 2)
	msgs := reqs[1].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, "assistant", msgs[2]["role"])
	assert.Equal(t, "tool", msgs[3]["role"])
	assert.Equal(t, "call_1", msgs[3]["tool_call_id"])
	assert.Contains(t, msgs[3]["content"], `"ok":true`)
}

func TestReplyKeepsHistoryPerSession(t *testing.T) {
	model := &fakeModel{responses: []string{
		textCompletion("one"),
		textCompletion("two"),
		textCompletion("other"),
	}}
	bot, _ := newTestBot(t, model)

	_, err := bot.Reply(context.Background(), "a", "first")
	require.NoError(t, err)
	_, err = bot.Reply(context.Background(), "a", "second")
	require.NoError(t, err)
	_, err = bot.Reply(context.Background(), "b", "hello")
	require.NoError(t, err)

	reqs := model.captured()
	require.Len(t, reqs, 3)
	assert.Len(t, reqs[1].Messages, 4)
	assert.Len(t, reqs[2].Messages, 2)
	assert.Equal(t, 2, bot.SessionCount())
}

func TestReplyErrorLeavesHistoryUntouched(t *testing.T) {
	model := &fakeModel{status: http.StatusInternalServerError}
	bot, _ := newTestBot(t, model)

	_, err := bot.Reply(context.Background(), "a", "first")
	require.Error(t, err)

	model.mu.Lock()
	model.status = 0
	model.responses = []string{textCompletion("ok")}
	model.mu.Unlock()

	_, err = bot.Reply(context.Background(), "a", "second")
	require.NoError(t, err)

	reqs := model.captured()
	last := reqs[len(reqs)-1]
	require.Len(t, last.Messages, 2)
	assert.Equal(t, "second", last.Messages[1]["content"])
}

func TestReplyStopsAtMaxTurns(t *testing.T) {
	call := toolCompletion("call_x", "record_unknown_question", `{"question":"loop"}`)
	model := &fakeModel{responses: []string{call, call, call, call}}
	srv := httptest.NewServer(model)
	defer srv.Close()

	s := testSettings(t, srv.URL+"/v1/")
	s.MaxTurns = 2
	cfg := config.ChatbotConfig{Name: "Ryan Griego", GitHubUsername: "ryan-griego"}
	bot, err := New(context.Background(), cfg, s,
		WithRecorder(&memRecorder{}),
		WithRepoLister(&fakeRepos{}),
		WithRequestOptions(option.WithMaxRetries(0)),
	)
	require.NoError(t, err)

	_, err = bot.Reply(context.Background(), "a", "go")
	assert.ErrorIs(t, err, ErrMaxTurns)
	assert.Len(t, model.captured(), 2)
}

func TestReplyEmptyChoices(t *testing.T) {
	model := &fakeModel{responses: []string{
		`{"id":"x","object":"chat.completion","created":1,"model":"gpt-test","choices":[]}`,
	}}
	bot, _ := newTestBot(t, model)

	_, err := bot.Reply(context.Background(), "a", "hi")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestResetDropsHistory(t *testing.T) {
	model := &fakeModel{responses: []string{textCompletion("one"), textCompletion("two")}}
	bot, _ := newTestBot(t, model)

	_, err := bot.Reply(context.Background(), "a", "first")
	require.NoError(t, err)
	bot.Reset("a")
	_, err = bot.Reply(context.Background(), "a", "again")
	require.NoError(t, err)

	reqs := model.captured()
	assert.Len(t, reqs[1].Messages, 2)
}

func TestSessionsExpireAfterTTL(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	bot.now = func() time.Time { return now }
	bot.settings.SessionTTL = time.Minute

	_, err := bot.Reply(context.Background(), "old", "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, bot.SessionCount())

	now = now.Add(2 * time.Minute)
	_, err = bot.Reply(context.Background(), "new", "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, bot.SessionCount())

	bot.mu.Lock()
	_, ok := bot.sessions["old"]
	bot.mu.Unlock()
	assert.False(t, ok)
}

func TestEmptySessionIDUsesDefault(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})

	_, err := bot.Reply(context.Background(), "", "hi")
	require.NoError(t, err)

	bot.mu.Lock()
	_, ok := bot.sessions[DefaultSessionID]
	bot.mu.Unlock()
	assert.True(t, ok)
}

func TestLaunchInterfaceTerminal(t *testing.T) {
	model := &fakeModel{responses: []string{textCompletion("Nice to meet you.")}}
	var out bytes.Buffer
	bot, _ := newTestBot(t, model, WithTerminal(strings.NewReader("hello\n/quit\n"), &out))
	bot.settings.Interface = config.InterfaceTerminal

	require.NoError(t, bot.LaunchInterface(context.Background()))
	assert.Contains(t, out.String(), "=== Chat with Ryan Griego ===")
	assert.Contains(t, out.String(), "Nice to meet you.")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestLaunchInterfaceWebStopsOnCancel(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})
	bot.settings.Interface = config.InterfaceWeb
	bot.settings.ListenAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.LaunchInterface(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("web interface did not stop")
	}
}

func TestLaunchInterfaceUnknown(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})
	bot.settings.Interface = "fax"

	err := bot.LaunchInterface(context.Background())
	assert.ErrorIs(t, err, config.ErrUnknownInterface)
}

func TestReplyConcurrentSessions(t *testing.T) {
	bot, _ := newTestBot(t, &fakeModel{})

	const sessions, turns = 4, 5
	var wg sync.WaitGroup
	errs := make(chan error, sessions*turns)
	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("s%d", i)
		for j := 0; j < turns; j++ {
			wg.Add(1)
			go func(msg string) {
				defer wg.Done()
				if _, err := bot.Reply(context.Background(), id, msg); err != nil {
					errs <- err
				}
			}(fmt.Sprintf("message %d", j))
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, sessions, bot.SessionCount())
	for i := 0; i < sessions; i++ {
		s := bot.session(fmt.Sprintf("s%d", i))
		s.mu.Lock()
		assert.Len(t, s.history, 1+2*turns)
		s.mu.Unlock()
	}
}

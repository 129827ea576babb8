package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

// Reply processes one visitor message in the named session and returns the
// assistant's final text. History is only extended when the turn succeeds.
func (b *CareerChatbot) Reply(ctx context.Context, sessionID, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	s := b.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(append([]openai.ChatCompletionMessageParamUnion{}, s.history...), openai.UserMessage(input))
	final, err := b.runIteration(ctx, sessionID, messages, b.settings.MaxTurns)
	if err != nil {
		loggerpkg.Error(b.logger, "reply failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return "", err
	}

	s.history = append(messages, final.ToParam())
	return final.Content, nil
}

// runOnce performs one model completion request.
func (b *CareerChatbot) runOnce(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error) {
	b.debugf("[verbose] iteration: sending request")
	completion, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, ErrEmptyCompletion
	}
	return completion.Choices[0].Message, nil
}

// runIteration executes model/tool turns until the model answers without
// requesting tools.
func (b *CareerChatbot) runIteration(
	ctx context.Context,
	sessionID string,
	messages []openai.ChatCompletionMessageParamUnion,
	maxTurns int,
) (openai.ChatCompletionMessage, error) {
	current := append([]openai.ChatCompletionMessageParamUnion{}, messages...)

	for turn := 0; turn < maxTurns; turn++ {
		b.debugf("[verbose] iteration: %d/%d", turn+1, maxTurns)
		message, err := b.runOnce(ctx, b.newChatParams(current))
		if err != nil {
			return openai.ChatCompletionMessage{}, err
		}

		if len(message.ToolCalls) == 0 {
			return message, nil
		}

		// The assistant tool-call turn must precede its tool responses.
		current = append(current, message.ToParam())
		b.debugf("[verbose] iteration: assistant requested %d tool call(s)", len(message.ToolCalls))
		current = b.appendToolResponses(ctx, sessionID, current, message.ToolCalls)
	}

	return openai.ChatCompletionMessage{}, ErrMaxTurns
}

func (b *CareerChatbot) newChatParams(messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.settings.Model),
		Messages: messages,
		Tools:    b.tools.Definitions(),
	}
}

func (b *CareerChatbot) appendToolResponses(
	ctx context.Context,
	sessionID string,
	messages []openai.ChatCompletionMessageParamUnion,
	toolCalls []openai.ChatCompletionMessageToolCall,
) []openai.ChatCompletionMessageParamUnion {
	updated := messages
	for _, call := range toolCalls {
		output, err := b.tools.Execute(ctx, sessionID, call)
		if err != nil {
			output = fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error())
		}
		updated = append(updated, openai.ToolMessage(output, call.ID))
	}
	return updated
}

func (b *CareerChatbot) debugf(format string, args ...any) {
	loggerpkg.Debugf(b.verbose, b.logger, format, args...)
}

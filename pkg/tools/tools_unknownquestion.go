package tools

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

type recordUnknownQuestionTool struct {
	ctx Context
}

func (t *recordUnknownQuestionTool) name() string {
	return "record_unknown_question"
}

func (t *recordUnknownQuestionTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "record_unknown_question",
			Description: openai.String("Always use this tool to record any question that couldn't be answered as you didn't know the answer"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "The question that couldn't be answered.",
					},
				},
				"required":             []string{"question"},
				"additionalProperties": false,
			},
		},
	}
}

func (t *recordUnknownQuestionTool) execute(ctx context.Context, sessionID, argText string) (string, error) {
	var args struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		t.ctx.debugf("record_unknown_question: failed to parse arguments: %v", err)
		return marshalToolResponse(t.name(), nil, err)
	}

	q, err := t.ctx.Recorder.SaveUnknownQuestion(ctx, store.UnknownQuestion{
		SessionID: sessionID,
		Question:  args.Question,
	})
	if err != nil {
		return marshalToolResponse(t.name(), nil, err)
	}

	notified := t.ctx.notifyOwner(ctx, t.name(), "Unknown question", "Recording "+q.Question)

	result := struct {
		Recorded bool `json:"recorded"`
		Notified bool `json:"notified"`
	}{
		Recorded: true,
		Notified: notified,
	}
	return marshalToolResponse(t.name(), result, nil)
}

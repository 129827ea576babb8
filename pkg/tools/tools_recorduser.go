package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/ryan-griego/career-chatbot-go/pkg/store"
)

type recordUserDetailsTool struct {
	ctx Context
}

func (t *recordUserDetailsTool) name() string {
	return "record_user_details"
}

func (t *recordUserDetailsTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "record_user_details",
			Description: openai.String("Record that a user is interested in being in touch and provided an email address"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"description": "The email address of this user.",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "The user's name, if they provided it.",
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "Any additional information about the conversation that's worth recording to give context.",
					},
				},
				"required":             []string{"email"},
				"additionalProperties": false,
			},
		},
	}
}

func (t *recordUserDetailsTool) execute(ctx context.Context, sessionID, argText string) (string, error) {
	var args struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Notes string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		t.ctx.debugf("record_user_details: failed to parse arguments: %v", err)
		return marshalToolResponse(t.name(), nil, err)
	}

	contact, err := t.ctx.Recorder.SaveContact(ctx, store.Contact{
		SessionID: sessionID,
		Email:     args.Email,
		Name:      args.Name,
		Notes:     args.Notes,
	})
	if err != nil {
		return marshalToolResponse(t.name(), nil, err)
	}

	name := contact.Name
	if name == "" {
		name = "Name not provided"
	}
	message := fmt.Sprintf("Recording %s with email %s", name, contact.Email)
	if notes := strings.TrimSpace(contact.Notes); notes != "" {
		message += " and notes " + notes
	}
	notified := t.ctx.notifyOwner(ctx, t.name(), "New contact", message)

	result := struct {
		Recorded bool `json:"recorded"`
		Notified bool `json:"notified"`
	}{
		Recorded: true,
		Notified: notified,
	}
	return marshalToolResponse(t.name(), result, nil)
}

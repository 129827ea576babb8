package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/openai/openai-go"
	"github.com/ryan-griego/career-chatbot-go/pkg/github"
)

// maxRepositoryLimit bounds what the model may request in one call.
const maxRepositoryLimit = 30

type listRepositoriesTool struct {
	ctx Context
}

func (t *listRepositoriesTool) name() string {
	return "list_github_repositories"
}

func (t *listRepositoriesTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "list_github_repositories",
			Description: openai.String("List the most recently updated public GitHub repositories with language, description and stars"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of repositories to return (default 10, max 30).",
					},
				},
			},
		},
	}
}

func (t *listRepositoriesTool) execute(ctx context.Context, _ string, argText string) (string, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if strings.TrimSpace(argText) != "" {
		if err := json.Unmarshal([]byte(argText), &args); err != nil {
			t.ctx.debugf("list_github_repositories: failed to parse arguments: %v", err)
			return marshalToolResponse(t.name(), nil, err)
		}
	}
	if args.Limit <= 0 {
		args.Limit = github.DefaultRepositoryLimit
	}
	if args.Limit > maxRepositoryLimit {
		args.Limit = maxRepositoryLimit
	}

	repos, err := t.ctx.Repos.ListRepositories(ctx, t.ctx.GitHubUsername, args.Limit)
	if err != nil {
		return marshalToolResponse(t.name(), nil, err)
	}

	result := struct {
		Username     string              `json:"username"`
		Repositories []github.Repository `json:"repositories"`
	}{
		Username:     t.ctx.GitHubUsername,
		Repositories: repos,
	}
	return marshalToolResponse(t.name(), result, nil)
}

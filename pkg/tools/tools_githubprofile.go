package tools

import (
	"context"

	"github.com/openai/openai-go"
)

type githubProfileTool struct {
	ctx   Context
	users UserFetcher
}

func (t *githubProfileTool) name() string {
	return "get_github_profile"
}

func (t *githubProfileTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "get_github_profile",
			Description: openai.String("Get the public GitHub profile: bio, company, location, blog, follower and repository counts"),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// execute ignores its arguments; the username is fixed by configuration.
func (t *githubProfileTool) execute(ctx context.Context, _ string, _ string) (string, error) {
	user, err := t.users.FetchUser(ctx, t.ctx.GitHubUsername)
	if err != nil {
		return marshalToolResponse(t.name(), nil, err)
	}
	return marshalToolResponse(t.name(), user, nil)
}

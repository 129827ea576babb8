// Package prompt assembles the system prompt for career conversations.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
	"github.com/ryan-griego/career-chatbot-go/pkg/github"
	"github.com/ryan-griego/career-chatbot-go/pkg/profile"
)

// BuildSystemPrompt constructs the system prompt, including profile and GitHub context.
func BuildSystemPrompt(cfg config.ChatbotConfig, p profile.Profile, repos []github.Repository) string {
	name := sanitize(cfg.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are acting as %s. You are answering questions on %s's website, ", name, name)
	fmt.Fprintf(&sb, "particularly questions related to %s's career, background, skills, projects and experience. ", name)
	fmt.Fprintf(&sb, "Represent %s faithfully, be professional and engaging, as if talking to a potential client or future employer.", name)

	sb.WriteString("\n\n## Rules")
	sb.WriteString("\n- Answer only from the context below. Do not invent employers, dates, or projects.")
	sb.WriteString("\n- If you don't know the answer, call record_unknown_question with the question, even if it is trivial or unrelated to career.")
	sb.WriteString("\n- If the user is engaging in discussion, steer them towards getting in touch by email; ask for their email and record it with record_user_details.")
	fmt.Fprintf(&sb, "\n- Use list_github_repositories for up-to-date details on %s's public code (GitHub user %s).", name, sanitize(cfg.GitHubUsername))
	sb.WriteString("\n- Use get_github_profile when asked about the public GitHub profile itself, such as bio or follower counts.")
	sb.WriteString("\n- Reply in Markdown.")

	sb.WriteString("\n\n")
	sb.WriteString(p.Markdown())

	sb.WriteString("\n\n")
	sb.WriteString(github.SnapshotMarkdown(sanitize(cfg.GitHubUsername), repos))

	fmt.Fprintf(&sb, "\n\nWith this context, please chat with the user, always staying in character as %s.", name)
	return strings.TrimSpace(sb.String())
}

// sanitize keeps identity fields single-line and trimmed.
func sanitize(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.TrimSpace(value)
}

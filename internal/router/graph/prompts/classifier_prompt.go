package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/support-router-poc/server/internal/router/model"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

// RenderClassifierSystem renders the intent-classifier system prompt via the
// Eino prompt component. This triggers Prompt callbacks and returns the final
// system prompt string carrying the full taxonomy and disambiguation rules.
func RenderClassifierSystem(ctx context.Context, cfg *model.PromptConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("prompt config is nil")
	}

	// Safely render known tokens only, leaving the label lines untouched
	content := strings.NewReplacer(
		"{business_name}", cfg.BusinessName,
		"{business_type}", cfg.BusinessType,
	).Replace(classifierSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("classifier prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("classifier prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}

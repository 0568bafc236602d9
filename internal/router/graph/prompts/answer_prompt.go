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

//go:embed template/answer_prompt.txt
var answerSystemPrompt string

// RenderAnswerSystem renders the grounded-answer system prompt and triggers
// prompt callbacks. The grounding context is injected verbatim; when retrieval
// found nothing (or failed and degraded), it is the no-content sentinel and
// the model is expected to answer that the information is not available.
func RenderAnswerSystem(ctx context.Context, cfg model.PromptConfig, grounding string) (string, error) {
	if strings.TrimSpace(grounding) == "" {
		// callers degrade to the sentinel before reaching this point
		grounding = model.NoContentSentinel
	}

	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(answerSystemPrompt),
	)
	vars := map[string]any{
		"BusinessType": cfg.BusinessType,
		"BusinessName": cfg.BusinessName,
		"Context":      grounding,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("answer prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("answer prompt render: empty result")
	}
	return msgs[0].Content, nil
}

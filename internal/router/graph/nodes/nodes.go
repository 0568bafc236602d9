package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/support-router-poc/server/internal/router/graph/parsers"
	"github.com/support-router-poc/server/internal/router/graph/prompts"
	"github.com/support-router-poc/server/internal/router/model"
	logx "github.com/support-router-poc/server/pkg/logger"
)

// Graph node keys.
const (
	NodeInputConverter   = "InputConverter"
	NodeIntentClassifier = "IntentClassifier"
	NodeIntentParser     = "IntentParser"
	NodeOrderRoute       = "OrderRoute"
	NodeGeneralRoute     = "GeneralRoute"
	NodeAbuseRoute       = "AbuseRoute"
	NodeFallbackRoute    = "FallbackRoute"
	NodeContextRetriever = "ContextRetriever"
	NodeAnswerAssembler  = "AnswerAssembler"
	NodeAnswerGenerator  = "AnswerGenerator"
)

// NewInputConverterPreHandler creates the pre-handler for the InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		// Seed per-request state. The query is immutable from here on.
		s.Query = in.Query
		s.RawLabel = ""
		s.Intent = ""
		s.Grounding = ""
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode creates the InputConverter node that prepares the
// classifier messages: the fixed taxonomy prompt plus the raw user query.
func NewInputConverterNode(promptCfg *model.PromptConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		systemPrompt, err := prompts.RenderClassifierSystem(ctx, promptCfg)
		if err != nil {
			return nil, fmt.Errorf("render classifier system prompt: %w", err)
		}

		messages := []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(input.Query),
		}

		return messages, nil
	})
}

// NewIntentClassifierPostHandler records the untrusted raw label and computes
// usage cost for the classifier model.
func NewIntentClassifierPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out != nil {
			state.RawLabel = out.Content
		}
		accumulateUsageCost(out, state, NodeIntentClassifier, modelName)
		return out, nil
	}
}

// NewIntentParserNode creates the IntentParser node. It validates the raw
// classifier output against the closed taxonomy. An off-taxonomy label is not
// an error: it routes to the fallback branch, with no second classification
// attempt.
func NewIntentParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.Intent, error) {
		if resp == nil {
			logx.Warn().Msg("Classifier returned no message - routing to fallback")
			return model.IntentUnrecognized, nil
		}

		intent, err := parsers.ParseIntent(resp.Content)
		if err != nil {
			logx.Warn().
				Str("raw_label", safeSnippet(resp.Content)).
				Msg("Classifier label outside taxonomy - routing to fallback")
			return model.IntentUnrecognized, nil
		}
		return intent, nil
	})
}

// NewIntentParserPostHandler creates the post-handler for the IntentParser node
func NewIntentParserPostHandler() func(context.Context, model.Intent, *model.AppState) (model.Intent, error) {
	return func(ctx context.Context, out model.Intent, state *model.AppState) (model.Intent, error) {
		state.Intent = out
		logx.Debug().
			Str("intent", out.String()).
			Str("raw_label", safeSnippet(state.RawLabel)).
			Msg("Intent classified")
		return out, nil
	}
}

// NewRouteCondition creates the condition function selecting the terminal
// route for a validated intent. Abuse and unrecognized queries must never
// reach the retriever or the paid generation capability.
func NewRouteCondition() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, intent model.Intent) (string, error) {
		switch intent {
		case model.IntentOrderStatus:
			return NodeOrderRoute, nil
		case model.IntentProductInfo:
			return NodeContextRetriever, nil
		case model.IntentGeneralInquiry:
			return NodeGeneralRoute, nil
		case model.IntentProbableAbuse:
			logx.Warn().Msg("Probable abuse detected - rejecting without further processing")
			return NodeAbuseRoute, nil
		default:
			return NodeFallbackRoute, nil
		}
	}
}

// NewOrderRouteNode produces the order-status routing decision. Order
// fulfillment itself is a stub; the template identifies the query as handed
// off to order handling.
func NewOrderRouteNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (*schema.Message, error) {
		query, err := queryFromState(ctx)
		if err != nil {
			return nil, err
		}
		return schema.AssistantMessage(OrderRouteMessage(query), nil), nil
	})
}

// NewGeneralRouteNode produces the general-inquiry routing decision.
func NewGeneralRouteNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (*schema.Message, error) {
		query, err := queryFromState(ctx)
		if err != nil {
			return nil, err
		}
		return schema.AssistantMessage(GeneralRouteMessage(query), nil), nil
	})
}

// NewAbuseRouteNode produces the abuse rejection.
func NewAbuseRouteNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (*schema.Message, error) {
		return schema.AssistantMessage(AbuseMessage, nil), nil
	})
}

// NewFallbackRouteNode produces the fixed could-not-determine-intent answer.
func NewFallbackRouteNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (*schema.Message, error) {
		return schema.AssistantMessage(FallbackMessage, nil), nil
	})
}

// NewContextRetrieverNode creates the ContextRetriever node: the first stage
// of the content-answering pipeline. A capability failure here is intentional
// degraded mode, not a bug: the error is logged and swallowed, and generation
// still runs grounded to the no-content sentinel so the shopper gets an
// honest "I don't have that information" style answer.
func NewContextRetrieverNode(retriever model.ContextRetriever, topK int, timeout time.Duration) *compose.Lambda {
	topK = normalizeTopK(topK)
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (string, error) {
		query, err := queryFromState(ctx)
		if err != nil {
			return "", err
		}

		retrieveCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			retrieveCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		passages, err := retriever.Retrieve(retrieveCtx, query, topK)
		if err != nil {
			logx.Error().Err(err).Int("top_k", topK).
				Msg("Context retrieval failed - degrading to no-content sentinel")
			return model.NoContentSentinel, nil
		}

		grounding := model.JoinPassages(passages)
		logx.Debug().Int("passages", len(passages)).Msg("Grounding context assembled")
		return grounding, nil
	})
}

// NewContextRetrieverPostHandler creates the post-handler for the ContextRetriever node
func NewContextRetrieverPostHandler() func(context.Context, string, *model.AppState) (string, error) {
	return func(ctx context.Context, out string, state *model.AppState) (string, error) {
		state.Grounding = out
		return out, nil
	}
}

// NewAnswerAssemblerNode creates the AnswerAssembler node: it builds the
// generator messages from the grounding context and the original query. The
// generator is constrained to the supplied context only.
func NewAnswerAssemblerNode(promptCfg *model.PromptConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, grounding string) ([]*schema.Message, error) {
		query, err := queryFromState(ctx)
		if err != nil {
			return nil, err
		}

		systemPrompt, err := prompts.RenderAnswerSystem(ctx, *promptCfg, grounding)
		if err != nil {
			return nil, fmt.Errorf("render answer system prompt: %w", err)
		}

		messages := []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(query),
		}

		return messages, nil
	})
}

// NewAnswerGeneratorPostHandler computes usage cost for the generator model.
func NewAnswerGeneratorPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		accumulateUsageCost(out, state, NodeAnswerGenerator, modelName)
		return out, nil
	}
}

// accumulateUsageCost converts token usage on a model response to USD, logs
// it, and accumulates the running total in per-request state.
func accumulateUsageCost(out *schema.Message, state *model.AppState, node, modelName string) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}

	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
		"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}
	logx.Debug().
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	state.TotalCostUSD += totalC
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
}

// queryFromState reads the original query out of graph-local state.
func queryFromState(ctx context.Context) (string, error) {
	var query string
	err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
		if state.Query == "" {
			return fmt.Errorf("missing query in state")
		}
		query = state.Query
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to access state: %w", err)
	}
	return query, nil
}

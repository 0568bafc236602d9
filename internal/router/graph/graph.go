package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/support-router-poc/server/internal/core/error"
	"github.com/support-router-poc/server/internal/router/graph/nodes"
	"github.com/support-router-poc/server/internal/router/graph/observers"
	"github.com/support-router-poc/server/internal/router/model"
	logx "github.com/support-router-poc/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full triage graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// Gemini chat models.
type Config struct {
	Client            *genai.Client
	Classifier        model.ClassifierModelConfig
	Generator         model.GeneratorModelConfig
	Prompt            model.PromptConfig
	Retriever         model.ContextRetriever
	TopK              int
	CapabilityTimeout time.Duration
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	Retriever       model.ContextRetriever
	PromptConfig    *model.PromptConfig
	TopK            int
	RetrieveTimeout time.Duration
}

// GraphBuilder handles the construction of the triage graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		Query: in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		// Capability failures past the retrieval stage have no safe fallback;
		// surface them with a status the delivery layer can map directly.
		var appErr *errx.Error
		if errors.As(err, &appErr) {
			return "", err
		}
		return "", errx.New(err, http.StatusBadGateway, errx.GenerationErrorMessage)
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// BuildTriageGraph composes the chat models, builds the graph, and returns a Runner.
func BuildTriageGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("context retriever is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		Client:        cfg.Client,
		ClassifierCfg: &cfg.Classifier,
		GeneratorCfg:  &cfg.Generator,
		CallTimeout:   cfg.CapabilityTimeout,
	})
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		Retriever:       cfg.Retriever,
		PromptConfig:    &cfg.Prompt,
		TopK:            cfg.TopK,
		RetrieveTimeout: cfg.CapabilityTimeout,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Triage graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled triage graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Classifier == nil || config.ChatModels.Generator == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Retriever == nil {
		return nil, fmt.Errorf("context retriever is nil")
	}
	if config.PromptConfig == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.PromptConfig),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeIntentClassifier,
		b.config.ChatModels.Classifier,
		compose.WithStatePostHandler(nodes.NewIntentClassifierPostHandler(b.config.ChatModels.ClassifierModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeIntentParser,
		nodes.NewIntentParserNode(),
		compose.WithStatePostHandler(nodes.NewIntentParserPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeOrderRoute, nodes.NewOrderRouteNode())
	b.graph.AddLambdaNode(nodes.NodeGeneralRoute, nodes.NewGeneralRouteNode())
	b.graph.AddLambdaNode(nodes.NodeAbuseRoute, nodes.NewAbuseRouteNode())
	b.graph.AddLambdaNode(nodes.NodeFallbackRoute, nodes.NewFallbackRouteNode())

	b.graph.AddLambdaNode(nodes.NodeContextRetriever,
		nodes.NewContextRetrieverNode(b.config.Retriever, b.config.TopK, b.config.RetrieveTimeout),
		compose.WithStatePostHandler(nodes.NewContextRetrieverPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeAnswerAssembler,
		nodes.NewAnswerAssemblerNode(b.config.PromptConfig),
	)

	b.graph.AddChatModelNode(nodes.NodeAnswerGenerator,
		b.config.ChatModels.Generator,
		compose.WithStatePostHandler(nodes.NewAnswerGeneratorPostHandler(b.config.ChatModels.GeneratorModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeIntentClassifier},
		{nodes.NodeIntentClassifier, nodes.NodeIntentParser},
		{nodes.NodeOrderRoute, compose.END},
		{nodes.NodeGeneralRoute, compose.END},
		{nodes.NodeAbuseRoute, compose.END},
		{nodes.NodeFallbackRoute, compose.END},
		{nodes.NodeContextRetriever, nodes.NodeAnswerAssembler},
		{nodes.NodeAnswerAssembler, nodes.NodeAnswerGenerator},
		{nodes.NodeAnswerGenerator, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the five-way routing branch on the validated intent
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeOrderRoute:       true,
			nodes.NodeContextRetriever: true,
			nodes.NodeGeneralRoute:     true,
			nodes.NodeAbuseRoute:       true,
			nodes.NodeFallbackRoute:    true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeIntentParser, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// One linear classify -> (retrieve -> generate) chain; a small step cap
	// still guards against accidental cycles.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/support-router-poc/server/internal/router/model"
	logx "github.com/support-router-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	Client        *genai.Client
	ClassifierCfg *model.ClassifierModelConfig
	GeneratorCfg  *model.GeneratorModelConfig
	CallTimeout   time.Duration
}

// ChatModels holds both the intent-classifier and answer-generator models.
// The fields are interfaces so tests can substitute deterministic fakes.
type ChatModels struct {
	Classifier          einomodel.BaseChatModel
	Generator           einomodel.BaseChatModel
	ClassifierModelName string
	GeneratorModelName  string
}

// NewChatModels creates both chat models with the given configuration. The
// classifier runs at low variance; the generator is slightly more creative.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}

	classifier, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.ClassifierCfg.Model,
		Temperature: &config.ClassifierCfg.Temperature,
		MaxTokens:   &config.ClassifierCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	generator, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.GeneratorCfg.Model,
		Temperature: &config.GeneratorCfg.Temperature,
		MaxTokens:   &config.GeneratorCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating generator model")
		return nil, fmt.Errorf("error creating generator model: %w", err)
	}

	return &ChatModels{
		Classifier:          WithCallTimeout(classifier, config.CallTimeout),
		Generator:           WithCallTimeout(generator, config.CallTimeout),
		ClassifierModelName: config.ClassifierCfg.Model,
		GeneratorModelName:  config.GeneratorCfg.Model,
	}, nil
}

// WithCallTimeout bounds every Generate call on the wrapped model with the
// given timeout. A zero or negative timeout leaves the model untouched.
// Stream is passed through unchanged: the deadline would cancel the reader
// before consumption, and the router never streams.
func WithCallTimeout(m einomodel.BaseChatModel, d time.Duration) einomodel.BaseChatModel {
	if d <= 0 {
		return m
	}
	return &timeoutChatModel{inner: m, timeout: d}
}

type timeoutChatModel struct {
	inner   einomodel.BaseChatModel
	timeout time.Duration
}

func (t *timeoutChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, input, opts...)
}

func (t *timeoutChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return t.inner.Stream(ctx, input, opts...)
}

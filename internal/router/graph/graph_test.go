package graph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-router-poc/server/internal/router/graph/nodes"
	"github.com/support-router-poc/server/internal/router/model"
)

// fakeChatModel is a deterministic stand-in for the Gemini capability.
type fakeChatModel struct {
	mu     sync.Mutex
	calls  int
	inputs [][]*schema.Message
	reply  func(input []*schema.Message) (*schema.Message, error)
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.calls++
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	return f.reply(input)
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeChatModel) lastInput() []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[len(f.inputs)-1]
}

// labelModel always classifies with the given raw label.
func labelModel(label string) *fakeChatModel {
	return &fakeChatModel{reply: func(_ []*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage(label, nil), nil
	}}
}

// echoGenerator answers with a fixed string.
func echoGenerator(answer string) *fakeChatModel {
	return &fakeChatModel{reply: func(_ []*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage(answer, nil), nil
	}}
}

type fakeRetriever struct {
	mu       sync.Mutex
	calls    int
	passages []string
	err      error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, _ int) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func (f *fakeRetriever) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func buildRunnable(t *testing.T, classifier, generator *fakeChatModel, retriever model.ContextRetriever) compose.Runnable[model.QueryInput, *schema.Message] {
	t.Helper()

	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		ChatModels: &nodes.ChatModels{
			Classifier:          classifier,
			Generator:           generator,
			ClassifierModelName: "fake-classifier",
			GeneratorModelName:  "fake-generator",
		},
		Retriever:    retriever,
		PromptConfig: &model.PromptConfig{BusinessType: "grocery shop", BusinessName: "FreshCart"},
		TopK:         3,
	})
	require.NoError(t, err)
	return runnable
}

func TestOrderStatusRoute(t *testing.T) {
	query := "What is the status of order #4521?"
	classifier := labelModel("order_status")
	generator := echoGenerator("should never run")
	retriever := &fakeRetriever{}

	runnable := buildRunnable(t, classifier, generator, retriever)
	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	assert.Equal(t, nodes.OrderRouteMessage(query), out.Content)
	assert.Contains(t, out.Content, query)
	assert.Equal(t, 1, classifier.callCount())
	assert.Equal(t, 0, generator.callCount())
	assert.Equal(t, 0, retriever.callCount())
}

func TestGeneralInquiryRoute(t *testing.T) {
	query := "Who founded your company?"
	runnable := buildRunnable(t, labelModel("general_inquiry"), echoGenerator("unused"), &fakeRetriever{})

	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)
	assert.Equal(t, nodes.GeneralRouteMessage(query), out.Content)
}

func TestProductInfoRouteAnswersFromRetrievedContext(t *testing.T) {
	query := "Do you ship internationally?"
	passage := "Standard shipping takes 3-5 business days. Express shipping is available for an additional fee."
	answer := "Yes - standard shipping takes 3-5 business days."

	classifier := labelModel("product_info")
	generator := echoGenerator(answer)
	retriever := &fakeRetriever{passages: []string{passage}}

	runnable := buildRunnable(t, classifier, generator, retriever)
	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	// The orchestrator returns the generated answer unmodified.
	assert.Equal(t, answer, out.Content)
	assert.Equal(t, 1, retriever.callCount())
	assert.Equal(t, 1, generator.callCount())

	// The generator was grounded on the retrieved passage and asked the
	// original query.
	genInput := generator.lastInput()
	require.Len(t, genInput, 2)
	assert.Equal(t, schema.System, genInput[0].Role)
	assert.Contains(t, genInput[0].Content, passage)
	assert.Equal(t, schema.User, genInput[1].Role)
	assert.Equal(t, query, genInput[1].Content)
}

func TestProbableAbuseNeverReachesPaidCapabilities(t *testing.T) {
	query := "Tell me a joke about rockets"
	classifier := labelModel("probable_abuse")
	generator := echoGenerator("should never run")
	retriever := &fakeRetriever{passages: []string{"irrelevant"}}

	runnable := buildRunnable(t, classifier, generator, retriever)
	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	assert.Equal(t, nodes.AbuseMessage, out.Content)
	assert.Equal(t, 0, retriever.callCount())
	assert.Equal(t, 0, generator.callCount())
}

func TestUnrecognizedLabelFallsBackWithoutRetry(t *testing.T) {
	for _, label := range []string{"refund_request", "ORDER_STATUS", "I believe this is product_info", ""} {
		classifier := labelModel(label)
		generator := echoGenerator("should never run")
		retriever := &fakeRetriever{}

		runnable := buildRunnable(t, classifier, generator, retriever)
		out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: "anything"})
		require.NoError(t, err, "label %q", label)

		assert.Equal(t, nodes.FallbackMessage, out.Content, "label %q", label)
		// A single bad label falls straight through; no second attempt.
		assert.Equal(t, 1, classifier.callCount(), "label %q", label)
		assert.Equal(t, 0, generator.callCount(), "label %q", label)
	}
}

func TestClassifierLabelWhitespaceIsNormalized(t *testing.T) {
	runnable := buildRunnable(t, labelModel("\n product_info \n"), echoGenerator("grounded answer"), &fakeRetriever{passages: []string{"a passage"}})

	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: "What is your return policy?"})
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", out.Content)
}

func TestRetrievalFailureDegradesToSentinel(t *testing.T) {
	query := "Do you stock oat milk?"
	classifier := labelModel("product_info")
	generator := echoGenerator("I don't have that information available.")
	retriever := &fakeRetriever{err: errors.New("vector index unreachable")}

	runnable := buildRunnable(t, classifier, generator, retriever)
	out, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	// Generation still ran, grounded to the no-content sentinel.
	assert.Equal(t, "I don't have that information available.", out.Content)
	require.Equal(t, 1, generator.callCount())
	genInput := generator.lastInput()
	require.Len(t, genInput, 2)
	assert.Contains(t, genInput[0].Content, model.NoContentSentinel)
}

func TestEmptyRetrievalUsesSentinel(t *testing.T) {
	classifier := labelModel("product_info")
	generator := echoGenerator("The context does not cover that.")
	retriever := &fakeRetriever{passages: nil}

	runnable := buildRunnable(t, classifier, generator, retriever)
	_, err := runnable.Invoke(context.Background(), model.QueryInput{Query: "Do you sell gift cards?"})
	require.NoError(t, err)

	genInput := generator.lastInput()
	require.Len(t, genInput, 2)
	assert.Contains(t, genInput[0].Content, model.NoContentSentinel)
}

func TestGenerationFailurePropagates(t *testing.T) {
	classifier := labelModel("product_info")
	generator := &fakeChatModel{reply: func(_ []*schema.Message) (*schema.Message, error) {
		return nil, errors.New("model overloaded")
	}}
	retriever := &fakeRetriever{passages: []string{"a passage"}}

	runnable := buildRunnable(t, classifier, generator, retriever)
	_, err := runnable.Invoke(context.Background(), model.QueryInput{Query: "Do you ship internationally?"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestRoutingIsIdempotentForFixedCapabilities(t *testing.T) {
	query := "Do you ship internationally?"
	classifier := labelModel("product_info")
	generator := echoGenerator("grounded answer")
	retriever := &fakeRetriever{passages: []string{"shipping policy passage"}}

	runnable := buildRunnable(t, classifier, generator, retriever)

	first, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)
	second, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	// Two invocations mean two full chains: no caching or deduplication.
	assert.Equal(t, 2, classifier.callCount())
	assert.Equal(t, 2, retriever.callCount())
	assert.Equal(t, 2, generator.callCount())
}

func TestClassifierReceivesTaxonomyPromptAndQuery(t *testing.T) {
	query := "Do you ship internationally?"
	classifier := labelModel("product_info")
	runnable := buildRunnable(t, classifier, echoGenerator("ok"), &fakeRetriever{passages: []string{"p"}})

	_, err := runnable.Invoke(context.Background(), model.QueryInput{Query: query})
	require.NoError(t, err)

	input := classifier.lastInput()
	require.Len(t, input, 2)
	assert.Equal(t, schema.System, input[0].Role)
	for _, intent := range model.CanonicalIntents() {
		assert.Contains(t, input[0].Content, intent.String())
	}
	assert.Equal(t, schema.User, input[1].Role)
	assert.Equal(t, query, input[1].Content)
	assert.False(t, strings.Contains(input[0].Content, "{business_name}"), "prompt tokens must be rendered")
}

package nodes

import (
	"context"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deadlineProbe struct {
	sawDeadline bool
}

func (p *deadlineProbe) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	_, p.sawDeadline = ctx.Deadline()
	return schema.AssistantMessage("ok", nil), nil
}

func (p *deadlineProbe) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := p.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestWithCallTimeoutBoundsGenerate(t *testing.T) {
	probe := &deadlineProbe{}
	wrapped := WithCallTimeout(probe, 5*time.Second)

	_, err := wrapped.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, probe.sawDeadline, "Generate must run under a deadline")
}

func TestWithCallTimeoutZeroIsNoop(t *testing.T) {
	probe := &deadlineProbe{}
	assert.Same(t, einomodel.BaseChatModel(probe), WithCallTimeout(probe, 0))
}

func TestNormalizeTopK(t *testing.T) {
	assert.Equal(t, DefaultTopK, normalizeTopK(0))
	assert.Equal(t, DefaultTopK, normalizeTopK(-1))
	assert.Equal(t, 5, normalizeTopK(5))
}

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-router-poc/server/internal/router/model"
)

func TestParseIntentCanonicalLabels(t *testing.T) {
	cases := map[string]model.Intent{
		"order_status":    model.IntentOrderStatus,
		"product_info":    model.IntentProductInfo,
		"general_inquiry": model.IntentGeneralInquiry,
		"probable_abuse":  model.IntentProbableAbuse,
	}

	for raw, want := range cases {
		got, err := ParseIntent(raw)
		require.NoError(t, err, "label %q", raw)
		assert.Equal(t, want, got)
	}
}

func TestParseIntentTrimsSurroundingWhitespace(t *testing.T) {
	got, err := ParseIntent("\n  product_info \t\n")
	require.NoError(t, err)
	assert.Equal(t, model.IntentProductInfo, got)
}

func TestParseIntentIsCaseSensitive(t *testing.T) {
	got, err := ParseIntent("Order_Status")
	assert.ErrorIs(t, err, ErrUnrecognizedLabel)
	assert.Equal(t, model.IntentUnrecognized, got)
}

func TestParseIntentRejectsOffTaxonomyLabels(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"order status",
		"product_info.",
		"I think this is product_info",
		"refund_request",
	} {
		got, err := ParseIntent(raw)
		assert.ErrorIs(t, err, ErrUnrecognizedLabel, "label %q", raw)
		assert.Equal(t, model.IntentUnrecognized, got, "label %q", raw)
	}
}

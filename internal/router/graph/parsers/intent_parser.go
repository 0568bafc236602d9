package parsers

import (
	"errors"
	"strings"

	"github.com/support-router-poc/server/internal/router/model"
)

// ErrUnrecognizedLabel reports that the classifier emitted a label outside the
// canonical taxonomy. Callers treat it as a routing branch, never as a crash.
var ErrUnrecognizedLabel = errors.New("unrecognized intent label")

// ParseIntent validates the raw classifier output against the closed intent
// enumeration. The raw text is untrusted: the model may hallucinate arbitrary
// strings, so matching is exact and case-sensitive after trimming surrounding
// whitespace at the boundary. Anything outside the four canonical labels
// returns (IntentUnrecognized, ErrUnrecognizedLabel).
func ParseIntent(raw string) (model.Intent, error) {
	switch model.Intent(strings.TrimSpace(raw)) {
	case model.IntentOrderStatus:
		return model.IntentOrderStatus, nil
	case model.IntentProductInfo:
		return model.IntentProductInfo, nil
	case model.IntentGeneralInquiry:
		return model.IntentGeneralInquiry, nil
	case model.IntentProbableAbuse:
		return model.IntentProbableAbuse, nil
	default:
		return model.IntentUnrecognized, ErrUnrecognizedLabel
	}
}

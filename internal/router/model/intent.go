package model

// Intent is the canonical category assigned to a user query by the intent
// classifier. It is a closed enumeration: values are produced only by
// parsers.ParseIntent and never constructed from raw model output elsewhere.
type Intent string

const (
	IntentOrderStatus    Intent = "order_status"
	IntentProductInfo    Intent = "product_info"
	IntentGeneralInquiry Intent = "general_inquiry"
	IntentProbableAbuse  Intent = "probable_abuse"

	// IntentUnrecognized is the guard against classifier drift: any raw label
	// outside the four canonical ones routes here. It is a routing outcome,
	// not a member of the taxonomy sent to the model.
	IntentUnrecognized Intent = "unrecognized"
)

// CanonicalIntents lists the labels the classifier is allowed to emit, in the
// order they appear in the classifier prompt.
func CanonicalIntents() []Intent {
	return []Intent{
		IntentOrderStatus,
		IntentProductInfo,
		IntentGeneralInquiry,
		IntentProbableAbuse,
	}
}

// String returns the string representation of the intent.
func (i Intent) String() string {
	return string(i)
}

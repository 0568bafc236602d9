package nodes

import "fmt"

// Deterministic routing decisions for the non-content intents. These are the
// final user-facing strings: order fulfillment and general handling are stubs
// today, future external collaborators.
const (
	// FallbackMessage answers any query whose classifier label fell outside
	// the canonical taxonomy.
	FallbackMessage = "We could not confidently determine the intent of your request. " +
		"Please try rephrasing your question, or contact our support team directly."

	// AbuseMessage flags a query as probable abuse. No further processing
	// happens after it: the query never reaches retrieval or generation.
	AbuseMessage = "This request appears to be unrelated to our shop or an attempt to misuse this service. " +
		"It has been flagged and will not be processed."
)

// OrderRouteMessage identifies the query as routed to order-status handling.
func OrderRouteMessage(query string) string {
	return fmt.Sprintf(
		"Thanks for reaching out about your order. Your question \"%s\" has been routed to our order-status team, "+
			"and you will receive an update with the latest tracking details shortly.",
		query,
	)
}

// GeneralRouteMessage identifies the query as routed to general handling.
func GeneralRouteMessage(query string) string {
	return fmt.Sprintf(
		"Thanks for your interest in our shop. Your question \"%s\" has been routed to our general support team, "+
			"and someone will get back to you soon.",
		query,
	)
}

package model

// AppState stores per-request state for the Eino triage graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Every request owns its own AppState exclusively; nothing survives the
//     request or is shared across concurrent queries.
type AppState struct {
	Query     string // original user query, set once by the input converter
	RawLabel  string // untrusted classifier output, kept for logging
	Intent    Intent // validated routing decision, set by the parser post-handler
	Grounding string // retrieved context handed to the answer generator

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for routing a user query.
type QueryInput struct {
	Query string `json:"query"`
}

package model

// ================ Config ================
type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"256"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type GeneratorModelConfig struct {
	Model       string  `envconfig:"GENERATOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"GENERATOR_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"GENERATOR_TEMPERATURE" default:"0.3"`
}

type PromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"grocery shop"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"FreshCart"`
}

type CapabilityConfig struct {
	// Timeout bounds every outbound capability call (classification,
	// retrieval, generation) uniformly. A timed-out call surfaces through the
	// capability's normal failure path, never as a hang.
	Timeout string `envconfig:"CAPABILITY_TIMEOUT" default:"30s"`
}

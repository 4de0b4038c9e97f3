package model

// ================ Config ================
type ConversationConfig struct {
	TTL   string `envconfig:"CONVERSATION_TTL" default:"30m"`
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"5"`
	}
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.0"`
}

type ResponsePromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"JurisLens"`
	Domain        string `envconfig:"PROMPT_DOMAIN" default:"financial compliance"`
}

// RetrievalConfig configures the remote vector index and embedding provider.
// An empty embedding API key disables the remote backend entirely; the
// regulation search tool then serves local keyword matches only.
type RetrievalConfig struct {
	EmbeddingAPIKey  string `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL string `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel   string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	Dimensions       int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	IndexName        string `envconfig:"RETRIEVAL_INDEX" default:"jurislens_docs"`
	TimeoutSeconds   int    `envconfig:"RETRIEVAL_TIMEOUT_SECONDS" default:"5"`
}

// ComplianceConfig tunes the simulated ledger and sanctions registry.
// Latencies model remote round-trips and are context aware, so a cancelled
// turn abandons the lookup immediately.
type ComplianceConfig struct {
	LedgerLatencyMS    int `envconfig:"LEDGER_LATENCY_MS" default:"1000"`
	SanctionsLatencyMS int `envconfig:"SANCTIONS_LATENCY_MS" default:"1200"`
	LookupTimeoutMS    int `envconfig:"COMPLIANCE_LOOKUP_TIMEOUT_MS" default:"2000"`
}

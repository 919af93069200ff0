package transcriber

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqAdapter returns an OpenAIAdapter pointed at Groq's Whisper API.
func NewGroqAdapter(config Config) *OpenAIAdapter {
	if config.BaseURL == "" {
		config.BaseURL = groqBaseURL
	}
	a := NewOpenAIAdapter(config)
	a.name = "groq"
	return a
}

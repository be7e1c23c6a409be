package transcribe

// Exports for testing.

var ClassifyOpenAIError = classifyOpenAIError

package port

// TokenCounter measures text in generation-model input units.
type TokenCounter interface {
	CountTokens(text string) int
}

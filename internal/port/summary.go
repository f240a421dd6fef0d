package port

// SummaryStore looks up a precomputed summary by resource key.
// A missing resource returns ok=false and no error.
type SummaryStore interface {
	Lookup(key string) (text string, ok bool, err error)
}

package port

import "docqa/internal/domain"

// Index runs a query string against one field of the full-text index.
type Index interface {
	Search(field, query string, limit int) ([]domain.Hit, error)
}

// IndexStore is the storage behind Index.
type IndexStore interface {
	GetDoc(id string) (domain.Document, error)

	GetDocMeta(id string) (domain.Document, error)

	DeleteDoc(id string) error

	ListDocs() ([]domain.Document, error)

	GetPostings(field, term string) ([]domain.Posting, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	BatchIndex(files []IndexedFile) error

	Close() error
}

// IndexedFile is a document plus its term frequencies, keyed by field then term.
type IndexedFile struct {
	Doc      domain.Document
	Postings map[string]map[string]int
}

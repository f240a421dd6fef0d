package memstore

import (
	"fmt"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/port"
)

var _ port.IndexStore = (*MemoryStore)(nil)

// MemoryStore is an in-process IndexStore.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]domain.Document
	postings map[string]map[string][]domain.Posting // field -> term -> postings
	stats    domain.Stats
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]domain.Document),
		postings: make(map[string]map[string][]domain.Posting),
	}
}

func (s *MemoryStore) GetDoc(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Document{}, domain.ErrIndexUnavailable
	}
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return doc, nil
}

func (s *MemoryStore) GetDocMeta(id string) (domain.Document, error) {
	doc, err := s.GetDoc(id)
	doc.Content = ""
	return doc, err
}

func (s *MemoryStore) DeleteDoc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
	return nil
}

func (s *MemoryStore) deleteLocked(id string) {
	delete(s.docs, id)
	for _, byTerm := range s.postings {
		for term, postings := range byTerm {
			filtered := postings[:0:0]
			for _, p := range postings {
				if p.DocID != id {
					filtered = append(filtered, p)
				}
			}
			if len(filtered) == 0 {
				delete(byTerm, term)
			} else {
				byTerm[term] = filtered
			}
		}
	}
}

func (s *MemoryStore) ListDocs() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		doc.Content = ""
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) GetPostings(field, term string) ([]domain.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrIndexUnavailable
	}
	return s.postings[field][term], nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Stats{}, domain.ErrIndexUnavailable
	}
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

func (s *MemoryStore) BatchIndex(files []port.IndexedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range files {
		if _, exists := s.docs[file.Doc.ID]; exists {
			s.deleteLocked(file.Doc.ID)
		}
		s.docs[file.Doc.ID] = file.Doc

		for field, tfs := range file.Postings {
			if s.postings[field] == nil {
				s.postings[field] = make(map[string][]domain.Posting)
			}
			for term, tf := range tfs {
				s.postings[field][term] = append(s.postings[field][term], domain.Posting{
					DocID: file.Doc.ID,
					TF:    tf,
				})
			}
		}
	}

	return nil
}

// Close marks the store unavailable; later reads fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

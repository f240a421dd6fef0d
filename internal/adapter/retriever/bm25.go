package retriever

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"docqa/internal/adapter/query"
	"docqa/internal/domain"
	"docqa/internal/port"
)

var _ port.Index = (*FieldSearcher)(nil)

// FieldSearcher evaluates query trees against the per-field postings of an
// IndexStore and ranks documents with BM25. It only reads from the store.
type FieldSearcher struct {
	store port.IndexStore
	k1    float64
	b     float64
}

func NewFieldSearcher(store port.IndexStore, k1, b float64) *FieldSearcher {
	return &FieldSearcher{
		store: store,
		k1:    k1,
		b:     b,
	}
}

// Search parses q, runs it with field as the default field and returns at
// most limit hits, best first. Hits carry content only when field is the
// content field. An empty query returns no hits.
func (r *FieldSearcher) Search(field, q string, limit int) ([]domain.Hit, error) {
	if field != domain.FieldTitle && field != domain.FieldContent {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	node, err := query.Parse(q)
	if errors.Is(err, query.ErrEmptyQuery) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", q, err)
	}

	stats, err := r.store.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to read index stats: %w", err)
	}

	ev := &evaluation{
		searcher: r,
		stats:    stats,
		metas:    make(map[string]domain.Document),
	}
	scores, err := ev.eval(node, field)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.Hit, 0, len(scores))
	ids := make(map[string]string, len(scores))
	for docID, score := range scores {
		meta, err := ev.meta(docID)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.Hit{Path: meta.Path, Title: meta.Title, Score: score})
		ids[meta.Path] = docID
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Path < hits[j].Path
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	if field == domain.FieldContent {
		for i := range hits {
			doc, err := r.store.GetDoc(ids[hits[i].Path])
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", hits[i].Path, err)
			}
			hits[i].Content = doc.Content
		}
	}

	return hits, nil
}

// evaluation caches document metadata for the duration of one search.
type evaluation struct {
	searcher *FieldSearcher
	stats    domain.Stats
	metas    map[string]domain.Document
}

func (e *evaluation) meta(docID string) (domain.Document, error) {
	if m, ok := e.metas[docID]; ok {
		return m, nil
	}
	m, err := e.searcher.store.GetDocMeta(docID)
	if err != nil {
		return m, err
	}
	e.metas[docID] = m
	return m, nil
}

func (e *evaluation) eval(n query.Node, field string) (map[string]float64, error) {
	switch v := n.(type) {
	case query.TermNode:
		f := v.Field
		if f == "" {
			f = field
		}
		return e.term(f, v.Text)

	case query.AndNode:
		var acc map[string]float64
		for i, c := range v.Clauses {
			scores, err := e.eval(c, field)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				acc = scores
				continue
			}
			for id, s := range acc {
				if cs, ok := scores[id]; ok {
					acc[id] = s + cs
				} else {
					delete(acc, id)
				}
			}
			if len(acc) == 0 {
				return acc, nil
			}
		}
		return acc, nil

	case query.OrNode:
		acc := make(map[string]float64)
		for _, c := range v.Clauses {
			scores, err := e.eval(c, field)
			if err != nil {
				return nil, err
			}
			for id, s := range scores {
				acc[id] += s
			}
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unsupported query node %T", n)
}

func (e *evaluation) term(field, text string) (map[string]float64, error) {
	text = strings.ToLower(text)
	postings, err := e.searcher.store.GetPostings(field, text)
	if err != nil {
		return nil, fmt.Errorf("failed to read postings for %s:%s: %w", field, text, err)
	}

	scores := make(map[string]float64, len(postings))
	if len(postings) == 0 {
		return scores, nil
	}

	fs := e.stats.Fields[field]
	N := float64(fs.TotalDocs)
	if N < float64(len(postings)) {
		N = float64(len(postings))
	}
	n := float64(len(postings))
	idf := math.Log((N-n+0.5)/(n+0.5) + 1)

	avgDl := fs.AvgLen
	if avgDl <= 0 {
		avgDl = 1
	}

	k1, b := e.searcher.k1, e.searcher.b
	for _, p := range postings {
		meta, err := e.meta(p.DocID)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dl := float64(meta.FieldLengths[field])
		tf := float64(p.TF)
		scores[p.DocID] = idf * (tf * (k1 + 1)) / (tf + k1*(1-b+b*dl/avgDl))
	}
	return scores, nil
}

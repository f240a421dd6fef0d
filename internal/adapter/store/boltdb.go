package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"docqa/internal/domain"
	"docqa/internal/port"
)

var (
	bucketDocs     = []byte("docs")
	bucketBlobs    = []byte("blobs")
	bucketDocTerms = []byte("doc_terms")
	bucketStats    = []byte("stats")
	keyStats       = []byte("corpus_stats")
)

// termBuckets holds one posting bucket per indexed field.
var termBuckets = map[string][]byte{
	domain.FieldTitle:   []byte("title_terms"),
	domain.FieldContent: []byte("content_terms"),
}

var _ port.IndexStore = (*BoltStore)(nil)

type BoltStore struct {
	db *bbolt.DB
}

func allBuckets() [][]byte {
	buckets := [][]byte{bucketDocs, bucketBlobs, bucketDocTerms, bucketStats}
	for _, b := range termBuckets {
		buckets = append(buckets, b)
	}
	return buckets
}

// NewBoltStore opens (or creates) a writable index.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// OpenReadOnly opens an existing index for searching. Read-only handles share
// the file with other readers. A missing or incomplete index is reported as
// domain.ErrIndexUnavailable.
func OpenReadOnly(path string) (*BoltStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIndexUnavailable, path, err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIndexUnavailable, path, err)
	}

	err = db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets() {
			if tx.Bucket(b) == nil {
				return fmt.Errorf("missing bucket %s", b)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIndexUnavailable, path, err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type docMeta struct {
	Path         string         `json:"path"`
	Title        string         `json:"title"`
	ModTime      int64          `json:"mod_time"`
	FieldLengths map[string]int `json:"field_lengths"`
}

func (m docMeta) toDocument(id string) domain.Document {
	return domain.Document{
		ID:           id,
		Path:         m.Path,
		Title:        m.Title,
		ModTime:      time.Unix(m.ModTime, 0),
		FieldLengths: m.FieldLengths,
	}
}

// view wraps read transactions so that closed or damaged databases surface as
// domain.ErrIndexUnavailable.
func (s *BoltStore) view(fn func(tx *bbolt.Tx) error) error {
	err := s.db.View(fn)
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	return err
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.view(func(tx *bbolt.Tx) error {
		meta, err := readMeta(tx, id)
		if err != nil {
			return err
		}
		doc = meta.toDocument(id)
		doc.Content = string(tx.Bucket(bucketBlobs).Get([]byte(id)))
		return nil
	})
	return doc, err
}

// GetDocMeta is GetDoc without the content blob.
func (s *BoltStore) GetDocMeta(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.view(func(tx *bbolt.Tx) error {
		meta, err := readMeta(tx, id)
		if err != nil {
			return err
		}
		doc = meta.toDocument(id)
		return nil
	})
	return doc, err
}

func readMeta(tx *bbolt.Tx, id string) (docMeta, error) {
	var meta docMeta
	data := tx.Bucket(bucketDocs).Get([]byte(id))
	if data == nil {
		return meta, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: corrupt document %s: %v", domain.ErrIndexUnavailable, id, err)
	}
	return meta, nil
}

// DeleteDoc removes a document, its content and its postings.
func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteDoc(tx, id)
	})
}

func deleteDoc(tx *bbolt.Tx, id string) error {
	key := []byte(id)
	docTerms := tx.Bucket(bucketDocTerms)
	if data := docTerms.Get(key); data != nil {
		var terms map[string][]string
		if err := json.Unmarshal(data, &terms); err != nil {
			return err
		}
		for field, fieldTerms := range terms {
			b := tx.Bucket(termBuckets[field])
			if b == nil {
				continue
			}
			if err := removePostings(b, id, fieldTerms); err != nil {
				return err
			}
		}
		if err := docTerms.Delete(key); err != nil {
			return err
		}
	}
	if err := tx.Bucket(bucketBlobs).Delete(key); err != nil {
		return err
	}
	return tx.Bucket(bucketDocs).Delete(key)
}

func removePostings(b *bbolt.Bucket, docID string, terms []string) error {
	for _, term := range terms {
		data := b.Get([]byte(term))
		if data == nil {
			continue
		}
		var postings []domain.Posting
		if err := json.Unmarshal(data, &postings); err != nil {
			continue
		}

		filtered := make([]domain.Posting, 0, len(postings))
		for _, p := range postings {
			if p.DocID != docID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			if err := b.Delete([]byte(term)); err != nil {
				return err
			}
			continue
		}
		data, err := json.Marshal(filtered)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(term), data); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, meta.toDocument(string(k)))
			return nil
		})
	})
	return docs, err
}

func (s *BoltStore) GetPostings(field, term string) ([]domain.Posting, error) {
	name, ok := termBuckets[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	var postings []domain.Posting
	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(name).Get([]byte(term))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &postings)
	})
	return postings, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// BatchIndex writes documents and their postings in one transaction.
// A document that already exists is replaced.
func (s *BoltStore) BatchIndex(files []port.IndexedFile) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		docsBucket := tx.Bucket(bucketDocs)
		blobsBucket := tx.Bucket(bucketBlobs)
		docTermsBucket := tx.Bucket(bucketDocTerms)

		allPostings := make(map[string]map[string][]domain.Posting)

		for _, file := range files {
			id := []byte(file.Doc.ID)
			if docsBucket.Get(id) != nil {
				if err := deleteDoc(tx, file.Doc.ID); err != nil {
					return err
				}
			}

			meta := docMeta{
				Path:         file.Doc.Path,
				Title:        file.Doc.Title,
				ModTime:      file.Doc.ModTime.Unix(),
				FieldLengths: file.Doc.FieldLengths,
			}
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := docsBucket.Put(id, data); err != nil {
				return err
			}
			if err := blobsBucket.Put(id, []byte(file.Doc.Content)); err != nil {
				return err
			}

			terms := make(map[string][]string, len(file.Postings))
			for field, tfs := range file.Postings {
				if _, ok := termBuckets[field]; !ok {
					return fmt.Errorf("unknown field %q", field)
				}
				if allPostings[field] == nil {
					allPostings[field] = make(map[string][]domain.Posting)
				}
				for term, tf := range tfs {
					allPostings[field][term] = append(allPostings[field][term], domain.Posting{
						DocID: file.Doc.ID,
						TF:    tf,
					})
					terms[field] = append(terms[field], term)
				}
			}
			termsData, err := json.Marshal(terms)
			if err != nil {
				return err
			}
			if err := docTermsBucket.Put(id, termsData); err != nil {
				return err
			}
		}

		for field, byTerm := range allPostings {
			b := tx.Bucket(termBuckets[field])
			for term, newPostings := range byTerm {
				var existing []domain.Posting
				if data := b.Get([]byte(term)); data != nil {
					json.Unmarshal(data, &existing)
				}
				existing = append(existing, newPostings...)
				data, err := json.Marshal(existing)
				if err != nil {
					return err
				}
				if err := b.Put([]byte(term), data); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"docqa/internal/adapter/analyzer"
	"docqa/internal/domain"
	"docqa/internal/port"
)

const indexBatchSize = 64

// IndexUseCase builds and incrementally updates the title/content index.
type IndexUseCase struct {
	store     port.IndexStore
	walker    port.FileWalker
	extractor port.TextExtractor
	segmenter port.Segmenter
	workers   int
	logger    *slog.Logger
}

func NewIndexUseCase(
	store port.IndexStore,
	walker port.FileWalker,
	extractor port.TextExtractor,
	segmenter port.Segmenter,
	workers int,
	logger *slog.Logger,
) *IndexUseCase {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexUseCase{
		store:     store,
		walker:    walker,
		extractor: extractor,
		segmenter: segmenter,
		workers:   workers,
		logger:    logger.With("component", "index"),
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	Errors       []string
}

// ProgressFunc is called after each file that needed extraction.
type ProgressFunc func(done, total int)

// Index indexes the files under root. Unchanged files are skipped, files
// that disappeared are removed, and files whose text cannot be extracted are
// reported in the result and left out of the index.
func (u *IndexUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}
	existing := make(map[string]domain.Document, len(existingDocs))
	for _, doc := range existingDocs {
		existing[doc.Path] = doc
	}

	seen := make(map[string]bool, len(files))
	var pending []port.FileInfo
	for _, f := range files {
		seen[f.Path] = true
		if doc, ok := existing[f.Path]; ok && doc.ModTime.Unix() >= f.ModTime {
			result.FilesSkipped++
			continue
		}
		pending = append(pending, f)
	}

	for path, doc := range existing {
		if seen[path] {
			continue
		}
		if err := u.store.DeleteDoc(doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	indexed, failed, err := u.extractAll(pending, progress)
	if err != nil {
		return nil, err
	}
	for _, f := range failed {
		result.Errors = append(result.Errors, f.msg)
		if doc, ok := existing[f.path]; ok {
			if err := u.store.DeleteDoc(doc.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete stale %s: %v", f.path, err))
			}
		}
	}

	for start := 0; start < len(indexed); start += indexBatchSize {
		end := min(start+indexBatchSize, len(indexed))
		if err := u.store.BatchIndex(indexed[start:end]); err != nil {
			return nil, fmt.Errorf("failed to write index batch: %w", err)
		}
	}
	result.FilesIndexed = len(indexed)

	if err := u.updateStats(); err != nil {
		return nil, err
	}

	u.logger.Info("index updated",
		"root", root,
		"indexed", result.FilesIndexed,
		"skipped", result.FilesSkipped,
		"deleted", result.FilesDeleted,
		"errors", len(result.Errors))
	return result, nil
}

type extractFailure struct {
	path string
	msg  string
}

// extractAll extracts and segments files on a worker pool. The returned
// documents are sorted by path.
func (u *IndexUseCase) extractAll(files []port.FileInfo, progress ProgressFunc) ([]port.IndexedFile, []extractFailure, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	pool, err := ants.NewPool(u.workers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		indexed []port.IndexedFile
		failed  []extractFailure
		done    int
	)

	finish := func(f *port.IndexedFile, fail *extractFailure) {
		mu.Lock()
		defer mu.Unlock()
		if f != nil {
			indexed = append(indexed, *f)
		}
		if fail != nil {
			failed = append(failed, *fail)
		}
		done++
		if progress != nil {
			progress(done, len(files))
		}
	}

	for _, file := range files {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			f, err := u.buildFile(file)
			if err != nil {
				u.logger.Error("extraction failed", "path", file.Path, "err", err)
				finish(nil, &extractFailure{path: file.Path, msg: fmt.Sprintf("failed to index %s: %v", file.Path, err)})
				return
			}
			finish(&f, nil)
		})
		if err != nil {
			wg.Done()
			finish(nil, &extractFailure{path: file.Path, msg: fmt.Sprintf("failed to schedule %s: %v", file.Path, err)})
		}
	}
	wg.Wait()

	sort.Slice(indexed, func(i, j int) bool { return indexed[i].Doc.Path < indexed[j].Doc.Path })
	sort.Slice(failed, func(i, j int) bool { return failed[i].path < failed[j].path })
	return indexed, failed, nil
}

// buildFile extracts one file and segments its title and content.
func (u *IndexUseCase) buildFile(file port.FileInfo) (port.IndexedFile, error) {
	text, err := u.extractor.Extract(file.Path)
	if err != nil {
		return port.IndexedFile{}, err
	}
	if strings.TrimSpace(text) == "" {
		return port.IndexedFile{}, fmt.Errorf("no text extracted")
	}

	title := filepath.Base(file.Path)
	titleTokens := u.segmenter.Segment(title)
	contentTokens := u.segmenter.Segment(text)

	return port.IndexedFile{
		Doc: domain.Document{
			ID:      generateDocID(file.Path),
			Path:    file.Path,
			Title:   title,
			Content: text,
			ModTime: time.Unix(file.ModTime, 0),
			FieldLengths: map[string]int{
				domain.FieldTitle:   len(titleTokens),
				domain.FieldContent: len(contentTokens),
			},
		},
		Postings: map[string]map[string]int{
			domain.FieldTitle:   analyzer.TermFrequencies(titleTokens),
			domain.FieldContent: analyzer.TermFrequencies(contentTokens),
		},
	}, nil
}

// updateStats recomputes per-field document counts and average lengths.
func (u *IndexUseCase) updateStats() error {
	docs, err := u.store.ListDocs()
	if err != nil {
		return fmt.Errorf("failed to list docs for stats: %w", err)
	}

	stats := domain.Stats{
		TotalDocs: len(docs),
		Fields:    make(map[string]domain.FieldStats, 2),
	}
	for _, field := range []string{domain.FieldTitle, domain.FieldContent} {
		total := 0
		for _, d := range docs {
			total += d.FieldLengths[field]
		}
		fs := domain.FieldStats{TotalDocs: len(docs)}
		if len(docs) > 0 {
			fs.AvgLen = float64(total) / float64(len(docs))
		}
		stats.Fields[field] = fs
	}

	if err := u.store.UpdateStats(stats); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// generateDocID creates a stable ID for a document from its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

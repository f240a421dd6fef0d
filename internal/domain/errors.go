package domain

import "errors"

var (
	// ErrEmptyQuestion means no keyword survived stopword filtering.
	ErrEmptyQuestion = errors.New("question has no searchable keywords")

	// ErrIndexUnavailable means the index is missing, closed or corrupt.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrSummaryLookup means a summary resource exists but could not be read.
	ErrSummaryLookup = errors.New("summary lookup failed")

	// ErrNoRelevantContent means the assembled context is empty.
	ErrNoRelevantContent = errors.New("no relevant content found")

	ErrDocumentNotFound = errors.New("document not found")
)

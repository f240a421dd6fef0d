package cli

import (
	"fmt"

	"docqa/config"
	"docqa/internal/adapter/analyzer"
	"docqa/internal/adapter/llm"
	"docqa/internal/adapter/retriever"
	"docqa/internal/adapter/store"
	"docqa/internal/adapter/summary"
	"docqa/internal/port"
	"docqa/internal/usecase"
)

// pipeline holds the dependencies of one retrieval process. The index is
// opened read-only so several processes can search it at once.
type pipeline struct {
	store    *store.BoltStore
	retrieve *usecase.RetrieveUseCase
	pack     *usecase.PackUseCase
	titles   *usecase.TitleMatcher
	contents *usecase.ContentMatcher
}

func openPipeline(cfg *config.Config, root string) (*pipeline, error) {
	st, err := store.OpenReadOnly(config.IndexDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("%w (run 'docqa index' first)", err)
	}

	seg, err := analyzer.NewSegmenter(analyzer.SegmenterOptions{
		DictFiles: cfg.Segmenter.DictFiles,
		HMM:       cfg.Segmenter.HMM,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	searcher := retriever.NewFieldSearcher(st, cfg.Index.K1, cfg.Index.B)

	titles := usecase.NewTitleMatcher(searcher, seg, usecase.TitleMatcherOptions{
		PlaceTags:      cfg.Segmenter.PlaceTags,
		Stopwords:      cfg.Segmenter.Stopwords,
		ScoreThreshold: cfg.Retrieve.TitleScoreThreshold,
	}, logger)
	summaries := usecase.NewSummaryLookup(summary.NewDirStore(cfg.SummaryDir(root)), usecase.SummaryLookupOptions{
		ScoreThreshold: cfg.Summary.ScoreThreshold,
		StripSuffixes:  cfg.Summary.StripSuffixes,
		Suffix:         cfg.Summary.Suffix,
	}, logger)
	contents := usecase.NewContentMatcher(searcher, seg, logger)
	paragraphs := usecase.NewParagraphRanker(seg, cfg.Retrieve.MinParagraphLength)

	return &pipeline{
		store:    st,
		retrieve: usecase.NewRetrieveUseCase(titles, summaries, contents, paragraphs, logger),
		pack:     usecase.NewPackUseCase(newTokenCounter(cfg), logger),
		titles:   titles,
		contents: contents,
	}, nil
}

func (p *pipeline) answerer(cfg *config.Config) (*usecase.AnswerUseCase, error) {
	gen, err := llm.New(cfg.Generator, logger)
	if err != nil {
		return nil, err
	}
	return usecase.NewAnswerUseCase(p.retrieve, p.pack, gen, answerOptions(cfg), logger), nil
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

func answerOptions(cfg *config.Config) usecase.AnswerOptions {
	return usecase.AnswerOptions{
		NumResults:         cfg.Retrieve.ContentTopK,
		ParagraphThreshold: cfg.Retrieve.ParagraphThreshold,
		MaxContextTokens:   cfg.Pack.MaxContextTokens,
	}
}

func newTokenCounter(cfg *config.Config) port.TokenCounter {
	if cfg.Pack.Tokenizer == "approx" {
		return analyzer.NewApproxCounter()
	}
	return analyzer.NewTiktokenCounter(cfg.Pack.TokenizerModel)
}

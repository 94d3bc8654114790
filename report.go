package inksight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Report bundles the results of every analyzer for one text. A result is nil
// when its analyzer failed or was not run.
type Report struct {
	Stats     *TextStats       `json:"stats,omitempty"`
	Keyness   *KeynessResult   `json:"keyness,omitempty"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
}

// Analyzer runs the word-frequency, keyness and sentiment analyzers over a
// single shared tokenization.
type Analyzer struct {
	WordFrequency *WordFrequencyAnalyzer
	Keyness       *KeynessEngine
	Sentiment     *SentimentAnalyzer
}

// NewAnalyzer returns an Analyzer with default analyzers reading corpora from
// store.
func NewAnalyzer(store *CorpusStore) *Analyzer {
	return &Analyzer{
		WordFrequency: NewWordFrequencyAnalyzer(DefaultTopWords),
		Keyness:       NewKeynessEngine(store, DefaultKeynessConfig()),
		Sentiment:     NewSentimentAnalyzer(DefaultSentimentConfig(), nil),
	}
}

// Report tokenizes text once and runs the analyzers concurrently. Keyness is
// skipped when corpusName is empty. Failures of individual analyzers are
// joined into the returned error while the other results are still reported.
func (a *Analyzer) Report(ctx context.Context, text, corpusName string, opts ...DocOpt) (*Report, error) {
	doc, err := NewDocument(text, append([]DocOpt{WithContext(ctx)}, opts...)...)
	if err != nil {
		return nil, err
	}

	var (
		report Report
		wg     sync.WaitGroup
	)
	// Each stage owns one error slot so the joined error has a stable order.
	// The capacity covers every stage, so slots never move.
	errs := make([]error, 0, 3)
	run := func(stage string, fn func() error) {
		errs = append(errs, nil)
		slot := &errs[len(errs)-1]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				*slot = fmt.Errorf("%s: %w", stage, err)
			}
		}()
	}

	run("stats", func() error {
		report.Stats = a.WordFrequency.AnalyzeDocument(doc)
		return nil
	})
	if corpusName != "" {
		run("keyness", func() (err error) {
			report.Keyness, err = a.Keyness.ComputeDocument(ctx, doc, corpusName)
			return err
		})
	}
	run("sentiment", func() (err error) {
		report.Sentiment, err = a.Sentiment.AnalyzeDocument(ctx, doc)
		return err
	})
	wg.Wait()

	return &report, errors.Join(errs...)
}

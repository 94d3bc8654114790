package inksight

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when a text normalizes to zero words.
	ErrEmptyText = errors.New("inksight: text contains no words")

	// ErrInvalidCorpus is the generic failure for an unresolvable corpus name.
	ErrInvalidCorpus = errors.New("inksight: invalid corpus")

	// ErrUnknownCorpus is returned for names outside the enumerated corpora.
	ErrUnknownCorpus = fmt.Errorf("%w: unknown corpus", ErrInvalidCorpus)

	// ErrCorpusLoad is returned when corpus data is missing or corrupt.
	ErrCorpusLoad = errors.New("inksight: corpus load failed")

	// ErrAnalysisFailed marks failures inside the engine, as opposed to
	// problems with the caller's input.
	ErrAnalysisFailed = errors.New("inksight: analysis failed")
)

// CorpusError reports a failure to resolve or load a named corpus.
type CorpusError struct {
	Name string
	Kind error // ErrUnknownCorpus or ErrCorpusLoad
	Err  error // underlying cause, may be nil
}

func (e *CorpusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%v: %q: %v", e.Kind, e.Name, e.Err)
}

// Is reports whether target is the error kind of e.
func (e *CorpusError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *CorpusError) Unwrap() error { return e.Err }

func unknownCorpus(name string) error {
	return &CorpusError{Name: name, Kind: ErrUnknownCorpus}
}

func corpusLoadError(name string, err error) error {
	return &CorpusError{Name: name, Kind: ErrCorpusLoad, Err: err}
}

// AnalysisFailedError reports a malformed or truncated analyzer result.
type AnalysisFailedError struct {
	Stage string // analyzer that produced the payload
	Err   error
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrAnalysisFailed, e.Stage, e.Err)
}

func (e *AnalysisFailedError) Is(target error) bool { return target == ErrAnalysisFailed }

func (e *AnalysisFailedError) Unwrap() error { return e.Err }

// IsInputError reports whether err was caused by the caller's input (an
// empty text or an unknown corpus name) rather than by an engine failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyText) || errors.Is(err, ErrInvalidCorpus)
}

package inksight

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xetters/inksight/data"
)

var corpora = []CorpusInfo{
	{
		Name:        "brown",
		DisplayName: "Brown Corpus",
		Description: "Balanced corpus of American English across multiple genres",
	},
	{
		Name:        "gutenberg",
		DisplayName: "Project Gutenberg",
		Description: "Classic literature from 19th and early 20th century",
	},
	{
		Name:        "reuters",
		DisplayName: "Reuters Corpus",
		Description: "Newswire articles from Reuters",
	},
	{
		Name:        "inaugural",
		DisplayName: "Inaugural Addresses Corpus",
		Description: "U.S. Presidential inaugural addresses",
	},
}

// Corpora lists the available reference corpora in a fixed order.
func Corpora() []CorpusInfo {
	out := make([]CorpusInfo, len(corpora))
	copy(out, corpora)
	return out
}

// lookupCorpus resolves a corpus name, ignoring case and surrounding space.
func lookupCorpus(name string) (CorpusInfo, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, info := range corpora {
		if info.Name == name {
			return info, true
		}
	}
	return CorpusInfo{}, false
}

// A ReferenceCorpus is a loaded, immutable reference corpus.
type ReferenceCorpus struct {
	Info    CorpusInfo
	Version string

	table *FrequencyTable
}

// Frequencies returns the corpus word frequencies. For a truncated table
// these cover only the listed words.
func (c *ReferenceCorpus) Frequencies() *FrequencyTable {
	return c.table
}

// Size returns the token count of the full corpus, which is Info.TotalWords.
func (c *ReferenceCorpus) Size() int {
	return c.Info.TotalWords
}

type corpusEntry struct {
	done   chan struct{}
	corpus *ReferenceCorpus
	err    error
}

// CorpusStore loads reference corpora from a CorpusSource and caches each one
// for the life of the store. Concurrent first loads of a name share a single
// read of the source. A failed load is not cached.
type CorpusStore struct {
	source CorpusSource

	mu      sync.Mutex
	entries map[string]*corpusEntry
}

// NewCorpusStore creates a store backed by source.
func NewCorpusStore(source CorpusSource) *CorpusStore {
	return &CorpusStore{
		source:  source,
		entries: make(map[string]*corpusEntry),
	}
}

var (
	defaultStore     *CorpusStore
	defaultStoreOnce sync.Once
)

// DefaultCorpusStore returns the process-wide store over the tables embedded
// from data/corpora. Loads fail with ErrCorpusLoad for corpora that have no
// embedded table.
func DefaultCorpusStore() *CorpusStore {
	defaultStoreOnce.Do(func() {
		defaultStore = NewCorpusStore(NewFSSource(data.Corpora, data.CorporaDir))
	})
	return defaultStore
}

// Load returns the named corpus, reading it from the source on first use.
// Unknown names fail with ErrUnknownCorpus and unreadable or corrupt data
// with ErrCorpusLoad.
func (s *CorpusStore) Load(ctx context.Context, name string) (*ReferenceCorpus, error) {
	info, ok := lookupCorpus(name)
	if !ok {
		return nil, unknownCorpus(name)
	}

	s.mu.Lock()
	e, ok := s.entries[info.Name]
	if !ok {
		e = &corpusEntry{done: make(chan struct{})}
		s.entries[info.Name] = e
		// Detached so one caller's cancellation does not fail the others.
		go s.fill(context.WithoutCancel(ctx), e, info)
	}
	s.mu.Unlock()

	select {
	case <-e.done:
		return e.corpus, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Loaded reports whether name is cached. Names resolve as in Load.
func (s *CorpusStore) Loaded(name string) bool {
	info, ok := lookupCorpus(name)
	if !ok {
		return false
	}
	s.mu.Lock()
	e, ok := s.entries[info.Name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}

func (s *CorpusStore) fill(ctx context.Context, e *corpusEntry, info CorpusInfo) {
	defer close(e.done)

	start := time.Now()
	table, err := s.source.LoadTable(ctx, info.Name)
	if err == nil {
		err = checkTable(table)
	}
	if err != nil {
		slog.Warn("corpus load failed", "corpus", info.Name, "error", err)
		e.err = corpusLoadError(info.Name, err)
		s.mu.Lock()
		if s.entries[info.Name] == e {
			delete(s.entries, info.Name)
		}
		s.mu.Unlock()
		return
	}

	info.TotalWords = table.Size()
	e.corpus = &ReferenceCorpus{Info: info, Version: table.Version, table: table.Frequencies}
	slog.Debug("corpus loaded",
		"corpus", info.Name,
		"version", table.Version,
		"words", info.TotalWords,
		"listed", table.Frequencies.Total(),
		"vocabulary", table.Frequencies.Len(),
		"elapsed", time.Since(start))
}

var errEmptyTable = errors.New("corpus table is empty")

func checkTable(table *CorpusTable) error {
	if table == nil || table.Frequencies == nil || table.Frequencies.Total() == 0 {
		return errEmptyTable
	}
	if err := table.Frequencies.Validate(); err != nil {
		return err
	}
	return table.checkTotal()
}

package inksight

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat/distuv"
)

// KeywordStat is the keyness of one word relative to a reference corpus.
type KeywordStat struct {
	Word         string       `json:"word"`
	UserFreq     int          `json:"user_freq"`
	CorpusFreq   float64      `json:"corpus_freq"`  // corpus count scaled to the user text size
	CorpusCount  int          `json:"corpus_count"` // raw corpus count
	EffectSize   float64      `json:"effect_size"`
	LLScore      float64      `json:"ll_score"`
	PValue       float64      `json:"p_value"`
	Significance Significance `json:"significance"`
}

// KeynessResult is the outcome of comparing a text against a corpus.
type KeynessResult struct {
	Corpus              CorpusInfo    `json:"corpus"`
	TotalWords          int           `json:"total_words"`
	UniqueWords         int           `json:"unique_words"`
	SignificantKeywords int           `json:"significant_keywords"`
	Keywords            []KeywordStat `json:"keywords"`
}

// OverRepresented returns the keywords used more often than in the corpus,
// strongest first.
func (r *KeynessResult) OverRepresented() []KeywordStat {
	var out []KeywordStat
	for _, kw := range r.Keywords {
		if kw.EffectSize > 0 {
			out = append(out, kw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EffectSize > out[j].EffectSize })
	return out
}

// UnderRepresented returns the keywords used less often than in the corpus,
// strongest first.
func (r *KeynessResult) UnderRepresented() []KeywordStat {
	var out []KeywordStat
	for _, kw := range r.Keywords {
		if kw.EffectSize < 0 {
			out = append(out, kw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EffectSize < out[j].EffectSize })
	return out
}

// KeynessConfig configures keyness computation.
type KeynessConfig struct {
	// SignificantOnly drops words below the p < 0.05 band.
	SignificantOnly bool
	// MaxCorpusVocabulary limits corpus-only candidates to the most frequent
	// corpus words. Zero compares the full union of both vocabularies.
	MaxCorpusVocabulary int
	// MinWordLength ignores shorter user words.
	MinWordLength int
}

// DefaultKeynessConfig returns the standard configuration: every word of
// either vocabulary is scored and reported.
func DefaultKeynessConfig() KeynessConfig {
	return KeynessConfig{MinWordLength: 1}
}

// KeynessEngine compares texts against reference corpora.
type KeynessEngine struct {
	store  *CorpusStore
	config KeynessConfig
}

// NewKeynessEngine creates an engine reading corpora from store, or from the
// default store when store is nil.
func NewKeynessEngine(store *CorpusStore, config KeynessConfig) *KeynessEngine {
	if store == nil {
		store = DefaultCorpusStore()
	}
	return &KeynessEngine{store: store, config: config}
}

// ComputeKeyness compares text against the named corpus of the default store
// with the default configuration.
func ComputeKeyness(ctx context.Context, text, corpusName string) (*KeynessResult, error) {
	return NewKeynessEngine(DefaultCorpusStore(), DefaultKeynessConfig()).Compute(ctx, text, corpusName)
}

// Compute tokenizes text and compares it against the named corpus.
func (k *KeynessEngine) Compute(ctx context.Context, text, corpusName string) (*KeynessResult, error) {
	doc, err := NewDocument(text, WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return k.ComputeDocument(ctx, doc, corpusName)
}

// ComputeDocument compares an already tokenized document against the named
// corpus. Keywords are ordered by descending log-likelihood, ties by word.
func (k *KeynessEngine) ComputeDocument(ctx context.Context, doc *Document, corpusName string) (*KeynessResult, error) {
	if _, ok := lookupCorpus(corpusName); !ok {
		return nil, unknownCorpus(corpusName)
	}

	user := doc.Frequencies()
	if k.config.MinWordLength > 1 {
		user = filterShortWords(doc.Tokens(), k.config.MinWordLength)
	}
	if user.Total() == 0 {
		return nil, ErrEmptyText
	}

	corpus, err := k.store.Load(ctx, corpusName)
	if err != nil {
		return nil, err
	}
	ref := corpus.Frequencies()

	candidates := user.Words()
	if k.config.MaxCorpusVocabulary > 0 {
		for _, wc := range ref.MostCommon(k.config.MaxCorpusVocabulary) {
			if user.Count(wc.Word) == 0 {
				candidates = append(candidates, wc.Word)
			}
		}
	} else {
		for _, w := range ref.Words() {
			if user.Count(w) == 0 {
				candidates = append(candidates, w)
			}
		}
	}

	n1, n2 := float64(user.Total()), float64(corpus.Size())
	chi2 := distuv.ChiSquared{K: 1}
	result := &KeynessResult{
		Corpus:      corpus.Info,
		TotalWords:  user.Total(),
		UniqueWords: user.Len(),
		Keywords:    make([]KeywordStat, 0, len(candidates)),
	}

	for i, word := range candidates {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		a, b := float64(user.Count(word)), float64(ref.Count(word))
		ll := round(math.Max(0, logLikelihood(a, b, n1-a, n2-b)), 4)
		sig := SignificanceOf(ll)
		if k.config.SignificantOnly && sig == NotSignificant {
			continue
		}
		if sig != NotSignificant {
			result.SignificantKeywords++
		}
		result.Keywords = append(result.Keywords, KeywordStat{
			Word:         word,
			UserFreq:     int(a),
			CorpusFreq:   round(b/n2*n1, 2),
			CorpusCount:  int(b),
			EffectSize:   round(effectSizeLogRatio(a, b, n1-a, n2-b), 4),
			LLScore:      ll,
			PValue:       chi2.Survival(ll),
			Significance: sig,
		})
	}

	sort.Slice(result.Keywords, func(i, j int) bool {
		ki, kj := result.Keywords[i], result.Keywords[j]
		if ki.LLScore != kj.LLScore {
			return ki.LLScore > kj.LLScore
		}
		return ki.Word < kj.Word
	})
	return result, nil
}

func filterShortWords(tokens []Token, minLen int) *FrequencyTable {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok.Text) >= minLen {
			words = append(words, tok.Text)
		}
	}
	return NewFrequencyTable(words)
}

// logLikelihood calculates log-likelihood (G²) for a 2x2 contingency table.
//
// a: frequency of the word in the user text
// b: frequency of the word in the reference corpus
// c: user text size - a
// d: reference corpus size - b
func logLikelihood(a, b, c, d float64) float64 {
	E1 := (a + c) * (a + b) / (a + b + c + d)
	E2 := (b + d) * (a + b) / (a + b + c + d)

	var g2a, g2b float64
	if a > 0 {
		g2a = a * math.Log(a/E1)
	}
	if b > 0 {
		g2b = b * math.Log(b/E2)
	}
	return 2 * (g2a + g2b)
}

// effectSizeLogRatio is the binary log of the ratio of per-million
// frequencies, smoothed by 0.5 so that absent words stay finite. Positive
// values mean the word is over-represented in the user text.
func effectSizeLogRatio(a, b, c, d float64) float64 {
	var freq1, freq2 float64
	if a+c > 0 {
		freq1 = a / (a + c) * 1_000_000
	}
	if b+d > 0 {
		freq2 = b / (b + d) * 1_000_000
	}
	return math.Log2((freq1 + 0.5) / (freq2 + 0.5))
}

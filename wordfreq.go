package inksight

import (
	"context"
	"math"
	"unicode"
)

// DefaultTopWords is the number of most frequent words reported by default.
const DefaultTopWords = 5

// wordsPerMinute is the silent reading speed used for reading-time estimates.
const wordsPerMinute = 200

// TextStats holds the lexical statistics of a text.
type TextStats struct {
	WordCount         int         `json:"word_count"`
	UniqueWords       int         `json:"unique_words"`
	Top               []WordCount `json:"top"`
	SentenceCount     int         `json:"sentence_count"`
	AvgSentenceLength float64     `json:"avg_sentence_length"`
	ReadingTime       ReadingTime `json:"reading_time"`
	Readability       float64     `json:"readability"`
}

// WordFrequencyAnalyzer computes TextStats.
type WordFrequencyAnalyzer struct {
	TopN      int // Number of words in Top; DefaultTopWords when zero.
	Tokenizer Tokenizer
}

// NewWordFrequencyAnalyzer returns an analyzer that reports the topN most
// frequent words.
func NewWordFrequencyAnalyzer(topN int) *WordFrequencyAnalyzer {
	return &WordFrequencyAnalyzer{TopN: topN}
}

// Analyze tokenizes text and computes its statistics. An empty text yields
// zero statistics and no error.
func (a *WordFrequencyAnalyzer) Analyze(ctx context.Context, text string) (*TextStats, error) {
	opts := []DocOpt{WithContext(ctx)}
	if a.Tokenizer != nil {
		opts = append(opts, UsingTokenizer(a.Tokenizer))
	}
	doc, err := NewDocument(text, opts...)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeDocument(doc), nil
}

// AnalyzeDocument computes the statistics of an already tokenized document.
func (a *WordFrequencyAnalyzer) AnalyzeDocument(doc *Document) *TextStats {
	topN := a.TopN
	if topN <= 0 {
		topN = DefaultTopWords
	}

	words := doc.WordCount()
	sentences := len(doc.Sentences())
	stats := &TextStats{
		WordCount:     words,
		UniqueWords:   doc.Frequencies().Len(),
		Top:           doc.Frequencies().MostCommon(topN),
		SentenceCount: sentences,
		ReadingTime:   EstimateReadingTime(words),
	}
	if sentences > 0 {
		stats.AvgSentenceLength = round(float64(words)/float64(sentences), 1)
	}
	stats.Readability = round(automatedReadability(doc.Tokens(), sentences), 1)
	return stats
}

// EstimateReadingTime converts a word count into a reading time at 200 words
// per minute. Durations under a minute are reported in whole seconds.
func EstimateReadingTime(words int) ReadingTime {
	minutes := float64(words) / wordsPerMinute
	if minutes < 1 {
		return ReadingTime{Value: math.Floor(minutes * 60), Unit: "seconds"}
	}
	return ReadingTime{Value: round(minutes, 1), Unit: "minutes"}
}

// automatedReadability returns the Automated Readability Index,
// 4.71*(characters/words) + 0.5*(words/sentences) - 21.43, counting only
// letters and digits as characters.
func automatedReadability(tokens []Token, sentences int) float64 {
	if len(tokens) == 0 || sentences == 0 {
		return 0
	}
	chars := 0
	for _, tok := range tokens {
		for _, r := range tok.Text {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				chars++
			}
		}
	}
	words := float64(len(tokens))
	return 4.71*float64(chars)/words + 0.5*words/float64(sentences) - 21.43
}

// round rounds x half away from zero to the given number of decimals.
// Negative zero is reported as zero.
func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(x*p) / p
	if r == 0 {
		return 0
	}
	return r
}

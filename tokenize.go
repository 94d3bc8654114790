package inksight

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns raw text into sentences and the normalized words of each
// sentence.
type Tokenizer interface {
	Tokenize(text string) ([]Sentence, []Token)
}

// WordTokenizer is the default Tokenizer. It normalizes the input to NFC,
// replaces typographic quotes with their ASCII forms, segments sentences and
// splits each sentence into lower-cased words.
//
// A word is a maximal run of letters, digits and combining marks. Apostrophes
// are kept only inside a word, so "don't" stays "don't" while quoted 'words'
// lose their quotes.
type WordTokenizer struct {
	segmenter  Segmenter
	sanitizer  *strings.Replacer
	minWordLen int
}

type TokenizerOptFunc func(*WordTokenizer)

// UsingSegmenter sets the sentence segmenter.
func UsingSegmenter(x Segmenter) TokenizerOptFunc {
	return func(tokenizer *WordTokenizer) {
		tokenizer.segmenter = x
	}
}

// Use the provided sanitizer.
func UsingSanitizer(x *strings.Replacer) TokenizerOptFunc {
	return func(tokenizer *WordTokenizer) {
		tokenizer.sanitizer = x
	}
}

// UsingMinWordLength drops words shorter than n runes. Sentences are still
// counted when all of their words are dropped.
func UsingMinWordLength(n int) TokenizerOptFunc {
	return func(tokenizer *WordTokenizer) {
		tokenizer.minWordLen = n
	}
}

// NewTokenizer creates a WordTokenizer with the heuristic sentence segmenter.
func NewTokenizer(opts ...TokenizerOptFunc) *WordTokenizer {
	tok := &WordTokenizer{
		segmenter:  TerminalSegmenter{},
		sanitizer:  sanitizer,
		minWordLen: 1,
	}
	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

// Tokenize splits text into trimmed sentences and their words. Segments with
// no letter or digit are discarded. Empty input yields no sentences and no
// tokens.
func (t *WordTokenizer) Tokenize(text string) ([]Sentence, []Token) {
	var (
		sents  []Sentence
		tokens []Token
	)
	for _, seg := range t.segmenter.Segment(t.normalize(text)) {
		seg = strings.TrimSpace(seg)
		words := splitWords(seg)
		if len(words) == 0 {
			continue
		}
		idx := len(sents)
		sents = append(sents, Sentence{Text: seg, Index: idx})
		for _, w := range words {
			if t.keep(w) {
				tokens = append(tokens, Token{Text: w, Sentence: idx})
			}
		}
	}
	return sents, tokens
}

// Words returns the normalized words of text without sentence information.
func (t *WordTokenizer) Words(text string) []string {
	words := splitWords(t.normalize(text))
	kept := words[:0]
	for _, w := range words {
		if t.keep(w) {
			kept = append(kept, w)
		}
	}
	return kept
}

func (t *WordTokenizer) normalize(text string) string {
	if t.sanitizer != nil {
		text = t.sanitizer.Replace(text)
	}
	return norm.NFC.String(text)
}

func (t *WordTokenizer) keep(word string) bool {
	return t.minWordLen <= 1 || len([]rune(word)) >= t.minWordLen
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// splitWords cuts s into lower-cased words.
func splitWords(s string) []string {
	var words []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		w := strings.Trim(s[start:end], "'")
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
		start = -1
	}
	for i, r := range s {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case r == '\'':
			// Only joins two word runes; a leading quote is trimmed in flush.
			if start < 0 {
				start = i
			}
		default:
			flush(i)
		}
	}
	flush(len(s))
	return words
}

var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"ʼ", "'",
	"&rsquo;", "'")

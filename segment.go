package inksight

import (
	"fmt"
	"strings"

	"gopkg.in/neurosnap/sentences.v1/english"
)

// A Segmenter splits normalized text into raw sentence strings. The
// Tokenizer trims the results and drops those without words.
type Segmenter interface {
	Segment(text string) []string
}

// TerminalSegmenter cuts text after every run of '.', '!' or '?', keeping any
// closing quotes or brackets that directly follow the run.
//
// Known limitations: abbreviations ("Dr. Smith") and decimals ("3.5") are
// split as if they ended a sentence.
type TerminalSegmenter struct{}

// Segment implements Segmenter.
func (TerminalSegmenter) Segment(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && isTerminal(runes[j]) {
			j++
		}
		for j < len(runes) && isCloser(runes[j]) {
			j++
		}
		out = append(out, string(runes[start:j]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return strings.ContainsRune(`"')]}»`, r)
}

type punktSegmenter struct {
	split func(string) []string
}

// NewPunktSegmenter returns a Segmenter backed by the pre-trained English
// Punkt model, which handles abbreviations and decimals.
func NewPunktSegmenter() (Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &punktSegmenter{split: func(text string) []string {
		sents := tok.Tokenize(text)
		out := make([]string, 0, len(sents))
		for _, s := range sents {
			out = append(out, s.Text)
		}
		return out
	}}, nil
}

// Segment implements Segmenter.
func (p *punktSegmenter) Segment(text string) []string {
	return p.split(text)
}

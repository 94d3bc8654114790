package inksight

import (
	"encoding/json"
	"fmt"
)

// A Token is a normalized word form together with the index of the sentence
// it was found in.
type Token struct {
	Text     string // Lower-cased word with outer punctuation removed.
	Sentence int    // Index into the owning document's sentences.
}

// A Sentence represents a segmented, trimmed portion of text.
type Sentence struct {
	Text  string // The sentence's text.
	Index int    // Position of the sentence in the document.
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string `json:"w"`
	Count int    `json:"n"`
}

// ReadingTime is an estimated reading duration expressed either in whole
// seconds or in minutes rounded to one decimal place.
type ReadingTime struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CorpusInfo describes a reference corpus for presentation.
type CorpusInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	TotalWords  int    `json:"total_words,omitempty"`
}

// Significance is the ordinal significance band of a log-likelihood score.
type Significance int

const (
	NotSignificant  Significance = iota // p >= 0.05
	SignificantP05                      // p < 0.05
	SignificantP01                      // p < 0.01
	SignificantP001                     // p < 0.001
)

// Chi-square critical values at one degree of freedom.
const (
	criticalP05  = 3.84
	criticalP01  = 6.63
	criticalP001 = 10.83
)

// SignificanceOf maps a log-likelihood score to its significance band.
func SignificanceOf(ll float64) Significance {
	switch {
	case ll >= criticalP001:
		return SignificantP001
	case ll >= criticalP01:
		return SignificantP01
	case ll >= criticalP05:
		return SignificantP05
	default:
		return NotSignificant
	}
}

var significanceMarkers = [...]string{"", "*", "**", "***"}

// String returns the conventional star marker for the band.
func (s Significance) String() string {
	if s < NotSignificant || int(s) >= len(significanceMarkers) {
		return fmt.Sprintf("Significance(%d)", int(s))
	}
	return significanceMarkers[s]
}

// MarshalJSON encodes the band as its marker string.
func (s Significance) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a marker string into a band.
func (s *Significance) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for i, m := range significanceMarkers {
		if m == str {
			*s = Significance(i)
			return nil
		}
	}
	return fmt.Errorf("inksight: unknown significance marker %q", str)
}

// SentimentLabel classifies the polarity of a sentence or document.
type SentimentLabel int

const (
	Neutral SentimentLabel = iota
	Positive
	Negative
)

var sentimentNames = map[SentimentLabel]string{
	Neutral:  "neutral",
	Positive: "positive",
	Negative: "negative",
}

// String returns the lower-case name of the label.
func (l SentimentLabel) String() string {
	if name, ok := sentimentNames[l]; ok {
		return name
	}
	return fmt.Sprintf("SentimentLabel(%d)", int(l))
}

// MarshalJSON encodes the label as its name.
func (l SentimentLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name.
func (l *SentimentLabel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for label, name := range sentimentNames {
		if name == str {
			*l = label
			return nil
		}
	}
	return fmt.Errorf("inksight: unknown sentiment label %q", str)
}

package inksight

import (
	"fmt"
	"sort"
)

// FrequencyTable maps words to occurrence counts. It is immutable once built
// and safe for concurrent reads.
type FrequencyTable struct {
	counts map[string]int
	total  int
}

// NewFrequencyTable counts words. Empty strings are ignored.
func NewFrequencyTable(words []string) *FrequencyTable {
	ft := &FrequencyTable{counts: make(map[string]int, len(words)/2+1)}
	for _, w := range words {
		if w == "" {
			continue
		}
		ft.counts[w]++
		ft.total++
	}
	return ft
}

// tokenFrequencies counts the text of each token.
func tokenFrequencies(tokens []Token) *FrequencyTable {
	ft := &FrequencyTable{counts: make(map[string]int, len(tokens)/2+1)}
	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}
		ft.counts[tok.Text]++
		ft.total++
	}
	return ft
}

// newFrequencyTableFromCounts takes ownership of counts.
func newFrequencyTableFromCounts(counts map[string]int) (*FrequencyTable, error) {
	ft := &FrequencyTable{counts: counts}
	for w, n := range counts {
		if w == "" {
			return nil, fmt.Errorf("empty word")
		}
		if n <= 0 {
			return nil, fmt.Errorf("count %d for %q is not positive", n, w)
		}
		ft.total += n
	}
	return ft, nil
}

// Count returns the number of occurrences of word.
func (ft *FrequencyTable) Count(word string) int {
	return ft.counts[word]
}

// Total returns the sum of all counts.
func (ft *FrequencyTable) Total() int {
	return ft.total
}

// Len returns the number of distinct words.
func (ft *FrequencyTable) Len() int {
	return len(ft.counts)
}

// Words returns the distinct words in lexical order.
func (ft *FrequencyTable) Words() []string {
	words := make([]string, 0, len(ft.counts))
	for w := range ft.counts {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// MostCommon returns the n most frequent words ordered by count, ties by
// word. A non-positive n returns every word.
func (ft *FrequencyTable) MostCommon(n int) []WordCount {
	out := make([]WordCount, 0, len(ft.counts))
	for w, c := range ft.counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Validate checks that the counts are positive and sum to the total and that
// no key is empty.
func (ft *FrequencyTable) Validate() error {
	sum := 0
	for w, n := range ft.counts {
		if w == "" {
			return fmt.Errorf("frequency table has an empty word")
		}
		if n <= 0 {
			return fmt.Errorf("frequency table count %d for %q is not positive", n, w)
		}
		sum += n
	}
	if sum != ft.total {
		return fmt.Errorf("frequency table total %d does not match sum of counts %d", ft.total, sum)
	}
	return nil
}

package inksight

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		text      string
		sentences int
		words     []string
		desc      string
	}{
		{"", 0, nil, "Empty text"},
		{"   \n\t ", 0, nil, "Whitespace only"},
		{"...!?", 0, nil, "Punctuation only"},
		{"Hello world.", 1, []string{"hello", "world"}, "Single sentence"},
		{"Don't stop. Go!", 2, []string{"don't", "stop", "go"}, "Contraction kept whole"},
		{"Don’t stop", 1, []string{"don't", "stop"}, "Curly apostrophe"},
		{"'Quoted' words", 1, []string{"quoted", "words"}, "Quotes trimmed"},
		{"Hello... world?!", 2, []string{"hello", "world"}, "Runs of terminals"},
		{`He said "Stop." Then left.`, 2, []string{"he", "said", "stop", "then", "left"}, "Closing quote stays with sentence"},
		{"No terminal punctuation", 1, []string{"no", "terminal", "punctuation"}, "Trailing fragment"},
		{"Café au lait.", 1, []string{"café", "au", "lait"}, "NFC normalization"},
		{"Route 66 is 2,448 miles.", 1, []string{"route", "66", "is", "2", "448", "miles"}, "Digits"},
	}

	tok := NewTokenizer()
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sents, tokens := tok.Tokenize(tt.text)
			if len(sents) != tt.sentences {
				t.Errorf("Text: %q\nExpected %d sentences\nGot: %d (%v)", tt.text, tt.sentences, len(sents), sents)
			}

			var words []string
			for _, token := range tokens {
				words = append(words, token.Text)
			}
			if !reflect.DeepEqual(words, tt.words) {
				t.Errorf("Text: %q\nExpected words: %q\nGot: %q", tt.text, tt.words, words)
			}
		})
	}
}

func TestTokenSentenceIndex(t *testing.T) {
	sents, tokens := NewTokenizer().Tokenize("One two. Three!  Four five six?")
	if len(sents) != 3 {
		t.Fatalf("Expected 3 sentences, got %d", len(sents))
	}
	want := []int{0, 0, 1, 2, 2, 2}
	for i, token := range tokens {
		if token.Sentence != want[i] {
			t.Errorf("token %q in sentence %d, want %d", token.Text, token.Sentence, want[i])
		}
	}
	for i, s := range sents {
		if s.Index != i {
			t.Errorf("sentence %q has index %d, want %d", s.Text, s.Index, i)
		}
	}
	if sents[2].String() != "Four five six?" {
		t.Errorf("Expected trimmed sentence text, got %q", sents[2].String())
	}
}

func TestMinWordLength(t *testing.T) {
	tok := NewTokenizer(UsingMinWordLength(3))

	sents, tokens := tok.Tokenize("I am. A big cat.")
	if len(sents) != 2 {
		t.Errorf("Expected 2 sentences, got %d", len(sents))
	}
	if len(tokens) != 2 || tokens[0].Text != "big" || tokens[0].Sentence != 1 {
		t.Errorf("Unexpected tokens: %v", tokens)
	}

	if got := tok.Words("an ox ate hay"); !reflect.DeepEqual(got, []string{"ate", "hay"}) {
		t.Errorf("Words = %q", got)
	}
}

func TestSegmenters(t *testing.T) {
	punkt, err := NewPunktSegmenter()
	if err != nil {
		t.Fatalf("Failed to load punkt: %v", err)
	}

	tests := []struct {
		segmenter Segmenter
		text      string
		sentences int
		desc      string
	}{
		{TerminalSegmenter{}, "Hello world. How are you?", 2, "Terminal simple"},
		{TerminalSegmenter{}, "It costs 3.5 dollars.", 2, "Terminal splits decimals"},
		{punkt, "Hello world. How are you?", 2, "Punkt simple"},
		{punkt, "The price is 3.5 dollars. It rose.", 2, "Punkt keeps decimals"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sents, _ := NewTokenizer(UsingSegmenter(tt.segmenter)).Tokenize(tt.text)
			if len(sents) != tt.sentences {
				t.Errorf("Text: %q\nExpected %d sentences\nGot: %d (%v)", tt.text, tt.sentences, len(sents), sents)
			}
		})
	}
}

func TestFrequencyTable(t *testing.T) {
	ft := NewFrequencyTable([]string{"b", "a", "c", "a", "", "b", "a"})

	if ft.Total() != 6 || ft.Len() != 3 {
		t.Fatalf("total=%d len=%d, want 6 and 3", ft.Total(), ft.Len())
	}
	if err := ft.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	want := []WordCount{{"a", 3}, {"b", 2}, {"c", 1}}
	if got := ft.MostCommon(0); !reflect.DeepEqual(got, want) {
		t.Errorf("MostCommon(0) = %v", got)
	}
	if got := ft.MostCommon(2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("MostCommon(2) = %v", got)
	}
	if got := ft.Words(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Words = %v", got)
	}

	sum := 0
	for _, wc := range ft.MostCommon(0) {
		sum += wc.Count
	}
	if sum != ft.Total() {
		t.Errorf("sum of counts %d != total %d", sum, ft.Total())
	}
}

func TestFrequencyTableTies(t *testing.T) {
	ft := NewFrequencyTable([]string{"zeta", "alpha", "mid", "mid"})
	want := []WordCount{{"mid", 2}, {"alpha", 1}, {"zeta", 1}}
	if got := ft.MostCommon(0); !reflect.DeepEqual(got, want) {
		t.Errorf("MostCommon = %v, want %v", got, want)
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := "The quick brown fox jumps over the lazy dog. It wasn't amused! Was it? "
	for i := 0; i < 5; i++ {
		text += text
	}
	tok := NewTokenizer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tok.Tokenize(text)
	}
}

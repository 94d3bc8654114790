package inksight

import (
	"context"
	"reflect"
	"testing"
)

func TestWordFrequencyAnalyze(t *testing.T) {
	stats, err := NewWordFrequencyAnalyzer(DefaultTopWords).Analyze(context.Background(), "The cat sat. The cat ran fast.")
	if err != nil {
		t.Fatal(err)
	}

	if stats.WordCount != 7 {
		t.Errorf("word_count = %d, want 7", stats.WordCount)
	}
	if stats.UniqueWords != 5 {
		t.Errorf("unique_words = %d, want 5", stats.UniqueWords)
	}
	if stats.SentenceCount != 2 {
		t.Errorf("sentence_count = %d, want 2", stats.SentenceCount)
	}
	if stats.AvgSentenceLength != 3.5 {
		t.Errorf("avg_sentence_length = %v, want 3.5", stats.AvgSentenceLength)
	}

	wantTop := []WordCount{{"cat", 2}, {"the", 2}, {"fast", 1}, {"ran", 1}, {"sat", 1}}
	if !reflect.DeepEqual(stats.Top, wantTop) {
		t.Errorf("top = %v, want %v", stats.Top, wantTop)
	}
	if stats.ReadingTime != (ReadingTime{Value: 2, Unit: "seconds"}) {
		t.Errorf("reading_time = %+v", stats.ReadingTime)
	}
	// 4.71*22/7 + 0.5*3.5 - 21.43
	if stats.Readability != -4.9 {
		t.Errorf("readability = %v, want -4.9", stats.Readability)
	}
}

func TestWordFrequencyEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "?!..."} {
		stats, err := NewWordFrequencyAnalyzer(0).Analyze(context.Background(), text)
		if err != nil {
			t.Fatalf("Text %q: %v", text, err)
		}
		if stats.WordCount != 0 || stats.SentenceCount != 0 || stats.AvgSentenceLength != 0 {
			t.Errorf("Text %q: expected zero stats, got %+v", text, stats)
		}
		if len(stats.Top) != 0 {
			t.Errorf("Text %q: expected no top words, got %v", text, stats.Top)
		}
		if stats.ReadingTime != (ReadingTime{Value: 0, Unit: "seconds"}) {
			t.Errorf("Text %q: reading_time = %+v", text, stats.ReadingTime)
		}
	}
}

func TestWordFrequencyTopN(t *testing.T) {
	stats, err := NewWordFrequencyAnalyzer(2).Analyze(context.Background(), "a b c d a b a")
	if err != nil {
		t.Fatal(err)
	}
	want := []WordCount{{"a", 3}, {"b", 2}}
	if !reflect.DeepEqual(stats.Top, want) {
		t.Errorf("top = %v, want %v", stats.Top, want)
	}
}

func TestEstimateReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  ReadingTime
		desc  string
	}{
		{0, ReadingTime{0, "seconds"}, "No words"},
		{7, ReadingTime{2, "seconds"}, "Seconds are floored"},
		{199, ReadingTime{59, "seconds"}, "Just under a minute"},
		{200, ReadingTime{1, "minutes"}, "Exactly a minute"},
		{450, ReadingTime{2.3, "minutes"}, "Minutes rounded to one decimal"},
		{1000, ReadingTime{5, "minutes"}, "Several minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := EstimateReadingTime(tt.words); got != tt.want {
				t.Errorf("EstimateReadingTime(%d) = %+v, want %+v", tt.words, got, tt.want)
			}
		})
	}
}

func TestDocumentMarkdown(t *testing.T) {
	md := "# Title\n\nSee [the docs](http://x.io) and *more* at https://example.com."
	if got := MarkdownToText(md); got != "Title See the docs and more at" {
		t.Errorf("MarkdownToText = %q", got)
	}

	doc, err := NewDocument(md, WithMarkdown(true))
	if err != nil {
		t.Fatal(err)
	}
	if doc.WordCount() != 7 {
		t.Errorf("word count = %d, want 7 (%v)", doc.WordCount(), doc.Tokens())
	}
	if doc.Frequencies().Total() != doc.WordCount() {
		t.Errorf("frequency total %d != word count %d", doc.Frequencies().Total(), doc.WordCount())
	}
}

func TestDocumentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDocument("Some text.", WithContext(ctx)); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestDocumentSentenceTokens(t *testing.T) {
	doc, err := NewDocument("One two. Three. Four five.", UsingTokenizer(NewTokenizer(UsingMinWordLength(4))))
	if err != nil {
		t.Fatal(err)
	}
	groups := doc.sentenceTokens()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if len(groups[0]) != 0 || len(groups[1]) != 1 || len(groups[2]) != 2 {
		t.Errorf("unexpected grouping %v", groups)
	}
}

func BenchmarkWordFrequency(b *testing.B) {
	text := "The cat sat on the mat. The dog barked at the cat, and the cat ran away! "
	for i := 0; i < 6; i++ {
		text += text
	}
	analyzer := NewWordFrequencyAnalyzer(DefaultTopWords)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analyzer.Analyze(ctx, text); err != nil {
			b.Fatal(err)
		}
	}
}

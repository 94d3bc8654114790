package inksight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"testing/fstest"
)

func testKeynessEngine(config KeynessConfig) *KeynessEngine {
	return NewKeynessEngine(NewCorpusStore(NewFSSource(testFS(), ".")), config)
}

func TestSignificanceOf(t *testing.T) {
	tests := []struct {
		ll   float64
		want Significance
		mark string
	}{
		{0, NotSignificant, ""},
		{3.83, NotSignificant, ""},
		{3.84, SignificantP05, "*"},
		{6.62, SignificantP05, "*"},
		{6.63, SignificantP01, "**"},
		{10.82, SignificantP01, "**"},
		{10.83, SignificantP001, "***"},
		{250, SignificantP001, "***"},
	}

	for _, tt := range tests {
		got := SignificanceOf(tt.ll)
		if got != tt.want || got.String() != tt.mark {
			t.Errorf("SignificanceOf(%v) = %v (%q), want %v (%q)", tt.ll, int(got), got, int(tt.want), tt.mark)
		}
	}
}

func TestLogLikelihood(t *testing.T) {
	// A word absent from the corpus: G² = 2a·ln(a/E1) with E1 = N1·a/(N1+N2).
	got := logLikelihood(10, 0, 90, 1000)
	if want := 20 * math.Log(11); math.Abs(got-want) > 1e-9 {
		t.Errorf("logLikelihood = %v, want %v", got, want)
	}

	// Equal relative frequencies carry no evidence.
	if got := logLikelihood(10, 100, 90, 900); math.Abs(got) > 1e-9 {
		t.Errorf("logLikelihood of proportional counts = %v, want 0", got)
	}

	if got := effectSizeLogRatio(0, 40, 9, 960); math.Abs(got-(-16.2877)) > 1e-4 {
		t.Errorf("effectSizeLogRatio = %v", got)
	}
}

func TestComputeKeyness(t *testing.T) {
	result, err := testKeynessEngine(DefaultKeynessConfig()).Compute(context.Background(), "The cat sat. The cat ran. The cat sat.", "brown")
	if err != nil {
		t.Fatal(err)
	}

	if result.Corpus.Name != "brown" || result.Corpus.TotalWords != 1000 {
		t.Errorf("corpus = %+v", result.Corpus)
	}
	if result.TotalWords != 9 || result.UniqueWords != 4 {
		t.Errorf("total_words=%d unique_words=%d, want 9 and 4", result.TotalWords, result.UniqueWords)
	}

	want := []KeywordStat{
		{Word: "cat", UserFreq: 3, CorpusFreq: 0.09, CorpusCount: 10, EffectSize: 5.0588, LLScore: 14.4508, Significance: SignificantP001},
		{Word: "the", UserFreq: 3, CorpusFreq: 5.4, CorpusCount: 600, EffectSize: -0.848, LLScore: 1.2638},
		{Word: "dog", UserFreq: 0, CorpusFreq: 0.36, CorpusCount: 40, EffectSize: -16.2877, LLScore: 0.7168},
		{Word: "ran", UserFreq: 1, CorpusFreq: 0.45, CorpusCount: 50, EffectSize: 1.152, LLScore: 0.491},
		{Word: "sat", UserFreq: 2, CorpusFreq: 2.7, CorpusCount: 300, EffectSize: -0.433, LLScore: 0.198},
	}
	if len(result.Keywords) != len(want) {
		t.Fatalf("got %d keywords, want %d: %+v", len(result.Keywords), len(want), result.Keywords)
	}
	for i, kw := range result.Keywords {
		w := want[i]
		w.PValue = kw.PValue
		if kw != w {
			t.Errorf("keyword %d = %+v\nwant %+v", i, kw, w)
		}
		if kw.PValue < 0 || kw.PValue > 1 {
			t.Errorf("%s: p-value %v out of range", kw.Word, kw.PValue)
		}
		if kw.Significance != SignificanceOf(kw.LLScore) {
			t.Errorf("%s: significance %q disagrees with ll %v", kw.Word, kw.Significance, kw.LLScore)
		}
	}
	if result.SignificantKeywords != 1 {
		t.Errorf("significant_keywords = %d, want 1", result.SignificantKeywords)
	}
	if p := result.Keywords[0].PValue; p >= 0.001 {
		t.Errorf("cat p-value = %v, want < 0.001", p)
	}

	over := result.OverRepresented()
	if len(over) != 2 || over[0].Word != "cat" || over[1].Word != "ran" {
		t.Errorf("over-represented = %+v", over)
	}
	under := result.UnderRepresented()
	if len(under) != 3 || under[0].Word != "dog" {
		t.Errorf("under-represented = %+v", under)
	}
}

func TestComputeKeynessTruncatedCorpus(t *testing.T) {
	// The top two words of testTable with the full corpus size kept in the header.
	truncated := fstest.MapFS{
		"brown.tsv": {Data: []byte("# corpus: brown\n# total: 1000\nthe\t600\nsat\t300\n")},
	}
	engine := NewKeynessEngine(NewCorpusStore(NewFSSource(truncated, ".")), DefaultKeynessConfig())
	text := "The cat sat. The cat ran. The cat sat."

	result, err := engine.Compute(context.Background(), text, "brown")
	if err != nil {
		t.Fatal(err)
	}
	if result.Corpus.TotalWords != 1000 {
		t.Errorf("corpus total words = %d, want 1000", result.Corpus.TotalWords)
	}

	full, err := testKeynessEngine(DefaultKeynessConfig()).Compute(context.Background(), text, "brown")
	if err != nil {
		t.Fatal(err)
	}
	want := make(map[string]KeywordStat)
	for _, kw := range full.Keywords {
		want[kw.Word] = kw
	}
	listed := 0
	for _, kw := range result.Keywords {
		if kw.CorpusCount == 0 {
			continue
		}
		listed++
		if kw != want[kw.Word] {
			t.Errorf("%s: truncated table gives %+v\nfull table gives %+v", kw.Word, kw, want[kw.Word])
		}
	}
	if listed != 2 {
		t.Errorf("compared %d listed words, want 2", listed)
	}
}

func TestComputeKeynessConfig(t *testing.T) {
	ctx := context.Background()
	text := "The cat sat. The cat ran. The cat sat."

	result, err := testKeynessEngine(KeynessConfig{SignificantOnly: true}).Compute(ctx, text, "brown")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Keywords) != 1 || result.Keywords[0].Word != "cat" {
		t.Errorf("significant only = %+v", result.Keywords)
	}

	result, err = testKeynessEngine(KeynessConfig{MaxCorpusVocabulary: 1}).Compute(ctx, text, "brown")
	if err != nil {
		t.Fatal(err)
	}
	for _, kw := range result.Keywords {
		if kw.Word == "dog" {
			t.Error("dog is outside the top corpus vocabulary")
		}
	}

	result, err = testKeynessEngine(KeynessConfig{MinWordLength: 4}).Compute(ctx, "The cat sat on a mat quietly.", "brown")
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalWords != 1 {
		t.Errorf("total_words = %d, want 1", result.TotalWords)
	}
}

func TestComputeKeynessErrors(t *testing.T) {
	engine := testKeynessEngine(DefaultKeynessConfig())
	ctx := context.Background()

	tests := []struct {
		text   string
		corpus string
		want   error
		desc   string
	}{
		{"The cat sat.", "klingon", ErrUnknownCorpus, "Unknown corpus"},
		{"", "klingon", ErrUnknownCorpus, "Unknown corpus wins over empty text"},
		{"   ", "brown", ErrEmptyText, "Whitespace"},
		{"...", "brown", ErrEmptyText, "Punctuation"},
		{"The cat sat.", "gutenberg", ErrCorpusLoad, "Corrupt corpus"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := engine.Compute(ctx, tt.text, tt.corpus)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if engine.store.Loaded("klingon") {
		t.Error("unknown corpus was cached")
	}
}

func TestComputeKeynessDeterministic(t *testing.T) {
	text := "It was the best of times, it was the worst of times. The market rallied!"

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		result, err := testKeynessEngine(DefaultKeynessConfig()).Compute(context.Background(), text, "brown")
		if err != nil {
			t.Fatal(err)
		}
		b, err := json.Marshal(result)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, b)
	}
	for _, b := range outputs[1:] {
		if !bytes.Equal(b, outputs[0]) {
			t.Fatal("keyness output differs between runs")
		}
	}

	decoded, err := DecodeKeyness(outputs[0])
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(decoded.Keywords); i++ {
		a, b := decoded.Keywords[i-1], decoded.Keywords[i]
		if a.LLScore < b.LLScore || (a.LLScore == b.LLScore && a.Word > b.Word) {
			t.Fatalf("keywords out of order at %d: %v then %v", i, a, b)
		}
	}
}

func BenchmarkComputeKeyness(b *testing.B) {
	text := "The committee met on Tuesday to discuss the budget. Members argued about taxes and spending. "
	for i := 0; i < 4; i++ {
		text += text
	}
	engine := testKeynessEngine(DefaultKeynessConfig())
	ctx := context.Background()
	if _, err := engine.Compute(ctx, text, "brown"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Compute(ctx, text, "brown"); err != nil {
			b.Fatal(err)
		}
	}
}

package inksight

import (
	"context"
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// A SentenceScorer assigns a polarity in [-1, 1] to one sentence.
type SentenceScorer interface {
	Score(sentence string) float64
}

// SentimentConfig configures sentiment analysis
type SentimentConfig struct {
	Epsilon        float64 // Scores within ±Epsilon are neutral
	NegationWindow int     // Words to check for negation
	TopClusters    int     // Number of clusters in top_clusters
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		Epsilon:        0.05,
		NegationWindow: 3,
		TopClusters:    4,
	}
}

// SentenceSentiment is the sentiment of one sentence.
type SentenceSentiment struct {
	Text      string         `json:"text"`
	Sentiment SentimentLabel `json:"sentiment"`
	Score     float64        `json:"score"`
}

// SentimentResult is the sentence-level sentiment and semantic clustering
// of a text.
type SentimentResult struct {
	TotalWords       int                 `json:"total_words"`
	SentenceCount    int                 `json:"sentence_count"`
	Sentences        []SentenceSentiment `json:"sentences"`
	PositiveRatio    float64             `json:"positive_ratio"`
	NeutralRatio     float64             `json:"neutral_ratio"`
	NegativeRatio    float64             `json:"negative_ratio"`
	OverallSentiment SentimentLabel      `json:"overall_sentiment"`
	TotalClusters    int                 `json:"total_clusters"`
	TopClusters      []SemanticCluster   `json:"top_clusters"`
	Clusters         []SemanticCluster   `json:"clusters"`
}

// SentimentAnalyzer performs sentiment analysis
type SentimentAnalyzer struct {
	scorer    SentenceScorer
	clusterer *Clusterer
	config    SentimentConfig
}

// NewSentimentAnalyzer creates a sentiment analyzer. A nil scorer selects the
// built-in lexicon scorer.
func NewSentimentAnalyzer(config SentimentConfig, scorer SentenceScorer) *SentimentAnalyzer {
	if scorer == nil {
		scorer = NewLexiconScorer(LoadSentimentLexicon(), config.NegationWindow)
	}
	return &SentimentAnalyzer{
		scorer:    scorer,
		clusterer: NewClusterer(DefaultClusterConfig()),
		config:    config,
	}
}

// Analyze tokenizes text and analyzes it. A text without words fails with
// ErrEmptyText.
func (sa *SentimentAnalyzer) Analyze(ctx context.Context, text string) (*SentimentResult, error) {
	doc, err := NewDocument(text, WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return sa.AnalyzeDocument(ctx, doc)
}

// AnalyzeDocument scores every sentence of doc, aggregates the labels and
// clusters the document's vocabulary.
func (sa *SentimentAnalyzer) AnalyzeDocument(ctx context.Context, doc *Document) (*SentimentResult, error) {
	if doc.WordCount() == 0 {
		return nil, ErrEmptyText
	}

	sentences := doc.Sentences()
	result := &SentimentResult{
		TotalWords:       doc.WordCount(),
		SentenceCount:    len(sentences),
		Sentences:        make([]SentenceSentiment, 0, len(sentences)),
		OverallSentiment: Neutral,
	}

	counts := map[SentimentLabel]int{}
	for _, sent := range sentences {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		score := sa.scorer.Score(sent.Text)
		label := sa.label(score)
		counts[label]++
		result.Sentences = append(result.Sentences, SentenceSentiment{
			Text:      sent.Text,
			Sentiment: label,
			Score:     round(score, 4),
		})
	}

	if n := float64(len(sentences)); n > 0 {
		result.PositiveRatio = float64(counts[Positive]) / n
		result.NeutralRatio = float64(counts[Neutral]) / n
		result.NegativeRatio = float64(counts[Negative]) / n
		result.OverallSentiment = overallSentiment(counts)
	}

	clusters, err := sa.clusterer.ClusterDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	top := sa.config.TopClusters
	if top <= 0 || top > len(clusters) {
		top = len(clusters)
	}
	result.TotalClusters = len(clusters)
	result.Clusters = clusters
	result.TopClusters = clusters[:top]
	return result, nil
}

func (sa *SentimentAnalyzer) label(score float64) SentimentLabel {
	switch {
	case score > sa.config.Epsilon:
		return Positive
	case score < -sa.config.Epsilon:
		return Negative
	default:
		return Neutral
	}
}

// overallSentiment picks the most frequent label, preferring neutral, then
// positive, then negative on ties.
func overallSentiment(counts map[SentimentLabel]int) SentimentLabel {
	best := Neutral
	for _, label := range []SentimentLabel{Positive, Negative} {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}

// LexiconScorer scores sentences against a SentimentLexicon. Each sentiment
// word may be strengthened or weakened by a modifier in the two preceding
// words and is reversed and halved when a negation occurs within the
// negation window without an intervening clause boundary.
type LexiconScorer struct {
	lexicon        *SentimentLexicon
	negationWindow int
}

// NewLexiconScorer creates a lexicon scorer.
func NewLexiconScorer(lexicon *SentimentLexicon, negationWindow int) *LexiconScorer {
	if negationWindow <= 0 {
		negationWindow = 3
	}
	return &LexiconScorer{lexicon: lexicon, negationWindow: negationWindow}
}

// Score implements SentenceScorer.
func (ls *LexiconScorer) Score(sentence string) float64 {
	tokens := clauseTokens(sentence)

	var (
		posScore  float64
		negScore  float64
		wordCount int
	)
	for i, token := range tokens {
		if !isContentWord(token) {
			continue
		}

		sentiment := ls.lexicon.GetSentiment(token)
		modified := ls.applyModifiers(sentiment, tokens, i)
		if ls.checkNegation(tokens, i) {
			modified = -modified * 0.5 // Negation reverses but weakens
		}

		if modified > 0 {
			posScore += modified
			wordCount++
		} else if modified < 0 {
			negScore += math.Abs(modified)
			wordCount++
		}
	}

	if wordCount == 0 {
		return 0
	}

	posScore = posScore / float64(wordCount)
	negScore = negScore / float64(wordCount)

	switch {
	case negScore == 0:
		return math.Min(1.0, posScore*1.5)
	case posScore == 0:
		return math.Max(-1.0, -negScore*1.5)
	default:
		return (posScore - negScore) / (posScore + negScore)
	}
}

// checkNegation detects negation in context
func (ls *LexiconScorer) checkNegation(tokens []string, position int) bool {
	start := maxInt(0, position-ls.negationWindow)
	for i := start; i < position; i++ {
		if !ls.lexicon.IsNegation(tokens[i]) && !strings.HasSuffix(tokens[i], "n't") {
			continue
		}
		for j := i + 1; j < position; j++ {
			if isClauseBoundary(tokens[j]) {
				return false
			}
		}
		return true
	}
	return false
}

// applyModifiers adjusts sentiment based on intensifiers/diminishers
func (ls *LexiconScorer) applyModifiers(baseSentiment float64, tokens []string, position int) float64 {
	if position == 0 || baseSentiment == 0 {
		return baseSentiment
	}
	for i := maxInt(0, position-2); i < position; i++ {
		if isClauseBoundary(tokens[i]) {
			continue
		}
		if modifier := ls.lexicon.GetModifierStrength(tokens[i]); modifier != 0 {
			return baseSentiment * (1 + modifier)
		}
	}
	return baseSentiment
}

// clauseTokens splits a sentence into words, marking clause punctuation with
// a "," token.
func clauseTokens(sentence string) []string {
	var tokens []string
	clauses := strings.FieldsFunc(sentence, func(r rune) bool {
		return r == ',' || r == ';' || r == ':'
	})
	for i, clause := range clauses {
		if i > 0 {
			tokens = append(tokens, ",")
		}
		tokens = append(tokens, splitWords(clause)...)
	}
	return tokens
}

// isContentWord skips punctuation and very short words.
func isContentWord(token string) bool {
	if len(token) <= 1 {
		return false
	}
	for _, r := range token {
		if isWordRune(r) && !('0' <= r && r <= '9') {
			return true
		}
	}
	return false
}

var clauseBoundaries = map[string]bool{
	",":        true,
	"but":      true,
	"however":  true,
	"although": true,
}

func isClauseBoundary(token string) bool {
	return clauseBoundaries[token]
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// VaderScorer scores sentences with the VADER compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER scorer.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements SentenceScorer.
func (vs *VaderScorer) Score(sentence string) float64 {
	return vs.analyzer.PolarityScores(sentence).Compound
}

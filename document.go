package inksight

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/russross/blackfriday/v2"
)

// A DocOpt represents a setting that changes the document creation process.
//
// For example, it might strip markdown before tokenizing:
//
//	doc, err := inksight.NewDocument("# Title\n\nSome *text*.", inksight.WithMarkdown(true))
type DocOpt func(doc *Document, opts *DocOpts)

// DocOpts controls the Document creation process:
type DocOpts struct {
	Tokenizer Tokenizer       // Tokenizer to use
	Context   context.Context // Context for cancellation and timeouts
	Timeout   time.Duration   // Processing timeout
	Markdown  bool            // If true, render markdown and keep only its text
}

// UsingTokenizer specifies the Tokenizer to use.
func UsingTokenizer(include Tokenizer) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Tokenizer = include
	}
}

// WithContext sets the context for document processing
func WithContext(ctx context.Context) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Context = ctx
	}
}

// WithTimeout sets a timeout for document processing
func WithTimeout(timeout time.Duration) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Timeout = timeout
	}
}

// WithMarkdown treats the input as markdown.
func WithMarkdown(include bool) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Markdown = include
	}
}

// A Document is a tokenized body of text shared by the analyzers.
type Document struct {
	Text string

	sentences []Sentence
	tokens    []Token
	freq      *FrequencyTable
}

// Tokens returns `doc`'s tokens in reading order.
func (doc *Document) Tokens() []Token {
	return doc.tokens
}

// Sentences returns `doc`'s sentences.
func (doc *Document) Sentences() []Sentence {
	return doc.sentences
}

// Frequencies returns the word frequencies of `doc`.
func (doc *Document) Frequencies() *FrequencyTable {
	return doc.freq
}

// WordCount returns the number of word tokens.
func (doc *Document) WordCount() int {
	return len(doc.tokens)
}

// sentenceTokens groups tokens by sentence index.
func (doc *Document) sentenceTokens() [][]Token {
	groups := make([][]Token, len(doc.sentences))
	start := 0
	for i := 1; i <= len(doc.tokens); i++ {
		if i == len(doc.tokens) || doc.tokens[i].Sentence != doc.tokens[start].Sentence {
			s := doc.tokens[start].Sentence
			groups[s] = doc.tokens[start:i]
			start = i
		}
	}
	return groups
}

var defaultTokenizer = NewTokenizer()

var defaultOpts = DocOpts{
	Tokenizer: defaultTokenizer,
	Context:   context.Background(),
	Timeout:   30 * time.Second,
}

// NewDocument creates a Document according to the user-specified options.
//
// For example,
//
//	doc, err := inksight.NewDocument("...")
func NewDocument(text string, opts ...DocOpt) (*Document, error) {
	doc := Document{Text: text}

	base := defaultOpts
	for _, applyOpt := range opts {
		applyOpt(&doc, &base)
	}
	if base.Tokenizer == nil {
		base.Tokenizer = defaultTokenizer
	}

	ctx := base.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if base.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, base.Timeout)
		defer cancel()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if base.Markdown {
		doc.Text = MarkdownToText(text)
	}

	doc.sentences, doc.tokens = base.Tokenizer.Tokenize(doc.Text)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	doc.freq = tokenFrequencies(doc.tokens)
	return &doc, nil
}

var (
	linkRE = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	urlRE  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagRE  = regexp.MustCompile(`<[^>]*>`)
)

// MarkdownToText renders markdown and returns its visible text with links
// reduced to their anchor text and bare URLs removed.
func MarkdownToText(input string) string {
	input = linkRE.ReplaceAllString(input, "$1")
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagRE.ReplaceAllString(string(output), " "))
	plain = urlRE.ReplaceAllString(plain, "")
	return strings.Join(strings.Fields(plain), " ")
}

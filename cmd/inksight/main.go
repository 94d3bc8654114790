// Command inksight analyzes a text and prints the result as JSON.
//
//	inksight [flags] analyze|keyness|sentiment|report|corpora [file]
//
// The text is read from file, or from stdin when no file is given. Failures
// are printed as {"error": "..."}; the exit status is 2 for problems with the
// input (an empty text or an unknown corpus) and 1 for engine failures.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/xetters/inksight"
	"github.com/xetters/inksight/internal/clients"
	"github.com/xetters/inksight/internal/config"
	"github.com/xetters/inksight/internal/corpusdb"
	"github.com/xetters/inksight/internal/logging"
)

const (
	exitOK     = 0
	exitEngine = 1
	exitInput  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "inksight: %v\n", err)
		os.Exit(exitEngine)
	}
	logging.InitLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	code := run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("inksight", flag.ContinueOnError)
	corpus := fs.String("corpus", "brown", "reference corpus for keyness and report")
	markdown := fs.Bool("markdown", false, "treat the input as markdown")
	top := fs.Int("top", cfg.TopN, "number of most frequent words to report")
	scorer := fs.String("scorer", cfg.SentimentScorer, "sentence scorer: lexicon or vader")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return exitInput
	}
	cfg.TopN, cfg.SentimentScorer = *top, *scorer

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	fail := func(err error) int {
		_ = enc.Encode(map[string]string{"error": err.Error()})
		if inksight.IsInputError(err) {
			return exitInput
		}
		return exitEngine
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitInput
	}
	command := fs.Arg(0)
	if command == "corpora" {
		_ = enc.Encode(inksight.Corpora())
		return exitOK
	}

	text, err := readInput(fs.Arg(1), stdin)
	if err != nil {
		return fail(err)
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	analyzer, err := newAnalyzer(cfg, store)
	if err != nil {
		return fail(err)
	}

	doc, err := inksight.NewDocument(text, inksight.WithContext(ctx), inksight.WithMarkdown(*markdown))
	if err != nil {
		return fail(err)
	}

	var result any
	switch command {
	case "analyze":
		result = analyzer.WordFrequency.AnalyzeDocument(doc)
	case "keyness":
		result, err = analyzer.Keyness.ComputeDocument(ctx, doc, *corpus)
	case "sentiment":
		result, err = analyzer.Sentiment.AnalyzeDocument(ctx, doc)
	case "report":
		result, err = analyzer.Report(ctx, text, *corpus, inksight.WithMarkdown(*markdown))
	default:
		_ = enc.Encode(map[string]string{"error": fmt.Sprintf("unknown command %q", command)})
		return exitInput
	}
	if err != nil {
		slog.Debug("analysis failed", "command", command, "error", err)
		return fail(err)
	}

	if err := enc.Encode(result); err != nil {
		slog.Error("write result", "error", err)
		return exitEngine
	}
	return exitOK
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

// newStore builds the corpus store selected by cfg.
func newStore(cfg config.Config) (*inksight.CorpusStore, func(), error) {
	switch cfg.CorpusSource {
	case config.SourceDir:
		return inksight.NewCorpusStore(inksight.DirSource(cfg.CorpusDir)), func() {}, nil
	case config.SourceSQLite:
		db, err := corpusdb.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return inksight.NewCorpusStore(corpusdb.NewSource(db)), func() { db.Close() }, nil
	case config.SourceValkey:
		vc, err := clients.NewValkey(cfg.ValkeyAddress, cfg.ValkeyPassword)
		if err != nil {
			return nil, nil, err
		}
		return inksight.NewCorpusStore(vc), vc.Close, nil
	case config.SourceEmbedded, "":
		return inksight.DefaultCorpusStore(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown corpus source " + cfg.CorpusSource)
	}
}

func newAnalyzer(cfg config.Config, store *inksight.CorpusStore) (*inksight.Analyzer, error) {
	analyzer := inksight.NewAnalyzer(store)
	analyzer.WordFrequency.TopN = cfg.TopN

	sc := inksight.DefaultSentimentConfig()
	sc.Epsilon = cfg.SentimentEpsilon
	switch cfg.SentimentScorer {
	case config.ScorerVader:
		analyzer.Sentiment = inksight.NewSentimentAnalyzer(sc, inksight.NewVaderScorer())
	case config.ScorerLexicon, "":
		analyzer.Sentiment = inksight.NewSentimentAnalyzer(sc, nil)
	default:
		return nil, fmt.Errorf("unknown sentence scorer %q", cfg.SentimentScorer)
	}
	return analyzer, nil
}

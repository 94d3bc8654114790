// Command corpusgen builds a reference corpus frequency table from raw text
// files and writes it as TSV, into SQLite or into Valkey.
//
// Usage:
//
//	go run ./cmd/corpusgen -name brown -version 2024-01 -out data/corpora/brown.tsv texts/*.txt
//	go run ./cmd/corpusgen -name brown -sqlite corpora.db texts/*.txt
//	go run ./cmd/corpusgen -name brown -valkey localhost:6379 texts/*.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/xetters/inksight"
	"github.com/xetters/inksight/internal/clients"
	"github.com/xetters/inksight/internal/corpusdb"
	"github.com/xetters/inksight/internal/logging"
)

func main() {
	name := flag.String("name", "", "corpus name (required)")
	version := flag.String("version", "", "table version recorded in the header")
	minLen := flag.Int("min-len", 1, "drop words shorter than this many runes")
	top := flag.Int("top", 0, "keep only the most frequent words (0 keeps all)")
	out := flag.String("out", "", "TSV output file (default stdout)")
	sqlitePath := flag.String("sqlite", "", "write the table into this SQLite database")
	valkeyAddr := flag.String("valkey", "", "write the table into the Valkey server at this address")
	punkt := flag.Bool("punkt", false, "segment sentences with the Punkt model")
	flag.Parse()

	logging.InitLogger(os.Stderr, slog.LevelInfo)

	if *name == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "corpusgen: -name and at least one input file are required")
		flag.Usage()
		os.Exit(2)
	}

	opts := []inksight.TokenizerOptFunc{inksight.UsingMinWordLength(*minLen)}
	if *punkt {
		seg, err := inksight.NewPunktSegmenter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "corpusgen: punkt: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, inksight.UsingSegmenter(seg))
	}

	table, err := buildTable(*name, *version, *top, inksight.NewTokenizer(opts...), flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "corpusgen: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch {
	case *sqlitePath != "":
		err = writeSQLite(ctx, *sqlitePath, table)
	case *valkeyAddr != "":
		err = writeValkey(ctx, *valkeyAddr, table)
	default:
		err = writeTSV(*out, table)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "corpusgen: %v\n", err)
		os.Exit(1)
	}

	slog.Info("corpus table written",
		"corpus", table.Name,
		"words", table.Size(),
		"listed", table.Frequencies.Total(),
		"vocabulary", table.Frequencies.Len())
}

func buildTable(name, version string, top int, tok *inksight.WordTokenizer, paths []string) (*inksight.CorpusTable, error) {
	counts := make(map[string]int)
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, w := range tok.Words(string(b)) {
			counts[w]++
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no words found in %d input files", len(paths))
	}

	ft, err := inksight.FrequencyTableFromCounts(counts)
	if err != nil {
		return nil, err
	}
	total := ft.Total()
	if top > 0 && ft.Len() > top {
		kept := make(map[string]int, top)
		for _, wc := range ft.MostCommon(top) {
			kept[wc.Word] = wc.Count
		}
		if ft, err = inksight.FrequencyTableFromCounts(kept); err != nil {
			return nil, err
		}
	}
	return &inksight.CorpusTable{Name: name, Version: version, Total: total, Frequencies: ft}, nil
}

func writeTSV(path string, table *inksight.CorpusTable) error {
	if path == "" {
		return inksight.WriteTable(os.Stdout, table)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := inksight.WriteTable(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSQLite(ctx context.Context, path string, table *inksight.CorpusTable) error {
	db, err := corpusdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return corpusdb.SaveTable(ctx, db, table)
}

func writeValkey(ctx context.Context, addr string, table *inksight.CorpusTable) error {
	vc, err := clients.NewValkey(addr, os.Getenv("INKSIGHT_VALKEY_PASSWORD"))
	if err != nil {
		return err
	}
	defer vc.Close()
	return vc.SaveTable(ctx, table)
}

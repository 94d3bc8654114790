package inksight

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
)

// A CorpusTable is the raw frequency data of one reference corpus. A table
// may list only the most frequent words; Total then carries the token count
// of the whole corpus. Zero Total means the table is complete.
type CorpusTable struct {
	Name        string
	Version     string
	Total       int
	Frequencies *FrequencyTable
}

// Size returns the token count of the corpus the table was built from.
func (t *CorpusTable) Size() int {
	if t.Total > 0 {
		return t.Total
	}
	return t.Frequencies.Total()
}

func (t *CorpusTable) checkTotal() error {
	if t.Total < 0 {
		return fmt.Errorf("negative corpus total %d", t.Total)
	}
	if sum := t.Frequencies.Total(); t.Total > 0 && t.Total < sum {
		return fmt.Errorf("corpus total %d is below the sum of counts %d", t.Total, sum)
	}
	return nil
}

// CorpusSource fetches the frequency table of a named corpus. Implementations
// must return an error rather than an empty table when data is missing.
type CorpusSource interface {
	LoadTable(ctx context.Context, name string) (*CorpusTable, error)
}

// FSSource reads "<name>.tsv" tables from a directory of an fs.FS.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// NewFSSource returns a source reading tables from dir inside fsys.
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	return &FSSource{fsys: fsys, dir: dir}
}

// DirSource returns a source reading tables from a directory on disk.
func DirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir), ".")
}

// LoadTable implements CorpusSource.
func (s *FSSource) LoadTable(ctx context.Context, name string) (*CorpusTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(path.Join(s.dir, name+".tsv"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no table %s.tsv (build one with cmd/corpusgen): %w", name, err)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, err
	}
	if table.Name == "" {
		table.Name = name
	}
	if table.Name != name {
		return nil, fmt.Errorf("table header names corpus %q", table.Name)
	}
	return table, nil
}

// ParseTable reads a frequency table. Lines starting with '#' are headers;
// "# corpus: <name>", "# version: <v>" and "# total: <n>" are recognized and
// other headers are comments. Every other non-blank line must be
// "word<TAB>count" with a positive count.
func ParseTable(r io.Reader) (*CorpusTable, error) {
	table := &CorpusTable{}
	counts := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			key, value, ok := strings.Cut(strings.TrimSpace(line[1:]), ":")
			if !ok {
				continue
			}
			switch strings.TrimSpace(key) {
			case "corpus":
				table.Name = strings.TrimSpace(value)
			case "version":
				table.Version = strings.TrimSpace(value)
			case "total":
				n, err := strconv.Atoi(strings.TrimSpace(value))
				if err != nil {
					return nil, fmt.Errorf("line %d: bad total: %w", lineNo, err)
				}
				table.Total = n
			}
			continue
		}

		word, countStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", lineNo)
		}
		if word == "" {
			return nil, fmt.Errorf("line %d: empty word", lineNo)
		}
		n, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count: %w", lineNo, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("line %d: count %d is not positive", lineNo, n)
		}
		if _, dup := counts[word]; dup {
			return nil, fmt.Errorf("line %d: duplicate word %q", lineNo, word)
		}
		counts[word] = n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("table has no entries")
	}

	ft, err := newFrequencyTableFromCounts(counts)
	if err != nil {
		return nil, err
	}
	table.Frequencies = ft
	if err := table.checkTotal(); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteTable writes table in the format read by ParseTable, most frequent
// words first.
func WriteTable(w io.Writer, table *CorpusTable) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# corpus: %s\n", table.Name)
	if table.Version != "" {
		fmt.Fprintf(bw, "# version: %s\n", table.Version)
	}
	fmt.Fprintf(bw, "# total: %d\n", table.Size())
	for _, wc := range table.Frequencies.MostCommon(0) {
		fmt.Fprintf(bw, "%s\t%d\n", wc.Word, wc.Count)
	}
	return bw.Flush()
}

// FrequencyTableFromCounts builds a table from a word to count map. The map
// is copied; empty words and counts below one are rejected.
func FrequencyTableFromCounts(counts map[string]int) (*FrequencyTable, error) {
	owned := make(map[string]int, len(counts))
	for w, n := range counts {
		owned[w] = n
	}
	return newFrequencyTableFromCounts(owned)
}

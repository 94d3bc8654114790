// Package clients holds connections to external stores.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
	"github.com/xetters/inksight"
)

const (
	corpusKeyPrefix = "inksight:corpus:"
	hsetBatchSize   = 1000
	loadRetries     = 3
)

var retryBackoff = 250 * time.Millisecond

// ValkeyClient serves and stores corpus frequency tables as Valkey hashes:
// "inksight:corpus:<name>" maps words to counts and
// "inksight:corpus:<name>:meta" holds the table version and the full corpus
// total.
type ValkeyClient struct {
	Client valkey.Client
}

// NewValkey connects to addr and pings the server.
func NewValkey(addr, password string) (*ValkeyClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", addr))
	return &ValkeyClient{Client: client}, nil
}

// Close closes the connection.
func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

func corpusKey(name string) string { return corpusKeyPrefix + name }

func metaKey(name string) string { return corpusKeyPrefix + name + ":meta" }

// LoadTable implements inksight.CorpusSource.
func (vc *ValkeyClient) LoadTable(ctx context.Context, name string) (*inksight.CorpusTable, error) {
	fields, err := vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Hgetall().Key(corpusKey(name)).Build()
	}, loadRetries).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", corpusKey(name), err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("corpus %q not in valkey", name)
	}

	ft, err := parseCounts(fields)
	if err != nil {
		return nil, err
	}

	meta, err := vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Hgetall().Key(metaKey(name)).Build()
	}, loadRetries).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", metaKey(name), err)
	}

	table := &inksight.CorpusTable{Name: name, Version: meta["version"], Frequencies: ft}
	if raw, ok := meta["total"]; ok {
		if table.Total, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("bad total in %s: %w", metaKey(name), err)
		}
	}
	return table, nil
}

func parseCounts(fields map[string]string) (*inksight.FrequencyTable, error) {
	counts := make(map[string]int, len(fields))
	for word, raw := range fields {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad count for %q: %w", word, err)
		}
		counts[word] = n
	}
	return inksight.FrequencyTableFromCounts(counts)
}

// SaveTable replaces the stored table of the same name.
func (vc *ValkeyClient) SaveTable(ctx context.Context, table *inksight.CorpusTable) error {
	key := corpusKey(table.Name)
	completed := []valkey.Completed{
		vc.Client.B().Del().Key(key).Build(),
		vc.Client.B().Hset().Key(metaKey(table.Name)).FieldValue().
			FieldValue("version", table.Version).
			FieldValue("total", strconv.Itoa(table.Size())).Build(),
	}
	for _, batch := range batchWords(table.Frequencies.MostCommon(0), hsetBatchSize) {
		cmd := vc.Client.B().Hset().Key(key).FieldValue()
		for _, wc := range batch {
			cmd = cmd.FieldValue(wc.Word, strconv.Itoa(wc.Count))
		}
		completed = append(completed, cmd.Build())
	}

	for _, res := range vc.Client.DoMulti(ctx, completed...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] save %s: %w", table.Name, err)
		}
	}

	slog.Info("[ValkeyClient] Saved corpus table",
		slog.String("corpus", table.Name),
		slog.Int("words", table.Frequencies.Len()))
	return nil
}

func batchWords(words []inksight.WordCount, size int) [][]inksight.WordCount {
	var batches [][]inksight.WordCount
	for len(words) > 0 {
		n := min(size, len(words))
		batches = append(batches, words[:n])
		words = words[n:]
	}
	return batches
}

// DoWithRetry runs the command made by build up to retries times, stopping at
// the first success or cancellation. The client recycles a command once it has
// been sent, so every attempt builds a fresh one.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func() valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, build())
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) || ctx.Err() != nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		if i+1 < retries {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(retryBackoff):
			}
		}
	}
	return result
}

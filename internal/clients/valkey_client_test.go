package clients

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"github.com/xetters/inksight"
	"go.uber.org/mock/gomock"
)

func fastRetries(t *testing.T) {
	t.Helper()
	old := retryBackoff
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = old })
}

func TestCorpusKeys(t *testing.T) {
	if got := corpusKey("brown"); got != "inksight:corpus:brown" {
		t.Errorf("corpusKey = %q", got)
	}
	if got := metaKey("brown"); got != "inksight:corpus:brown:meta" {
		t.Errorf("metaKey = %q", got)
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		desc    string
		fields  map[string]string
		total   int
		wantErr bool
	}{
		{"valid", map[string]string{"the": "10", "cat": "2"}, 12, false},
		{"not a number", map[string]string{"the": "ten"}, 0, true},
		{"negative", map[string]string{"the": "-1"}, 0, true},
		{"zero", map[string]string{"the": "3", "ghost": "0"}, 0, true},
		{"empty word", map[string]string{"": "3"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft, err := parseCounts(tt.fields)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ft.Total() != tt.total {
				t.Errorf("total = %d, want %d", ft.Total(), tt.total)
			}
		})
	}
}

func TestBatchWords(t *testing.T) {
	words := inksight.NewFrequencyTable([]string{"a", "b", "c", "d", "e"}).MostCommon(0)
	batches := batchWords(words, 2)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[2]) != 1 {
		t.Errorf("last batch has %d words, want 1", len(batches[2]))
	}
	if batchWords(nil, 2) != nil {
		t.Error("expected no batches for no words")
	}
}

func TestDoWithRetryBuildsEachAttempt(t *testing.T) {
	fastRetries(t)
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	vc := &ValkeyClient{Client: client}

	var sent [][]string
	client.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "inksight:corpus:brown")).
		DoAndReturn(func(_ context.Context, cmd valkey.Completed) valkey.ValkeyResult {
			sent = append(sent, cmd.Commands())
			return mock.ErrorResult(errors.New("connection reset"))
		}).Times(3)

	builds := 0
	res := vc.DoWithRetry(context.Background(), func() valkey.Completed {
		builds++
		return client.B().Hgetall().Key("inksight:corpus:brown").Build()
	}, 3)
	if res.Error() == nil {
		t.Fatal("expected the last error")
	}
	if builds != 3 {
		t.Errorf("command built %d times, want 3", builds)
	}
	want := []string{"HGETALL", "inksight:corpus:brown"}
	for i, args := range sent {
		if !reflect.DeepEqual(args, want) {
			t.Errorf("attempt %d sent %v, want %v", i+1, args, want)
		}
	}
}

func TestLoadTableRetriesTransientError(t *testing.T) {
	fastRetries(t)
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	vc := &ValkeyClient{Client: client}

	words := mock.Result(mock.ValkeyMap(map[string]valkey.ValkeyMessage{
		"the": mock.ValkeyString("600"),
		"cat": mock.ValkeyString("10"),
	}))
	meta := mock.Result(mock.ValkeyMap(map[string]valkey.ValkeyMessage{
		"version": mock.ValkeyString("top-2"),
		"total":   mock.ValkeyString("1000"),
	}))
	gomock.InOrder(
		client.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "inksight:corpus:brown")).
			Return(mock.ErrorResult(errors.New("connection reset"))),
		client.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "inksight:corpus:brown")).
			Return(words),
		client.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "inksight:corpus:brown:meta")).
			Return(meta),
	)

	table, err := vc.LoadTable(context.Background(), "brown")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Version != "top-2" || table.Total != 1000 || table.Size() != 1000 {
		t.Errorf("table version %q total %d", table.Version, table.Total)
	}
	if table.Frequencies.Total() != 610 || table.Frequencies.Count("the") != 600 {
		t.Errorf("listed %d, the=%d", table.Frequencies.Total(), table.Frequencies.Count("the"))
	}
}

func TestLoadTableMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	vc := &ValkeyClient{Client: client}

	client.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "inksight:corpus:reuters")).
		Return(mock.Result(mock.ValkeyMap(map[string]valkey.ValkeyMessage{})))

	if _, err := vc.LoadTable(context.Background(), "reuters"); err == nil {
		t.Error("expected an error for a corpus that is not stored")
	}
}

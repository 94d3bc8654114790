package inksight

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Analyzer results crossing a process boundary are exchanged as JSON. The
// decoders below reject truncated, malformed or error payloads with an
// *AnalysisFailedError so callers can tell engine failures from bad input.

// errorPayload is the shape a failing worker reports.
type errorPayload struct {
	Error *string `json:"error"`
}

// DecodeTextStats decodes a word-frequency result.
func DecodeTextStats(data []byte) (*TextStats, error) {
	return decodeResult("stats", data, func(s *TextStats) error {
		if s.WordCount < 0 || s.SentenceCount < 0 {
			return errors.New("negative count")
		}
		if s.WordCount > 0 && s.Top == nil {
			return errors.New("missing top words")
		}
		return nil
	})
}

// DecodeKeyness decodes a keyness result.
func DecodeKeyness(data []byte) (*KeynessResult, error) {
	return decodeResult("keyness", data, func(r *KeynessResult) error {
		if r.Corpus.Name == "" {
			return errors.New("missing corpus")
		}
		if r.Keywords == nil {
			return errors.New("missing keywords")
		}
		return nil
	})
}

// DecodeSentiment decodes a sentiment result.
func DecodeSentiment(data []byte) (*SentimentResult, error) {
	return decodeResult("sentiment", data, func(r *SentimentResult) error {
		if r.SentenceCount != len(r.Sentences) {
			return fmt.Errorf("sentence_count %d but %d sentences", r.SentenceCount, len(r.Sentences))
		}
		if r.SentenceCount > 0 {
			sum := r.PositiveRatio + r.NeutralRatio + r.NegativeRatio
			if math.Abs(sum-1) > 1e-3 {
				return fmt.Errorf("ratios sum to %v", sum)
			}
		}
		if r.TotalClusters != len(r.Clusters) {
			return fmt.Errorf("total_clusters %d but %d clusters", r.TotalClusters, len(r.Clusters))
		}
		return nil
	})
}

// DecodeReport decodes a combined report.
func DecodeReport(data []byte) (*Report, error) {
	return decodeResult("report", data, func(*Report) error { return nil })
}

func decodeResult[T any](stage string, data []byte, check func(*T) error) (*T, error) {
	fail := func(err error) (*T, error) {
		return nil, &AnalysisFailedError{Stage: stage, Err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fail(errors.New("empty response"))
	}

	var ep errorPayload
	if err := json.Unmarshal(data, &ep); err != nil {
		return fail(err)
	}
	if ep.Error != nil {
		return fail(errors.New(*ep.Error))
	}

	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return fail(err)
	}
	if err := check(v); err != nil {
		return fail(err)
	}
	return v, nil
}

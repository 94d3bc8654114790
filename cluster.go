package inksight

import (
	"context"
	"sort"
	"strings"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball/english"
	"gonum.org/v1/gonum/mat"
)

// SemanticCluster is a group of words that occur in similar contexts.
type SemanticCluster struct {
	ID        int      `json:"id"`
	Label     string   `json:"label"`
	Words     []string `json:"words"`     // every member, most central first
	TopWords  []string `json:"top_words"` // the most central members
	WordCount int      `json:"word_count"`
	Frequency int      `json:"frequency"` // occurrences of all members
}

// ClusterConfig configures semantic clustering.
type ClusterConfig struct {
	WordsPerCluster int // Text words per cluster before clamping
	MinClusters     int
	MaxClusters     int
	Features        int // Context stems used as vector dimensions
	Window          int // Co-occurrence window on each side, within a sentence
	MaxIterations   int
	TopWords        int
}

// DefaultClusterConfig returns standard configuration
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		WordsPerCluster: 200,
		MinClusters:     2,
		MaxClusters:     15,
		Features:        128,
		Window:          2,
		MaxIterations:   20,
		TopWords:        10,
	}
}

// Clusterer groups the distinct words of a document with k-means over
// co-occurrence vectors.
//
// Each word is described by how often the most frequent content stems of the
// document occur within Window words of it in the same sentence, plus its
// own stem. Vectors are L2-normalized and compared by cosine similarity.
// Centroids are seeded deterministically: the most frequent word first, then
// repeatedly the word farthest from every chosen seed. All ties go to the
// more frequent word, then the lexically smaller one, so the result depends
// only on the input text.
//
// Known limitations: words that never share a sentence with a feature stem
// get a zero vector and land in the first cluster.
type Clusterer struct {
	config ClusterConfig
}

// NewClusterer creates a clusterer.
func NewClusterer(config ClusterConfig) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster tokenizes text and clusters its vocabulary.
func (c *Clusterer) Cluster(ctx context.Context, text string) ([]SemanticCluster, error) {
	doc, err := NewDocument(text, WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return c.ClusterDocument(ctx, doc)
}

// ClusterDocument assigns every distinct word of doc to exactly one cluster.
// Clusters are ordered by descending word count and numbered from 1.
func (c *Clusterer) ClusterDocument(ctx context.Context, doc *Document) ([]SemanticCluster, error) {
	vocab := doc.Frequencies().MostCommon(0)
	if len(vocab) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(vocab))
	stems := make([]string, len(vocab))
	stop := make([]bool, len(vocab))
	for i, wc := range vocab {
		index[wc.Word] = i
		stems[i] = english.Stem(wc.Word, false)
		stop[i] = isStopword(wc.Word)
	}

	features := c.selectFeatures(vocab, stems, stop)
	vectors := c.vectors(doc, index, stems, features)

	perCluster := c.config.WordsPerCluster
	if perCluster <= 0 {
		perCluster = DefaultClusterConfig().WordsPerCluster
	}
	k := clampInt(doc.WordCount()/perCluster, c.config.MinClusters, c.config.MaxClusters)
	if k < 1 {
		k = 1
	}
	if k > len(vocab) {
		k = len(vocab)
	}

	assign, centroids, err := c.kmeans(ctx, vectors, k)
	if err != nil {
		return nil, err
	}
	return c.buildClusters(vocab, stop, vectors, assign, centroids), nil
}

// selectFeatures picks the most frequent non-stopword stems. When the text
// has only stopwords every stem is a candidate.
func (c *Clusterer) selectFeatures(vocab []WordCount, stems []string, stop []bool) map[string]int {
	freq := map[string]int{}
	for i, wc := range vocab {
		if !stop[i] {
			freq[stems[i]] += wc.Count
		}
	}
	if len(freq) == 0 {
		for i, wc := range vocab {
			freq[stems[i]] += wc.Count
		}
	}

	ranked := make([]WordCount, 0, len(freq))
	for s, n := range freq {
		ranked = append(ranked, WordCount{Word: s, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if c.config.Features > 0 && len(ranked) > c.config.Features {
		ranked = ranked[:c.config.Features]
	}

	features := make(map[string]int, len(ranked))
	for i, r := range ranked {
		features[r.Word] = i
	}
	return features
}

func (c *Clusterer) vectors(doc *Document, index map[string]int, stems []string, features map[string]int) []*mat.VecDense {
	vecs := make([]*mat.VecDense, len(stems))
	for i := range vecs {
		vecs[i] = mat.NewVecDense(len(features), nil)
		if f, ok := features[stems[i]]; ok {
			vecs[i].SetVec(f, 1)
		}
	}

	for _, sent := range doc.sentenceTokens() {
		for i, tok := range sent {
			w := index[tok.Text]
			lo, hi := maxInt(0, i-c.config.Window), minInt(len(sent)-1, i+c.config.Window)
			for j := lo; j <= hi; j++ {
				if j == i {
					continue
				}
				if f, ok := features[stems[index[sent[j].Text]]]; ok {
					vecs[w].SetVec(f, vecs[w].AtVec(f)+1)
				}
			}
		}
	}

	for _, v := range vecs {
		if n := mat.Norm(v, 2); n > 0 {
			v.ScaleVec(1/n, v)
		}
	}
	return vecs
}

func (c *Clusterer) kmeans(ctx context.Context, vectors []*mat.VecDense, k int) ([]int, []*mat.VecDense, error) {
	dim := vectors[0].Len()
	centroids := seedCentroids(vectors, k)
	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxInt(1, c.config.MaxIterations); iter++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		changed := false
		for i, v := range vectors {
			best := nearest(v, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sizes := make([]int, k)
		sums := make([]*mat.VecDense, k)
		for j := range sums {
			sums[j] = mat.NewVecDense(dim, nil)
		}
		for i, v := range vectors {
			sums[assign[i]].AddVec(sums[assign[i]], v)
			sizes[assign[i]]++
		}
		for j := range centroids {
			if sizes[j] > 0 {
				sums[j].ScaleVec(1/float64(sizes[j]), sums[j])
				centroids[j] = sums[j]
			}
		}
	}
	return assign, centroids, nil
}

// seedCentroids is farthest-point initialisation starting from vector 0.
func seedCentroids(vectors []*mat.VecDense, k int) []*mat.VecDense {
	chosen := make([]bool, len(vectors))
	minDist := make([]float64, len(vectors))
	centroids := make([]*mat.VecDense, 0, k)

	pick := func(i int) {
		chosen[i] = true
		c := mat.VecDenseCopyOf(vectors[i])
		centroids = append(centroids, c)
		for j, v := range vectors {
			d := 1 - cosine(v, c)
			if len(centroids) == 1 || d < minDist[j] {
				minDist[j] = d
			}
		}
	}

	pick(0)
	for len(centroids) < k {
		next := -1
		for j := range vectors {
			if chosen[j] {
				continue
			}
			if next < 0 || minDist[j] > minDist[next] {
				next = j
			}
		}
		pick(next)
	}
	return centroids
}

// nearest returns the centroid most similar to v, the lowest index on ties.
func nearest(v *mat.VecDense, centroids []*mat.VecDense) int {
	best, bestSim := 0, cosine(v, centroids[0])
	for j := 1; j < len(centroids); j++ {
		if sim := cosine(v, centroids[j]); sim > bestSim {
			best, bestSim = j, sim
		}
	}
	return best
}

func cosine(a, b *mat.VecDense) float64 {
	na, nb := mat.Norm(a, 2), mat.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(a, b) / (na * nb)
}

func (c *Clusterer) buildClusters(vocab []WordCount, stop []bool, vectors []*mat.VecDense, assign []int, centroids []*mat.VecDense) []SemanticCluster {
	members := make([][]int, len(centroids))
	for i, j := range assign {
		members[j] = append(members[j], i)
	}

	var clusters []SemanticCluster
	for j, idx := range members {
		if len(idx) == 0 {
			continue
		}

		// idx is in vocabulary order: most frequent first.
		label := vocab[idx[0]].Word
		for _, i := range idx {
			if !stop[i] {
				label = vocab[i].Word
				break
			}
		}

		sim := make(map[int]float64, len(idx))
		freq := 0
		for _, i := range idx {
			sim[i] = cosine(vectors[i], centroids[j])
			freq += vocab[i].Count
		}
		ordered := append([]int(nil), idx...)
		sort.SliceStable(ordered, func(a, b int) bool {
			if sim[ordered[a]] != sim[ordered[b]] {
				return sim[ordered[a]] > sim[ordered[b]]
			}
			return vocab[ordered[a]].Word < vocab[ordered[b]].Word
		})

		words := make([]string, len(ordered))
		for n, i := range ordered {
			words[n] = vocab[i].Word
		}
		top := words
		if c.config.TopWords > 0 && len(top) > c.config.TopWords {
			top = top[:c.config.TopWords]
		}

		clusters = append(clusters, SemanticCluster{
			Label:     label,
			Words:     words,
			TopWords:  top,
			WordCount: len(words),
			Frequency: freq,
		})
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].WordCount > clusters[b].WordCount
	})
	for i := range clusters {
		clusters[i].ID = i + 1
	}
	return clusters
}

// isStopword reports whether the English stopword list contains word.
func isStopword(word string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// minInt returns the minimum of two integers
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

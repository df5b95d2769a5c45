package similarity

import (
	"context"
	"hash/fnv"
	"math"
)

// HashEmbedder is a deterministic, model-free Embedder: it hashes
// overlapping trigrams of the input text into a fixed-size vector. It
// exists so the pipeline runs end-to-end without a model dependency
// (spec §1 Non-goals exclude embedding model choice); production
// deployments swap in a real model-backed Embedder.
type HashEmbedder struct {
	Dims int
}

func NewHashEmbedder(dims int) HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return HashEmbedder{Dims: dims}
}

func (h HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.Dims)
	if len(text) < 3 {
		return vec, nil
	}
	for i := 0; i+3 <= len(text); i++ {
		hasher := fnv.New32a()
		_, _ = hasher.Write([]byte(text[i : i+3]))
		idx := hasher.Sum32() % uint32(h.Dims)
		vec[idx]++
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
}

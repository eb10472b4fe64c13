// Package vector implements similarity scoring over embedding vectors.
package vector

import (
	"math"

	"go.uber.org/zap"
)

// Cosine returns the cosine similarity between a and b, clamped to [-1, 1].
//
// Edge cases, in priority order: mismatched dimensions return 0 (checked
// before any vector-space operation), a zero-norm vector returns 0, and a
// NaN/Inf result returns 0. Similarity to "nothing" is no signal, never an
// error — this function cannot fail.
func Cosine(a, b []float32, logger *zap.Logger) float64 {
	if len(a) != len(b) {
		if logger != nil {
			logger.Warn("vector dimension mismatch",
				zap.Int("len_a", len(a)),
				zap.Int("len_b", len(b)),
			)
		}
		return 0.0
	}
	if len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0.0
	}

	return clamp(sim, -1.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

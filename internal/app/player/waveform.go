package player

import (
	"hash/fnv"
	"math/rand"
)

// Waveform produces a fixed-length array of amplitude samples in [0, 1],
// deterministically derived from the track id. It is visualization data
// only, not analysis of the decoded audio signal.
func Waveform(trackID string, samples int) []float64 {
	if samples <= 0 {
		return nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(trackID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	raw := make([]float64, samples)
	for i := range raw {
		raw[i] = 0.15 + 0.85*rng.Float64()
	}

	// Neighbor smoothing keeps the bars looking like an envelope rather
	// than noise.
	out := make([]float64, samples)
	for i := range raw {
		sum, n := raw[i], 1.0
		if i > 0 {
			sum += raw[i-1]
			n++
		}
		if i < samples-1 {
			sum += raw[i+1]
			n++
		}
		out[i] = sum / n
	}
	return out
}

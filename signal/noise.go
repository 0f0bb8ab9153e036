package signal

import (
	"math/rand"
)

// Noise perturbs the summed waveform. It is injectable so tests run with a
// deterministic (or zero) source.
type Noise interface {
	Sample() float64
}

// GaussianNoise is a seedable normal noise source.
type GaussianNoise struct {
	rng   *rand.Rand
	sigma float64
}

// NewGaussianNoise creates a Gaussian noise source with the given seed and
// standard deviation.
func NewGaussianNoise(seed int64, sigma float64) *GaussianNoise {
	return &GaussianNoise{
		rng:   rand.New(rand.NewSource(seed)),
		sigma: sigma,
	}
}

// Sample returns one normally distributed value.
func (n *GaussianNoise) Sample() float64 {
	return n.rng.NormFloat64() * n.sigma
}

// ZeroNoise is the silent source used by tests and plots that need exact
// reproducibility.
type ZeroNoise struct{}

func (ZeroNoise) Sample() float64 { return 0 }

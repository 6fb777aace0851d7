package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const seedStream = 0x9e3779b97f4a7c15

// Source is the random stream of one simulation. It is not safe for
// concurrent use; give each concurrent simulation its own Source.
type Source struct {
	pcg *rand.PCG
	rng *rand.Rand
}

func NewSource(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed^seedStream)
	return &Source{pcg: pcg, rng: rand.New(pcg)}
}

func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

func (s *Source) Uint64() uint64 {
	return s.rng.Uint64()
}

// Normal draws from N(mu, sigma). sigma == 0 returns mu without consuming
// the stream.
func (s *Source) Normal(mu, sigma float64) float64 {
	if sigma == 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.pcg}.Rand()
}

// LogNormalLevel draws exp(N(mu, sigma)).
func (s *Source) LogNormalLevel(mu, sigma float64) float64 {
	return math.Exp(s.Normal(mu, sigma))
}

// Split derives n independent seeds, one per child simulation.
func (s *Source) Split(n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = s.Uint64()
	}
	return seeds
}

package service

import "github.com/brianvoe/gofakeit/v7"

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a seedable source. A zero seed draws a random one.
func NewRandomSource(seed uint64) RandomSource {
	return &fakerSource{faker: gofakeit.New(seed)}
}

type fakerSource struct {
	faker *gofakeit.Faker
}

// Float64 keeps the top 53 bits of a uniform uint64.
func (s *fakerSource) Float64() float64 {
	return float64(s.faker.Uint64()>>11) / (1 << 53)
}

// randomIndex maps one draw onto [0, n).
func randomIndex(rng RandomSource, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(rng.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

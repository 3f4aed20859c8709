package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique names. The sequence is seeded with 0
// so the same input always gets the same names.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) RandomName() string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := (*rng)[name]; !exists {
			(*rng)[name] = struct{}{}
			return name
		}
	}
}

// NameOr reserves name and returns it, or a random one when name is empty or already taken.
func (rng *RandomNameGenerator) NameOr(name string) string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	if name == "" {
		return rng.RandomName()
	}
	if _, exists := (*rng)[name]; exists {
		return rng.RandomName()
	}
	(*rng)[name] = struct{}{}
	return name
}

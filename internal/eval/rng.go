package eval

import (
	"math/rand"
	"time"
)

// NewRNG constructs a fresh per-delivery RNG source: a *rand.Rand seeded
// once per delivery, never shared across concurrent deliveries without
// external locking. Callers must not reuse one Evaluator/RNG pair across
// two deliveries running concurrently.
func NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomAlphanumeric produces a string of exactly n characters drawn from
// [A-Za-z0-9].
func randomAlphanumeric(rng *rand.Rand, n uint8) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return string(out)
}

package txsim

import (
	"sync"

	"pgregory.net/rand"
)

// Randomness supplies the entropy behind identifiers, confirmation delays and
// the cosmetic network values. Implementations must be safe for concurrent
// use.
type Randomness interface {
	// Read fills p with random bytes.
	Read(p []byte)

	// Uint64n returns a uniform value in [0, n). n must be greater than zero.
	Uint64n(n uint64) uint64
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

var _ Randomness = (*lockedRand)(nil)

// NewRandomness returns a Randomness backed by pgregory.net/rand. Without a
// seed the generator is seeded from the operating system; with a seed the
// sequence is reproducible.
func NewRandomness(seed ...uint64) Randomness {
	return &lockedRand{rnd: rand.New(seed...)}
}

func (r *lockedRand) Read(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = r.rnd.Read(p)
}

func (r *lockedRand) Uint64n(n uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rnd.Uint64n(n)
}

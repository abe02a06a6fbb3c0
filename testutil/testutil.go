package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/eidgo"
)

// Word pools for synthetic dotted identifiers. Small on purpose: shared
// prefixes are what make a corpus exercise the radix tree's edge splitting.
var (
	namespaces = []string{"pandc", "platform", "checkout", "search", "growth"}
	groups     = []string{"vnext", "legacy", "core", "mobile", "web"}
	subgroups  = []string{
		"recommendations", "discovery", "cart", "profile", "payments",
		"notifications", "listing", "session",
	}
	actions = []string{
		"view", "click", "add", "remove", "submit", "expand", "dismiss",
		"scroll", "hover", "load",
	}
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// pick returns a random element of pool.
func (r *RNG) pick(pool []string) string {
	return pool[r.Intn(len(pool))]
}

// Identifiers generates n unique dotted identifiers. The pools are small, so
// past their cross product a numeric suffix keeps ids unique; real corpora
// have the same long-tail shape.
func (r *RNG) Identifiers(n int) []string {
	seen := make(map[string]struct{}, n)
	ids := make([]string, 0, n)
	for len(ids) < n {
		id := fmt.Sprintf("%s.%s.%s.%s",
			r.pick(namespaces), r.pick(groups), r.pick(subgroups), r.pick(actions))
		if _, dup := seen[id]; dup {
			id = fmt.Sprintf("%s%d", id, r.Intn(1_000_000))
			if _, dup := seen[id]; dup {
				continue
			}
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Corpus generates n unique identifier records with Zipf-distributed usage
// frequencies and LastSeen values spread over the 30 days before now.
func (r *RNG) Corpus(n int, now time.Time) []eidgo.Metadata {
	ids := r.Identifiers(n)

	r.mu.Lock()
	zipf := rand.NewZipf(r.rand, 1.2, 1.0, 5000)
	r.mu.Unlock()

	records := make([]eidgo.Metadata, n)
	for i, id := range ids {
		ns, g, sg, rest := SplitID(id)
		records[i] = eidgo.Metadata{
			ID:              id,
			Namespace:       ns,
			Group:           g,
			Subgroup:        sg,
			Action:          rest,
			LastSeen:        now.Add(-time.Duration(r.Intn(30*24)) * time.Hour),
			Frequency:       r.zipfSample(zipf),
			AvgResponseTime: 10 + 490*r.Float64(),
			ErrorRate:       r.Float64() * 0.05,
		}
	}
	return records
}

func (r *RNG) zipfSample(z *rand.Zipf) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return z.Uint64()
}

// SplitID splits a dotted id into its first three segments plus the joined
// remainder, mirroring what the upstream parser supplies.
func SplitID(id string) (namespace, group, subgroup, rest string) {
	parts := strings.Split(id, ".")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	if len(parts) > 3 {
		rest = strings.Join(parts[3:], ".")
	}
	return get(0), get(1), get(2), rest
}

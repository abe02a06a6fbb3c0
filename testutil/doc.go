// Package testutil provides testing utilities for eidgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating synthetic identifier corpora with
// realistic shape: dotted hierarchical ids drawn from small word pools and
// usage counters following a Zipf distribution.
//
// # Synthetic Corpora
//
//	rng := testutil.NewRNG(seed)
//	records := rng.Corpus(10000, time.Now())
//
// The generator is deterministic for a given seed, so failures reproduce.
package testutil

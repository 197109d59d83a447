package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a graph is built from zero movements;
	// the time span is undefined so no graph is produced.
	ErrEmptyInput = errors.New("no movements to build a graph from")

	// ErrUnknownSeed is returned when a query names a vertex that is not in
	// the graph, so "no data" is never confused with "unreachable".
	ErrUnknownSeed = errors.New("unknown seed")
)

// SeedError carries the seed a query was issued for.
type SeedError struct {
	Seed string
}

func (e *SeedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrUnknownSeed, e.Seed)
}

func (e *SeedError) Unwrap() error { return ErrUnknownSeed }

// UnknownSeed builds a SeedError for seed.
func UnknownSeed(seed any) error {
	return &SeedError{Seed: fmt.Sprint(seed)}
}

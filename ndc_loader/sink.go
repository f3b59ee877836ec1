package main

import (
	"context"

	"ndcduns/spl"
)

// MappingSink is a destination for the mappings of a run. Replace discards
// whatever the destination held before and stores mappings in order. It
// returns the number of mappings stored, which can be lower than
// len(mappings) when individual rows are rejected.
type MappingSink interface {
	Replace(ctx context.Context, run Run, mappings []spl.Mapping) (int, error)
	Name() string
}

// EstablishmentMatcher rebuilds the NDC to establishment join from a fresh
// establishment registry.
type EstablishmentMatcher interface {
	MatchEstablishments(ctx context.Context, entries []Establishment) (int64, error)
}

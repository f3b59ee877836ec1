package spl

import (
	"fmt"
	"io"
	"strings"
)

// Mode selects the extraction generation. The zero Mode is invalid so that
// callers always choose one.
type Mode int

const (
	modeUnset Mode = iota
	// ModeFiltered correlates manufacturer organizations with products and
	// emits one mapping per NDC with both NDC and DUNS present.
	ModeFiltered
	// ModeEmitAll emits every registered establishment × activity × NDC
	// combination, nulls allowed.
	ModeEmitAll
)

func (m Mode) String() string {
	switch m {
	case ModeFiltered:
		return "filtered"
	case ModeEmitAll:
		return "emit-all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "filtered", "gen1":
		return ModeFiltered, nil
	case "emit-all", "emitall", "gen2":
		return ModeEmitAll, nil
	default:
		return modeUnset, fmt.Errorf("unknown extraction mode %q (want filtered or emit-all)", s)
	}
}

// Config controls an Extractor.
type Config struct {
	Mode Mode
	// ManufactureOnly restricts ModeEmitAll to activities labelled exactly
	// MANUFACTURE. It has no effect in ModeFiltered.
	ManufactureOnly bool
}

// Extractor turns documents into mappings. It holds no per-document state
// and is safe for concurrent use.
type Extractor struct {
	cfg Config
}

// NewExtractor validates cfg and returns an Extractor.
func NewExtractor(cfg Config) (*Extractor, error) {
	switch cfg.Mode {
	case ModeFiltered, ModeEmitAll:
	default:
		return nil, fmt.Errorf("extraction mode must be set explicitly, got %v", cfg.Mode)
	}
	return &Extractor{cfg: cfg}, nil
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract returns the mappings of one parsed document.
func (e *Extractor) Extract(d *Document) []Mapping {
	if e.cfg.Mode == ModeEmitAll {
		return EstablishmentMappings(Establishments(d), e.cfg.ManufactureOnly)
	}
	manufacturers := Manufacturers(FindOrganizations(d), AuthorOrganizations(d))
	return Correlate(manufacturers, FindProducts(d))
}

// ExtractReader parses and extracts one document. Any failure is returned
// as a *DocumentError with no mappings.
func (e *Extractor) ExtractReader(name string, r io.Reader) ([]Mapping, error) {
	d, err := Parse(name, r)
	if err != nil {
		return nil, err
	}
	return e.safeExtract(d)
}

// ExtractFile parses and extracts the document at path. Any failure is
// returned as a *DocumentError with no mappings.
func (e *Extractor) ExtractFile(path string) ([]Mapping, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return e.safeExtract(d)
}

// safeExtract converts a panic inside the query engine into a per-document
// error so one pathological label cannot stop a batch.
func (e *Extractor) safeExtract(d *Document) (mappings []Mapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			mappings = nil
			err = &DocumentError{Name: d.Name, Err: fmt.Errorf("extract: %v", r)}
		}
	}()
	return e.Extract(d), nil
}

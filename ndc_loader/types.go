package main

import (
	"ndcduns/spl"

	"github.com/google/uuid"
)

// MappingRow is the Parquet schema for extracted mappings. One row per
// emitted NDC/DUNS pair; either side may be null in emit-all runs.
type MappingRow struct {
	RunID     string  `parquet:"run_id"`
	NDC       *string `parquet:"ndc,optional"`
	DUNS      *string `parquet:"duns,optional"`
	NDCDigits *string `parquet:"ndc_digits,optional"`
}

func toMappingRow(runID string, m spl.Mapping) MappingRow {
	return MappingRow{
		RunID:     runID,
		NDC:       m.NDC,
		DUNS:      m.DUNS,
		NDCDigits: m.NDCDigits,
	}
}

// Run identifies one load and carries what the sinks record about it.
type Run struct {
	ID     uuid.UUID
	Mode   spl.Mode
	Source string
	Stats  Stats
}

func newRun(mode spl.Mode, source string) Run {
	return Run{ID: uuid.New(), Mode: mode, Source: source}
}

// Stats summarizes the extraction phase of a run.
type Stats struct {
	Documents       int
	Failed          int
	WithMappings    int
	WithoutMappings int

	// Counted over per-document mappings before any cross-document merge.
	Records  int
	Both     int
	NDCOnly  int
	DUNSOnly int

	// Mappings handed to the sinks.
	Mappings int
}

func (s *Stats) addDocument(ms []spl.Mapping) {
	if len(ms) == 0 {
		s.WithoutMappings++
		return
	}
	s.WithMappings++
	for _, m := range ms {
		s.Records++
		switch {
		case m.NDC != nil && m.DUNS != nil:
			s.Both++
		case m.NDC != nil:
			s.NDCOnly++
		case m.DUNS != nil:
			s.DUNSOnly++
		}
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Establishment is one entry of the FDA establishment registry export.
type Establishment struct {
	DUNS    string  `json:"duns"`
	FEI     *string `json:"fei"`
	Address *string `json:"address"`
}

// LoadEstablishments reads a JSON array of {"duns", "fei", "address"}
// objects. Every entry must carry a DUNS; blank FEI and address values are
// treated as missing.
func LoadEstablishments(path string) ([]Establishment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read establishments file: %w", err)
	}

	var entries []Establishment
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse establishments file: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		e.DUNS = strings.TrimSpace(e.DUNS)
		if e.DUNS == "" {
			return nil, fmt.Errorf("establishment %d: missing duns", i)
		}
		e.FEI = trimOpt(e.FEI)
		e.Address = trimOpt(e.Address)
	}
	return entries, nil
}

func trimOpt(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

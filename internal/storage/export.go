package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

// ExportData is the full content of a stored run as one JSON document.
type ExportData struct {
	Metadata RunMetadata      `json:"metadata"`
	Trace    []sim.Sample     `json:"trace"`
	Spins    [][]lattice.Spin `json:"spins"`
	Domains  [][]int          `json:"domains"`
}

// Export loads every file of a stored run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return nil, err
	}
	l, err := s.LoadLattice(runID)
	if err != nil {
		return nil, err
	}
	labels, err := s.LoadDomains(runID)
	if err != nil {
		return nil, err
	}

	if len(labels) != l.Len() {
		return nil, fmt.Errorf("%s: %d labels for %d sites: %w", runID, len(labels), l.Len(), lattice.ErrInvalidDimension)
	}

	rows := make([][]int, l.Size)
	for r := range rows {
		rows[r] = labels[r*l.Size : (r+1)*l.Size]
	}

	return &ExportData{
		Metadata: *meta,
		Trace:    trace,
		Spins:    l.Grid(),
		Domains:  rows,
	}, nil
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

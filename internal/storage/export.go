package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/locosim/internal/sim"
)

type ExportData struct {
	Name     string             `json:"name"`
	Legs     int                `json:"legs"`
	Path     string             `json:"path"`
	Frames   int                `json:"frames"`
	SubSteps int                `json:"sub_steps"`
	Columns  []string           `json:"columns"`
	Rows     [][]float64        `json:"rows"`
	Metrics  map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, trace *Trace) ExportData {
	return ExportData{
		Name:     meta.Name,
		Legs:     meta.Legs,
		Path:     meta.Path,
		Frames:   meta.Frames,
		SubSteps: meta.SubSteps,
		Columns:  trace.Columns,
		Rows:     trace.Rows,
		Metrics:  meta.Metrics,
	}
}

// NewExportData packages a fresh result the same way a stored run is
// exported.
func NewExportData(name string, legs int, path string, result *sim.Result) ExportData {
	feet := 0
	if len(result.Samples) > 0 {
		feet = len(result.Samples[0].Feet)
	}
	rows := make([][]float64, len(result.Samples))
	for i := range result.Samples {
		rows[i] = SampleRow(&result.Samples[i])
	}
	return ExportData{
		Name:     name,
		Legs:     legs,
		Path:     path,
		Frames:   result.Frames,
		SubSteps: result.SubSteps,
		Columns:  TraceColumns(feet),
		Rows:     rows,
		Metrics:  result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a stored run to path, or to stdout when path is empty.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	if path == "" {
		return WriteJSON(os.Stdout, exportData(meta, trace))
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, exportData(meta, trace))
}

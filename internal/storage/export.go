package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/sim"
)

type ExportData struct {
	Meta   RunMetadata       `json:"meta"`
	Times  []float64         `json:"times"`
	Frames []dynamo.Snapshot `json:"frames"`
}

func NewExport(meta RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		Meta:   meta,
		Times:  result.Times,
		Frames: result.Frames,
	}
}

// WriteJSON encodes the export with indentation.
func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}

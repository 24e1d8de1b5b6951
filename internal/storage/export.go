package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Records []Record    `json:"records"`
}

func ExportJSON(w io.Writer, meta RunMetadata, records []Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Records: records})
}

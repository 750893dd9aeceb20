package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentVersion is written into every export.
const DocumentVersion = "1.0"

// Document is the backup file format.
type Document struct {
	SavedMonths []MonthSnapshot `json:"savedMonths"`
	ExportDate  time.Time       `json:"exportDate"`
	Version     string          `json:"version"`
}

// ExportFilename is the download name of a backup taken on day.
func ExportFilename(day time.Time) string {
	return fmt.Sprintf("financial-tracker-backup-%s.json", day.Format("2006-01-02"))
}

// Encode renders the document as indented JSON.
func (d Document) Encode() ([]byte, error) {
	if d.SavedMonths == nil {
		d.SavedMonths = []MonthSnapshot{}
	}
	return json.MarshalIndent(d, "", "  ")
}

// DecodeDocument parses a backup. Only savedMonths is required, and it must
// be an array; every other field is informational.
func DecodeDocument(data []byte) ([]MonthSnapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	raw, ok := fields["savedMonths"]
	if !ok {
		return nil, fmt.Errorf("%w: missing savedMonths", ErrMalformedImport)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: savedMonths is not an array", ErrMalformedImport)
	}
	var months []MonthSnapshot
	if err := json.Unmarshal(raw, &months); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if months == nil {
		months = []MonthSnapshot{}
	}
	return months, nil
}

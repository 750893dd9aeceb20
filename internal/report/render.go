package report

import (
	"fmt"
	"io"

	"fintrack/internal/core"
)

// Renderer writes a bundle as a downloadable document.
type Renderer interface {
	Render(w io.Writer, b Bundle) error
	ContentType() string
	Filename(key core.MonthKey) string
}

const Title = "Financial Summary Report"

// NewRenderer returns the renderer for "pdf" or "text".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "pdf", "":
		return PDFRenderer{}, nil
	case "text", "txt":
		return TextRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

func monthLine(key core.MonthKey) string {
	return "Month: " + key.Label()
}

func sectionHeading(s Section) string {
	return fmt.Sprintf("%s: %s", s.Title, s.Total)
}

func lineText(l Line) string {
	text := fmt.Sprintf("%s: %s", l.Label, l.Value)
	if l.Note != "" {
		text += " (" + l.Note + ")"
	}
	return text
}

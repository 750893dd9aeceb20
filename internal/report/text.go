package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fintrack/internal/core"
)

// DefaultPageLines is the page height of TextRenderer when unset.
const DefaultPageLines = 60

// TextRenderer writes fixed-height plain-text pages separated by form feeds.
type TextRenderer struct {
	PageLines int
}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Filename(key core.MonthKey) string {
	return fmt.Sprintf("financial-summary-%s.txt", key)
}

func (r TextRenderer) Render(w io.Writer, b Bundle) error {
	bw := bufio.NewWriter(w)
	for i, page := range r.Pages(b) {
		if i > 0 {
			bw.WriteString("\f\n")
		}
		for _, line := range page {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Pages splits the report into pages. A section starts on a new page when
// it would not fit on the current one.
func (r TextRenderer) Pages(b Bundle) [][]string {
	height := r.PageLines
	if height <= 0 {
		height = DefaultPageLines
	}

	head := []string{Title, monthLine(b.MonthKey), "", "Financial Summary"}
	for _, l := range Summary(b) {
		head = append(head, "  "+lineText(l))
	}
	blocks := [][]string{head}
	for _, s := range Sections(b) {
		block := []string{"", sectionHeading(s), strings.Repeat("-", len(sectionHeading(s)))}
		for _, l := range s.Lines {
			block = append(block, "    "+lineText(l))
		}
		blocks = append(blocks, block)
	}

	var pages [][]string
	var cur []string
	for _, block := range blocks {
		if len(cur) > 0 && len(cur)+len(block) > height {
			pages = append(pages, cur)
			cur = nil
		}
		for _, line := range block {
			if len(cur) == 0 && line == "" {
				continue
			}
			if len(cur) == height {
				pages = append(pages, cur)
				cur = nil
			}
			cur = append(cur, line)
		}
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// Package formatter renders run reports as markdown.
package formatter

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"perrons/internal/normalizer"
	"perrons/pkg/utils"
)

// maxDetailWidth bounds the detail column of the skipped-row table.
const maxDetailWidth = 80

// Report is everything RenderReport needs.
type Report struct {
	Summary  *normalizer.Summary
	Stations []normalizer.StationStats
	Skipped  []normalizer.Skip
	Locale   language.Tag
}

// RenderReport renders a summary table, a per-station table and the list of
// skipped rows. Numbers are printed in the report locale.
func RenderReport(r Report) string {
	p := message.NewPrinter(r.Locale)
	sh := utils.NewStringHelper()

	var sb strings.Builder

	sb.WriteString("# Perron build report\n\n")

	if s := r.Summary; s != nil {
		sb.WriteString("## Summary\n\n")
		writeTable(&sb, [][]string{
			{"Metric", "Value"},
			{"Input rows", p.Sprintf("%d", s.InputRows)},
			{"Filtered rows", p.Sprintf("%d", s.FilteredRows)},
			{"Stations", p.Sprintf("%d", s.Stations)},
			{"Perrons", p.Sprintf("%d", s.Perrons)},
			{"Tracks", p.Sprintf("%d", s.Tracks)},
			{"Skipped rows", p.Sprintf("%d", s.SkippedRows)},
			{"Min perron length (m)", p.Sprintf("%.2f", s.MinLength)},
			{"Max perron length (m)", p.Sprintf("%.2f", s.MaxLength)},
			{"Min perron height (m)", p.Sprintf("%.2f", s.MinHeight)},
			{"Max perron height (m)", p.Sprintf("%.2f", s.MaxHeight)},
		})

		if len(s.SkipsByReason) > 0 {
			reasons := make([]string, 0, len(s.SkipsByReason))
			for reason := range s.SkipsByReason {
				reasons = append(reasons, reason)
			}

			sort.Strings(reasons)

			table := [][]string{{"Skip reason", "Rows"}}
			for _, reason := range reasons {
				table = append(table, []string{reason, p.Sprintf("%d", s.SkipsByReason[reason])})
			}

			sb.WriteString("\n")
			writeTable(&sb, table)
		}
	}

	if len(r.Stations) > 0 {
		sb.WriteString("\n## Stations\n\n")

		table := [][]string{{"Station", "Rows", "Perrons", "Tracks"}}
		for _, st := range r.Stations {
			table = append(table, []string{
				st.Station,
				p.Sprintf("%d", st.Rows),
				p.Sprintf("%d", st.Perrons),
				p.Sprintf("%d", st.Tracks),
			})
		}

		writeTable(&sb, table)
	}

	if len(r.Skipped) > 0 {
		sb.WriteString("\n## Skipped rows\n\n")

		table := [][]string{{"Station", "Id", "Reason", "Detail"}}
		for _, s := range r.Skipped {
			detail := sh.TruncateString(sh.NormalizeWhitespace(s.Detail), maxDetailWidth)
			table = append(table, []string{s.Station, s.ID, s.Reason, escapeCell(detail)})
		}

		writeTable(&sb, table)
	}

	return sb.String()
}

func writeTable(sb *strings.Builder, table [][]string) {
	for _, line := range FormatTable(table) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// FormatTable renders a header row plus body rows as an aligned markdown
// table. Column widths use display width so umlauts and wide runes line up.
func FormatTable(table [][]string) []string {
	if len(table) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row); i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Ensure min width for separator (usually 3 dashes "---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)
	result = append(result, formatRow(table[0], colWidths))

	separator := make([]string, colCount)
	for j := range separator {
		separator[j] = strings.Repeat("-", colWidths[j])
	}

	result = append(result, formatRow(separator, colWidths))

	for _, row := range table[1:] {
		result = append(result, formatRow(row, colWidths))
	}

	return result
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := colWidths[j] - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

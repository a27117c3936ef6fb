package scholarly

import (
	"fmt"
	"strings"
)

// FormatRecords formats ranked records for terminal display, one per line.
// Unknown years render as "?"; records without a link show the title only.
func FormatRecords(records []*Record) string {
	if len(records) == 0 {
		return ""
	}

	lines := make([]string, 0, len(records))
	for i, r := range records {
		line := fmt.Sprintf("%d. [%d] %s (%s)", i+1, r.Citations, r.Title, r.Year)
		if r.HasLink() {
			line += " " + r.Link
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

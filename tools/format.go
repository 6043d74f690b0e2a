package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/headerstamp/header"
	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/walker"
)

// FormatSearchResults formats ledger records as human-readable text.
func FormatSearchResults(records []*index.Record, total int) string {
	if len(records) == 0 {
		return "No revised files matched."
	}

	var builder strings.Builder
	if total > len(records) {
		builder.WriteString(fmt.Sprintf("Found %d files (showing %d):\n\n", total, len(records)))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d files:\n\n", total))
	}

	for _, record := range records {
		builder.WriteString(fmt.Sprintf("  %s  (%s)\n", record.RelativePath, record.Language))
		builder.WriteString(fmt.Sprintf("      version=%q author=%q updated=%q\n",
			record.Version, record.Author, record.Updated))
	}

	return builder.String()
}

// FormatFields formats the tag values of one file. A tag that is absent or
// carries no value is shown as (none).
func FormatFields(filePath string, fields header.Fields) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s ──\n", filePath))

	if fields.Empty() {
		builder.WriteString("  no header tags\n")
		return builder.String()
	}

	values := []struct {
		tag   header.Tag
		value string
	}{
		{header.TagFile, fields.File},
		{header.TagCreate, fields.Create},
		{header.TagVersion, fields.Version},
		{header.TagUpdate, fields.Update},
		{header.TagAuthor, fields.Author},
	}
	for _, v := range values {
		switch {
		case v.value == "":
			builder.WriteString(fmt.Sprintf("  %-10s (none)\n", v.tag.Marker))
		case fields.Pending(v.tag):
			builder.WriteString(fmt.Sprintf("  %-10s %s (not yet stamped)\n", v.tag.Marker, v.value))
		default:
			builder.WriteString(fmt.Sprintf("  %-10s %s\n", v.tag.Marker, v.value))
		}
	}

	return builder.String()
}

// FormatResult formats the counters of one walk.
func FormatResult(result walker.Result) string {
	return fmt.Sprintf("revised: %d files (%d already current, %d skipped, %d errors) in %s",
		result.Revised,
		result.Unchanged,
		result.Skipped,
		result.Errors,
		result.Duration.Round(time.Millisecond),
	)
}

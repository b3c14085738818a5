package render

import (
	"encoding/json"
	"io"

	"suppressaudit/scanner"
)

// JSON writes the report as indented JSON. Issues is always an array.
func JSON(w io.Writer, report *scanner.Report) error {
	out := *report
	if out.Issues == nil {
		out.Issues = []scanner.Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

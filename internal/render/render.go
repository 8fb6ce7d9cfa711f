// Package render produces dry-run reports from planned replacements.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/envsecrets/internal/envfile"
	"github.com/dshills/envsecrets/internal/redact"
	"github.com/dshills/envsecrets/internal/rewrite"
)

// DryRunHeader opens the text report.
const DryRunHeader = "--- Dry run: proposed replacements ---"

// Report is the machine-readable dry-run output.
type Report struct {
	Tool         string                `json:"tool"`
	Version      string                `json:"version"`
	Source       string                `json:"source"`
	SourceHash   string                `json:"source_hash"`
	Profile      string                `json:"profile"`
	Masked       bool                  `json:"masked"`
	Replacements []rewrite.Replacement `json:"replacements"`
}

// Text renders the replacements as "old -> new" lines under DryRunHeader.
// With mask set, both values are replaced by their length.
func Text(reps []rewrite.Replacement, mask bool) string {
	var b strings.Builder
	b.WriteString(DryRunHeader + "\n")
	for _, r := range reps {
		oldLine, newLine := r.OldLine, r.NewLine
		if mask {
			oldLine, newLine = maskLines(r)
		}
		fmt.Fprintf(&b, "%s -> %s\n", rstrip(oldLine), rstrip(newLine))
	}
	return b.String()
}

// JSON renders the report as indented JSON.
func JSON(rep Report) (string, error) {
	if rep.Masked {
		masked := make([]rewrite.Replacement, len(rep.Replacements))
		for i, r := range rep.Replacements {
			r.OldValue = redact.Value(r.OldValue)
			r.NewValue = redact.Value(r.NewValue)
			masked[i] = r
		}
		rep.Replacements = masked
	}
	if rep.Replacements == nil {
		rep.Replacements = []rewrite.Replacement{}
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render.JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func maskLines(r rewrite.Replacement) (string, string) {
	oldEntry := envfile.ParseLine(r.OldLine)
	newEntry := envfile.ParseLine(r.NewLine)
	return oldEntry.WithValue(redact.Value(r.OldValue)), newEntry.WithValue(redact.Value(r.NewValue))
}

func rstrip(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}

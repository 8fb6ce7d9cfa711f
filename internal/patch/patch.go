// Package patch writes the planned rewrite as a unified diff.
package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/envsecrets/internal/rewrite"
)

// Unified renders replacements as a zero-context unified diff against name.
func Unified(name string, reps []rewrite.Replacement) string {
	if len(reps) == 0 {
		return ""
	}
	base := filepath.ToSlash(filepath.Base(name))

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", base)
	fmt.Fprintf(&b, "+++ b/%s\n", base)
	for _, r := range reps {
		fmt.Fprintf(&b, "@@ -%d +%d @@\n", r.Line, r.Line)
		writeLine(&b, '-', r.OldLine)
		writeLine(&b, '+', r.NewLine)
	}
	return b.String()
}

func writeLine(b *strings.Builder, sign byte, line string) {
	b.WriteByte(sign)
	b.WriteString(line)
	if !strings.HasSuffix(line, "\n") {
		b.WriteString("\n\\ No newline at end of file\n")
	}
}

// WritePatchFile writes the diff for reps to outPath.
// If there are no replacements, no file is created.
func WritePatchFile(name string, reps []rewrite.Replacement, outPath string) error {
	if len(reps) == 0 {
		return nil
	}
	if err := os.WriteFile(outPath, []byte(Unified(name, reps)), 0600); err != nil {
		return fmt.Errorf("patch.WritePatchFile: %w", err)
	}
	return nil
}

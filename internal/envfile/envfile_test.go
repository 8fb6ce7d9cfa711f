package envfile

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := "A=1\n# comment\nB=2"
	path := writeTempFile(t, content)

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(f.Lines))
	}
	if f.Lines[0] != "A=1\n" || f.Lines[2] != "B=2" {
		t.Errorf("unexpected lines: %q", f.Lines)
	}
	if !strings.HasPrefix(f.Hash, "sha256:") {
		t.Errorf("expected sha256 prefix, got %s", f.Hash)
	}
	if !filepath.IsAbs(f.FilePath) {
		t.Errorf("expected absolute path, got %s", f.FilePath)
	}
	if strings.Join(f.Lines, "") != content {
		t.Error("lines do not round-trip to original content")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/.env")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"A=1", []string{"A=1"}},
		{"A=1\n", []string{"A=1\n"}},
		{"A=1\r\nB=2\r\n", []string{"A=1\r\n", "B=2\r\n"}},
		{"\n\n", []string{"\n", "\n"}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{"simple", "KEY=value\n", Entry{Key: "KEY", Value: "value", Terminator: "\n"}},
		{"indented", "  KEY=value\n", Entry{Prefix: "  ", Key: "KEY", Value: "value", Terminator: "\n"}},
		{"spaces around key", "KEY =value", Entry{Key: "KEY", Value: "value"}},
		{"equals in value", "URL=postgres://u:p@h/db?a=b\n", Entry{Key: "URL", Value: "postgres://u:p@h/db?a=b", Terminator: "\n"}},
		{"empty value", "KEY=\n", Entry{Key: "KEY", Terminator: "\n"}},
		{"crlf", "KEY=v\r\n", Entry{Key: "KEY", Value: "v", Terminator: "\r\n"}},
		{"comment", "# KEY=value\n", Entry{Value: "# KEY=value", Terminator: "\n"}},
		{"indented comment", "\t# note\n", Entry{Prefix: "\t", Value: "# note", Terminator: "\n"}},
		{"blank", "\n", Entry{Terminator: "\n"}},
		{"whitespace only", "   \n", Entry{Prefix: "   ", Terminator: "\n"}},
		{"no equals", "just text\n", Entry{Value: "just text", Terminator: "\n"}},
		{"empty key", "=value\n", Entry{Value: "value", Terminator: "\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineNonAssignments(t *testing.T) {
	for _, line := range []string{"", "\n", "# SECRET=x\n", "no equals here", "=orphan"} {
		if ParseLine(line).IsAssignment() {
			t.Errorf("ParseLine(%q) should not be an assignment", line)
		}
	}
}

func TestWithValue(t *testing.T) {
	e := ParseLine("  JWT_SECRET=old\r\n")
	got := e.WithValue("new")
	if got != "  JWT_SECRET=new\r\n" {
		t.Errorf("WithValue = %q", got)
	}
}

func TestWriteNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.generated")

	lines := []string{"A=1\n", "B=2"}
	if err := Write(path, lines, 0600); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A=1\nB=2" {
		t.Errorf("content = %q", data)
	}
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Mode().Perm() != 0600 {
			t.Errorf("perm = %o, want 600", fi.Mode().Perm())
		}
	}
}

func TestWriteKeepsExistingMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := writeTempFile(t, "A=1\n")
	if err := os.Chmod(path, 0640); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []string{"A=2\n"}, 0600); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0640 {
		t.Errorf("perm = %o, want 640", fi.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp file to be renamed away, dir has %d entries", len(entries))
	}
}

func TestWriteMissingDir(t *testing.T) {
	err := Write("/nonexistent/dir/.env", []string{"A=1\n"}, 0600)
	if err == nil {
		t.Error("expected error writing into missing directory")
	}
}

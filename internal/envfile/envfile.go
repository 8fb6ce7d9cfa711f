// Package envfile handles reading, parsing, and writing .env files line by line.
package envfile

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// File holds a loaded .env file with its lines and metadata.
// Every line keeps its own terminator so unchanged lines round-trip exactly.
type File struct {
	FilePath string
	Lines    []string
	Hash     string
}

// Entry is a single parsed line. Key is empty for comments, blank lines,
// and lines without '='.
type Entry struct {
	Prefix     string
	Key        string
	Value      string
	Terminator string
}

// IsAssignment reports whether the line was a KEY=VALUE line.
func (e Entry) IsAssignment() bool {
	return e.Key != ""
}

// WithValue rebuilds the line with a new value, keeping indentation, key and terminator.
func (e Entry) WithValue(v string) string {
	return e.Prefix + e.Key + "=" + v + e.Terminator
}

// Load reads a .env file and computes its SHA-256 hash.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("envfile.Load: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("envfile.Load: %w", err)
	}
	h := sha256.Sum256(data)
	return &File{
		FilePath: abs,
		Lines:    SplitLines(string(data)),
		Hash:     fmt.Sprintf("sha256:%x", h),
	}, nil
}

// SplitLines splits text after each '\n'. The last element has no
// terminator if the text does not end in a newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ParseLine splits a line into prefix, key and value on the first '='.
func ParseLine(line string) Entry {
	body, term := splitTerminator(line)
	stripped := strings.TrimLeft(body, " \t")
	prefix := body[:len(body)-len(stripped)]

	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return Entry{Prefix: prefix, Value: stripped, Terminator: term}
	}
	left, right, ok := strings.Cut(stripped, "=")
	if !ok {
		return Entry{Prefix: prefix, Value: stripped, Terminator: term}
	}
	return Entry{
		Prefix:     prefix,
		Key:        strings.TrimSpace(left),
		Value:      right,
		Terminator: term,
	}
}

func splitTerminator(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

// Write atomically replaces path with the given lines. An existing file keeps
// its permission bits; a new file is created with perm.
func Write(path string, lines []string, perm os.FileMode) error {
	data := []byte(strings.Join(lines, ""))
	if err := renameio.WriteFile(path, data, perm, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("envfile.Write: %w", err)
	}
	return nil
}

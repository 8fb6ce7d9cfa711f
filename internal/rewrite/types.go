// Package rewrite plans and applies secret replacements over .env lines.
package rewrite

import (
	"io"
	"time"

	"github.com/dshills/envsecrets/internal/rules"
)

// Origin records why a line was replaced.
type Origin string

const (
	OriginOverride  Origin = "override"
	OriginRule      Origin = "rule"
	OriginHeuristic Origin = "heuristic"
)

// Replacement is one planned line rewrite. Index is zero-based; Line is the
// one-based line number for display.
type Replacement struct {
	Index     int    `json:"-"`
	Line      int    `json:"line"`
	Key       string `json:"key"`
	Origin    Origin `json:"origin"`
	Generator string `json:"generator,omitempty"`
	OldLine   string `json:"-"`
	NewLine   string `json:"-"`
	OldValue  string `json:"old_value"`
	NewValue  string `json:"new_value"`
}

// Options controls how replacements are built.
type Options struct {
	Profile *rules.Profile
	// Overrides maps upper-cased key names to literal values.
	Overrides map[string]string
	// Source supplies randomness; nil means crypto/rand.
	Source io.Reader
	// SignJWT signs jwt rules that carry a role with the profile's signing key.
	SignJWT bool
	Now     func() time.Time
}

// Package rules loads the tables that decide which .env keys are secrets and
// how their replacement values are generated.
package rules

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dshills/envsecrets/internal/generate"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultProfile is used when no profile is named.
const DefaultProfile = "supabase"

// FormatVersion is the rule file format this build understands.
const FormatVersion = 1

// Profile is a named rule table plus the heuristic used for unlisted keys.
type Profile struct {
	Name        string     `yaml:"name"`
	Version     int        `yaml:"version"`
	Description string     `yaml:"description"`
	SigningKey  string     `yaml:"signing_key"`
	Issuer      string     `yaml:"issuer"`
	JWTTTL      string     `yaml:"jwt_ttl"`
	Rules       []Rule     `yaml:"rules"`
	Heuristics  Heuristics `yaml:"heuristics"`
}

// Rule maps one key name to a generator.
type Rule struct {
	Key       string `yaml:"key"`
	Generator string `yaml:"generator"`
	Length    int    `yaml:"length,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	// Role marks a jwt rule that can be signed with the profile's signing key.
	Role string `yaml:"role,omitempty"`
}

// Spec returns the generator spec for the rule.
func (r Rule) Spec() generate.Spec {
	return generate.Spec{Generator: r.Generator, Length: r.Length, Prefix: r.Prefix}
}

// Heuristics flags keys containing any of Terms and generates Fallback for them.
type Heuristics struct {
	Terms    []string `yaml:"terms"`
	Fallback Rule     `yaml:"fallback"`
}

// Match describes how a key was matched.
type Match int

const (
	MatchNone Match = iota
	MatchExact
	MatchHeuristic
)


// LoadBuiltin loads a built-in profile by name.
func LoadBuiltin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("rules.LoadBuiltin: unknown profile %q: %w", name, err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules.LoadBuiltin: parse %q: %w", name, err)
	}
	return p, nil
}

// LoadFile loads a profile from a YAML file on disk.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules.LoadFile: %w", err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules.LoadFile: parse %s: %w", path, err)
	}
	return p, nil
}

func parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the names of all available built-in profiles.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Merge returns base overlaid with extra. Rules in extra replace same-named
// rules in base (case-insensitive) and new ones are appended. Heuristic terms
// are unioned. Non-empty scalar fields of extra win.
func Merge(base, extra *Profile) *Profile {
	out := *base
	out.Rules = append([]Rule(nil), base.Rules...)
	out.Heuristics.Terms = append([]string(nil), base.Heuristics.Terms...)
	if extra == nil {
		return &out
	}

	if extra.Name != "" {
		out.Name = base.Name + "+" + extra.Name
	}
	if extra.Version != 0 {
		out.Version = extra.Version
	}
	if extra.SigningKey != "" {
		out.SigningKey = extra.SigningKey
	}
	if extra.Issuer != "" {
		out.Issuer = extra.Issuer
	}
	if extra.JWTTTL != "" {
		out.JWTTTL = extra.JWTTTL
	}
	if extra.Heuristics.Fallback.Generator != "" {
		out.Heuristics.Fallback = extra.Heuristics.Fallback
	}

	for _, r := range extra.Rules {
		replaced := false
		for i := range out.Rules {
			if strings.EqualFold(out.Rules[i].Key, r.Key) {
				out.Rules[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			out.Rules = append(out.Rules, r)
		}
	}

	seen := make(map[string]bool, len(out.Heuristics.Terms))
	for _, t := range out.Heuristics.Terms {
		seen[strings.ToUpper(t)] = true
	}
	for _, t := range extra.Heuristics.Terms {
		if !seen[strings.ToUpper(t)] {
			out.Heuristics.Terms = append(out.Heuristics.Terms, t)
			seen[strings.ToUpper(t)] = true
		}
	}
	return &out
}

// Lookup returns the rule whose key equals key, ignoring case.
func (p *Profile) Lookup(key string) (Rule, bool) {
	for _, r := range p.Rules {
		if strings.EqualFold(r.Key, key) {
			return r, true
		}
	}
	return Rule{}, false
}

// Sensitive reports whether key contains any heuristic term.
func (p *Profile) Sensitive(key string) bool {
	upper := strings.ToUpper(key)
	for _, t := range p.Heuristics.Terms {
		if t != "" && strings.Contains(upper, strings.ToUpper(t)) {
			return true
		}
	}
	return false
}

// Match classifies key: an exact rule first, then the heuristic fallback.
func (p *Profile) Match(key string) (Rule, Match) {
	if r, ok := p.Lookup(key); ok {
		return r, MatchExact
	}
	if p.Sensitive(key) {
		fb := p.Heuristics.Fallback
		fb.Key = key
		return fb, MatchHeuristic
	}
	return Rule{}, MatchNone
}

// TTL returns the parsed jwt_ttl, or zero when unset.
func (p *Profile) TTL() (time.Duration, error) {
	if p.JWTTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.JWTTTL)
	if err != nil {
		return 0, fmt.Errorf("rules: jwt_ttl: %w", err)
	}
	return d, nil
}

// Format renders the profile as a plain-text table.
func Format(p *Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Profile: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(p.Description))
	}
	b.WriteString("\n")

	if len(p.Rules) > 0 {
		width := 0
		for _, r := range p.Rules {
			if len(r.Key) > width {
				width = len(r.Key)
			}
		}
		for _, r := range p.Rules {
			fmt.Fprintf(&b, "%-*s  %s", width, r.Key, r.Spec())
			if r.Role != "" {
				fmt.Fprintf(&b, " role=%s", r.Role)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(p.Heuristics.Terms) > 0 {
		fmt.Fprintf(&b, "Keys containing %s get %s\n",
			strings.Join(p.Heuristics.Terms, ", "), p.Heuristics.Fallback.Spec())
	}
	if p.SigningKey != "" {
		fmt.Fprintf(&b, "Signed jwt rules use %s\n", p.SigningKey)
	}
	return b.String()
}

package rewrite

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/envsecrets/internal/envfile"
	"github.com/dshills/envsecrets/internal/generate"
	"github.com/dshills/envsecrets/internal/rules"
)

// GeneratorSignedJWT names the generator of role tokens signed with the profile key.
const GeneratorSignedJWT = "jwt+hs256"

type pendingSign struct {
	rep   int
	role  string
	entry envfile.Entry
}

// Build classifies every line and returns the planned replacements in file order.
// Overrides win over exact rules, which win over heuristic matches.
func Build(lines []string, opts Options) ([]Replacement, error) {
	if opts.Profile == nil {
		return nil, errors.New("rewrite.Build: no rule profile")
	}
	src := opts.Source
	if src == nil {
		src = generate.NewSource(nil)
	}

	var (
		reps    []Replacement
		pending []pendingSign
	)
	// Final value per upper-cased key, used to find the signing secret.
	final := make(map[string]string)

	for i, line := range lines {
		e := envfile.ParseLine(line)
		if !e.IsAssignment() {
			continue
		}
		upper := strings.ToUpper(e.Key)
		rep := Replacement{
			Index:    i,
			Line:     i + 1,
			Key:      e.Key,
			OldLine:  line,
			OldValue: e.Value,
		}

		if v, ok := opts.Overrides[upper]; ok {
			rep.Origin = OriginOverride
			rep.NewValue = v
		} else {
			r, m := opts.Profile.Match(e.Key)
			switch m {
			case rules.MatchExact:
				rep.Origin = OriginRule
			case rules.MatchHeuristic:
				rep.Origin = OriginHeuristic
			default:
				final[upper] = e.Value
				continue
			}
			rep.Generator = r.Generator

			if opts.SignJWT && r.Generator == generate.KindJWT && r.Role != "" {
				rep.Generator = GeneratorSignedJWT
				pending = append(pending, pendingSign{rep: len(reps), role: r.Role, entry: e})
			} else {
				v, err := generate.New(src, r.Spec())
				if err != nil {
					return nil, fmt.Errorf("rewrite.Build: line %d (%s): %w", i+1, e.Key, err)
				}
				rep.NewValue = v
			}
		}

		final[upper] = rep.NewValue
		rep.NewLine = e.WithValue(rep.NewValue)
		reps = append(reps, rep)
	}

	if len(pending) > 0 {
		if err := sign(reps, pending, final, opts); err != nil {
			return nil, err
		}
	}
	return reps, nil
}

func sign(reps []Replacement, pending []pendingSign, final map[string]string, opts Options) error {
	keyName := opts.Profile.SigningKey
	if keyName == "" {
		return errors.New("rewrite.Build: profile has no signing_key for signed jwt rules")
	}
	secret := unquote(final[strings.ToUpper(keyName)])
	if secret == "" {
		return fmt.Errorf("rewrite.Build: signing key %s is missing or empty", keyName)
	}
	ttl, err := opts.Profile.TTL()
	if err != nil {
		return fmt.Errorf("rewrite.Build: %w", err)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	for _, p := range pending {
		token, err := generate.SignedJWT(secret, p.role, opts.Profile.Issuer, now(), ttl)
		if err != nil {
			return fmt.Errorf("rewrite.Build: %s: %w", p.entry.Key, err)
		}
		reps[p.rep].NewValue = token
		reps[p.rep].NewLine = p.entry.WithValue(token)
	}
	return nil
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Apply returns a copy of lines with the replacements substituted.
func Apply(lines []string, reps []Replacement) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for _, r := range reps {
		if r.Index >= 0 && r.Index < len(out) {
			out[r.Index] = r.NewLine
		}
	}
	return out
}

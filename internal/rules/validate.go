package rules

import (
	"fmt"
	"strings"

	"github.com/dshills/envsecrets/internal/generate"
)

// ValidationError describes a single profile problem.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Profile for structural validity.
func Validate(p *Profile) []ValidationError {
	var errs []ValidationError

	if p.Name == "" {
		errs = append(errs, ValidationError{"name", "required"})
	}
	if p.Version != FormatVersion {
		errs = append(errs, ValidationError{"version", fmt.Sprintf("unsupported version %d, want %d", p.Version, FormatVersion)})
	}
	if _, err := p.TTL(); err != nil {
		errs = append(errs, ValidationError{"jwt_ttl", fmt.Sprintf("invalid duration: %q", p.JWTTTL)})
	}

	keys := make(map[string]bool)
	hasRole := false
	for i, r := range p.Rules {
		prefix := fmt.Sprintf("rules[%d]", i)
		if r.Key == "" {
			errs = append(errs, ValidationError{prefix + ".key", "required"})
		} else if upper := strings.ToUpper(r.Key); keys[upper] {
			errs = append(errs, ValidationError{prefix + ".key", fmt.Sprintf("duplicate key: %q", r.Key)})
		} else {
			keys[upper] = true
		}
		errs = append(errs, validateGenerator(prefix, r)...)
		if r.Role != "" {
			if r.Generator != generate.KindJWT {
				errs = append(errs, ValidationError{prefix + ".role", "only valid for jwt rules"})
			}
			hasRole = true
		}
	}

	if hasRole && p.SigningKey == "" {
		errs = append(errs, ValidationError{"signing_key", "required when a jwt rule has a role"})
	}

	for i, t := range p.Heuristics.Terms {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("heuristics.terms[%d]", i), "empty term"})
		}
	}
	if len(p.Heuristics.Terms) > 0 {
		errs = append(errs, validateGenerator("heuristics.fallback", p.Heuristics.Fallback)...)
	}

	return errs
}

func validateGenerator(prefix string, r Rule) []ValidationError {
	var errs []ValidationError
	switch {
	case r.Generator == "":
		errs = append(errs, ValidationError{prefix + ".generator", "required"})
	case !generate.Known(r.Generator):
		errs = append(errs, ValidationError{prefix + ".generator", fmt.Sprintf("unknown generator: %q", r.Generator)})
	case generate.NeedsLength(r.Generator) && r.Length <= 0:
		errs = append(errs, ValidationError{prefix + ".length", fmt.Sprintf("must be positive for %s", r.Generator)})
	}
	return errs
}

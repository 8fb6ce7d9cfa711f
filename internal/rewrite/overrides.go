package rewrite

import (
	"strings"
)

// DefaultOverridePrefix marks environment variables that pin a key's value.
const DefaultOverridePrefix = "GENERATE_"

// keepRandom as an override value leaves the key to normal generation.
const keepRandom = "RANDOM"

// CollectOverrides scans environ ("NAME=value" pairs, as from os.Environ) for
// prefix-named variables and returns upper-cased key -> literal value.
// Empty values and the literal RANDOM are ignored.
func CollectOverrides(environ []string, prefix string) map[string]string {
	if prefix == "" {
		prefix = DefaultOverridePrefix
	}
	out := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.TrimPrefix(name, prefix)
		if key == "" || value == "" || value == keepRandom {
			continue
		}
		out[strings.ToUpper(key)] = value
	}
	return out
}

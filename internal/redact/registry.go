// Package redact keeps a process-wide set of secret strings and scrubs them
// from any text that passes through it. Components that decode secrets
// (action contexts, stored credentials) register values here before exposing
// them, so run output and logs can never carry a usable secret.
package redact

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Mask is the replacement written in place of a registered secret.
const Mask = "***"

// minSecretLength is the shortest value the registry will track. Scrubbing
// one- or two-character strings would shred ordinary output.
const minSecretLength = 3

// Registry tracks secret strings for redaction. The zero value is not usable;
// create instances with NewRegistry. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	values   map[string]struct{}
	replacer *strings.Replacer
}

// NewRegistry creates an empty redaction registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[string]struct{})}
}

// HideFromOutput registers a secret value for scrubbing. The quoted form of
// the value is registered too, so secrets embedded in logged JSON or %q
// output are also caught. Registration is idempotent.
func (r *Registry) HideFromOutput(value string) {
	if len(value) < minSecretLength {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.values)
	r.values[value] = struct{}{}
	if quoted := strconv.Quote(value); quoted != `"`+value+`"` {
		// Quoting changed the text (escapes), track that form separately.
		r.values[quoted] = struct{}{}
	}
	if len(r.values) != before {
		// Invalidate the cached replacer, it is rebuilt on next Scrub.
		r.replacer = nil
	}
}

// Size returns the number of tracked values.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

// Scrub returns s with every registered secret replaced by Mask.
// Longer secrets are replaced first so a tracked substring of another
// tracked value cannot split the longer match.
func (r *Registry) Scrub(s string) string {
	r.mu.RLock()
	replacer := r.replacer
	r.mu.RUnlock()

	if replacer == nil {
		replacer = r.buildReplacer()
	}
	if replacer == nil {
		return s
	}
	return replacer.Replace(s)
}

// buildReplacer rebuilds and caches the replacer from the current value set.
func (r *Registry) buildReplacer() *strings.Replacer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.replacer != nil {
		return r.replacer
	}
	if len(r.values) == 0 {
		return nil
	}

	ordered := make([]string, 0, len(r.values))
	for v := range r.values {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	pairs := make([]string, 0, len(ordered)*2)
	for _, v := range ordered {
		pairs = append(pairs, v, Mask)
	}
	r.replacer = strings.NewReplacer(pairs...)
	return r.replacer
}

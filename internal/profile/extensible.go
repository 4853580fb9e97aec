package profile

import (
	"sort"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// Extensible is embedded by the profile kinds that carry an open, keyed
// payload store (spec.md §3 "Extensible profile"): class, method and
// field profiles. The invariant spec.md calls out — "the set of keys
// actually written equals the set declared active by the blueprint at
// serialize time" — is checked by Blueprint.ValidateKeys when a payload is
// read back (readPayload), not here and not on write: writePayload writes
// whatever keys are populated, in OrderedKeys order. Extensible itself is a
// plain map guarded by Get/GetOrThrow/Put.
type Extensible struct {
	values map[string]interface{}
}

func newExtensible() Extensible {
	return Extensible{values: make(map[string]interface{})}
}

// Put stores value under key.
func (e *Extensible) Put(key string, value interface{}) {
	if e.values == nil {
		e.values = make(map[string]interface{})
	}
	e.values[key] = value
}

// Get retrieves the value stored under key, if any.
func (e *Extensible) Get(key string) (interface{}, bool) {
	v, ok := e.values[key]
	return v, ok
}

// GetOrThrow retrieves the value under key or returns a ConfigError —
// spec.md §4.3's getOrThrow, used by strategies that require a feature a
// step was supposed to have populated.
func (e *Extensible) GetOrThrow(key string) (interface{}, error) {
	v, ok := e.values[key]
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "extension payload missing required key %q", key)
	}
	return v, nil
}

// Keys returns the set of keys actually populated, unordered.
func (e *Extensible) Keys() []string {
	out := make([]string, 0, len(e.values))
	for k := range e.values {
		out = append(out, k)
	}
	return out
}

// OrderedKeys returns Keys() filtered and ordered per bp's declaration
// order, for deterministic serialization.
func (e *Extensible) OrderedKeys(bp *Blueprint) []string {
	present := make(map[string]bool, len(e.values))
	for k := range e.values {
		present[k] = true
	}
	out := make([]string, 0, len(present))
	for _, k := range bp.Keys() {
		if present[k] {
			out = append(out, k)
		}
	}
	// Any populated key the blueprint doesn't know about is a programmer
	// error in step registration, not a data problem; surface it
	// deterministically rather than silently dropping it.
	var extra []string
	for k := range present {
		if !bp.Has(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

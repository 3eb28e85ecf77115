// Package preset provides named bundles of filter values.
package preset

import (
	"sort"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
)

// Preset names.
const (
	Mono     = "mono"
	Vivid    = "vivid"
	Warm     = "warm"
	Cool     = "cool"
	Vintage  = "vintage"
	Negative = "negative"
)

// presets maps a preset name to the filter values it sets. Presets never
// touch rotation or flips.
var presets = map[string]adjust.Partial{
	Mono: {
		"brightness": 105, "contrast": 110, "saturate": 0, "hueRotate": 0,
		"grayscale": 100, "sepia": 0, "invert": 0, "blur": 0,
	},
	Vivid: {
		"brightness": 105, "contrast": 115, "saturate": 150, "hueRotate": 0,
		"grayscale": 0, "sepia": 0, "invert": 0, "blur": 0,
	},
	Warm: {
		"brightness": 105, "contrast": 100, "saturate": 120, "hueRotate": 345,
		"grayscale": 0, "sepia": 25, "invert": 0, "blur": 0,
	},
	Cool: {
		"brightness": 100, "contrast": 105, "saturate": 90, "hueRotate": 15,
		"grayscale": 0, "sepia": 0, "invert": 0, "blur": 0,
	},
	Vintage: {
		"brightness": 110, "contrast": 90, "saturate": 80, "hueRotate": 0,
		"grayscale": 0, "sepia": 60, "invert": 0, "blur": 0.5,
	},
	Negative: {
		"brightness": 100, "contrast": 100, "saturate": 100, "hueRotate": 0,
		"grayscale": 0, "sepia": 0, "invert": 100, "blur": 0,
	},
}

// Lookup returns a copy of the values for name.
func Lookup(name string) (adjust.Partial, bool) {
	p, ok := presets[name]
	if !ok {
		return nil, false
	}
	out := make(adjust.Partial, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, true
}

// Names returns the preset names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply merges preset name into s. It returns s unchanged and false when the
// name is unknown. Recording history is the caller's job.
func Apply(name string, s adjust.State) (adjust.State, bool) {
	p, ok := presets[name]
	if !ok {
		return s, false
	}
	return adjust.Merge(s, p), true
}

// Package persist saves and restores per-image adjustment values.
//
// Stored records are untrusted: Decode keeps only well-typed numeric fields
// with known names and drops everything else.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
)

// Backend names accepted by New.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Store persists adjustments keyed by image.
type Store interface {
	// Load returns the stored values for key. Missing or malformed records
	// return false.
	Load(key string) (adjust.Partial, bool)
	// Save replaces the stored values for key.
	Save(key string, s adjust.State) error
	// Forget removes the stored values for key.
	Forget(key string) error
	// Close releases resources held by the store.
	Close() error
}

// New opens the store for backend rooted at dir.
func New(backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(filepath.Join(dir, "adjustments.json")), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(filepath.Join(dir, "adjustments.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", backend)
	}
}

// Encode serializes s as a persisted record.
func Encode(s adjust.State) ([]byte, error) {
	return json.Marshal(s)
}

// MaxRotation bounds the magnitude of a persisted rotation. Values at or
// past it are dropped so converting to int is exact on every platform.
const MaxRotation = 1 << 31

// Decode parses a persisted record. Non-object input yields false. Fields
// are filtered one by one: unknown names, non-numeric or non-finite values,
// fractional or out-of-range rotation and flips other than -1 and 1 are
// dropped without affecting their siblings.
func Decode(raw []byte) (adjust.Partial, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	p := make(adjust.Partial)
	for name, v := range obj {
		if !adjust.IsField(name) {
			continue
		}
		f, ok := number(v)
		if !ok {
			continue
		}
		switch name {
		case adjust.FieldRotation:
			if f != math.Trunc(f) || math.Abs(f) >= MaxRotation {
				continue
			}
		case adjust.FieldFlipX, adjust.FieldFlipY:
			if f != 1 && f != -1 {
				continue
			}
		}
		p[name] = f
	}
	if len(p) == 0 {
		return nil, false
	}
	return p, true
}

// number parses a JSON number into a finite float64. Strings, nulls and
// values that overflow float64 report false.
func number(raw json.RawMessage) (float64, bool) {
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NopStore stores nothing.
type NopStore struct{}

func (NopStore) Load(string) (adjust.Partial, bool) { return nil, false }
func (NopStore) Save(string, adjust.State) error    { return nil }
func (NopStore) Forget(string) error                { return nil }
func (NopStore) Close() error                       { return nil }

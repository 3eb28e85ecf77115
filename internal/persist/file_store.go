package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/colors"
)

// FileStore keeps every record in one JSON document mapping image key to
// record.
//
// Document layout:
//
//	{
//	  "/home/me/cat.png": {"brightness": 120, "contrast": 100, ...},
//	  "/home/me/dog.jpg": {...}
//	}
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the document at path. The file is
// created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// readDocument returns the stored records. A missing document reads as
// empty. An unparsable one also reads as empty and reports corrupt so
// writers can move it aside first.
func (s *FileStore) readDocument() (doc map[string]json.RawMessage, corrupt bool) {
	doc = make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, false
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		colors.Warning(fmt.Sprintf("ignoring malformed adjustments file %s: %v", s.path, err))
		return make(map[string]json.RawMessage), true
	}
	return doc, false
}

// CorruptPath is where a malformed document is moved before it is rewritten.
func (s *FileStore) CorruptPath() string {
	return s.path + ".corrupt"
}

func (s *FileStore) setAside() error {
	if err := os.Rename(s.path, s.CorruptPath()); err != nil {
		return fmt.Errorf("file store: set aside malformed document: %w", err)
	}
	colors.Warning(fmt.Sprintf("malformed adjustments file moved to %s", s.CorruptPath()))
	return nil
}

func (s *FileStore) writeDocument(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("file store: create directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("file store: replace: %w", err)
	}
	return nil
}

// Load returns the record for key.
func (s *FileStore) Load(key string) (adjust.Partial, bool) {
	doc, _ := s.readDocument()
	raw, ok := doc[key]
	if !ok {
		return nil, false
	}
	return Decode(raw)
}

// Save replaces the record for key.
func (s *FileStore) Save(key string, st adjust.State) error {
	raw, err := Encode(st)
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	doc, corrupt := s.readDocument()
	if corrupt {
		if err := s.setAside(); err != nil {
			return err
		}
	}
	doc[key] = raw
	return s.writeDocument(doc)
}

// Forget removes the record for key.
func (s *FileStore) Forget(key string) error {
	doc, _ := s.readDocument()
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.writeDocument(doc)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

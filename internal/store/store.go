// Package store persists normalized meetup events as a JSON array on
// disk. The file is append-only at the record level: every write re-reads
// the existing list, extends it, and rewrites the whole array atomically.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	appLog "meetupsync/internal/log"
	"meetupsync/internal/model"
)

// Store reads and writes one events JSON file.
type Store struct {
	path string
	log  *appLog.Logger
}

// New returns a Store backed by the JSON file at path.
func New(path string, logger *appLog.Logger) *Store {
	return &Store{path: path, log: logger}
}

// Path returns the on-disk location of the store file.
func (s *Store) Path() string { return s.path }

// Load reads the persisted event list.
//
// A missing file is simply an empty list. A file that exists but cannot
// be read or does not hold valid JSON is logged and also treated as
// empty: a corrupt store degrades to "no existing events" rather than
// blocking the import run.
func (s *Store) Load() []model.MeetupEvent {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.log.Error("store read failed; treating as empty", err, "path", s.path)
		return nil
	}

	var events []model.MeetupEvent
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.Error("store holds invalid JSON; treating as empty", err, "path", s.path)
		return nil
	}
	return events
}

// Append extends the persisted list with events and rewrites the file.
//
// The full combined array is encoded into a fresh buffer and committed
// via temp file + rename, so either the complete updated list lands on
// disk or the previous file stays untouched. Failures are logged and
// returned; they abort the run.
func (s *Store) Append(events []model.MeetupEvent) error {
	combined := append(s.Load(), events...)
	if combined == nil {
		// Keep the file a JSON array even when there is nothing to store.
		combined = []model.MeetupEvent{}
	}

	data, err := encodeEvents(combined)
	if err != nil {
		s.log.Error("store encode failed", err, "path", s.path)
		return err
	}

	if err := s.writeAtomic(data); err != nil {
		s.log.Error("store write failed", err, "path", s.path)
		return err
	}
	return nil
}

// encodeEvents marshals with two-space indentation and HTML escaping off
// so URLs land in the file as raw UTF-8.
func encodeEvents(events []model.MeetupEvent) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".events-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}

// Package history provides a change journal for configuration edits.
// Entries are stored as JSON Lines (JSONL) in a single append-only file.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Op classifies a recorded change.
type Op string

const (
	OpSet    Op = "set"
	OpSelect Op = "select"
	OpToggle Op = "toggle"
	OpWizard Op = "wizard"
	OpFetch  Op = "fetch"
)

// Entry represents a single journal record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Op        `json:"op"`
	File      string    `json:"file"`
	Key       string    `json:"key,omitempty"`
	Old       string    `json:"old,omitempty"`
	New       string    `json:"new,omitempty"`
}

// Journal writes and reads change entries.
type Journal struct {
	path string
}

// NewJournal creates a journal backed by the given file.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append adds an entry to the journal.
func (j *Journal) Append(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	return nil
}

// Record is a convenience method that builds and appends an entry.
func (j *Journal) Record(op Op, file, key, old, new string) error {
	return j.Append(Entry{
		Timestamp: time.Now(),
		Op:        op,
		File:      file,
		Key:       key,
		Old:       old,
		New:       new,
	})
}

// Entries reads all journal entries in chronological order.
func (j *Journal) Entries() ([]Entry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // Skip malformed lines
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("error reading journal: %w", err)
	}

	return entries, nil
}

// Remove deletes the journal file.
func (j *Journal) Remove() error {
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Package logstore persists observations as line-delimited JSON, one
// object per line, append-only. There is no rotation and no locking:
// a run has exactly one writer.
package logstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"devtrack/internal/models"
)

// Store appends observations to a single log file. The file is
// opened, appended and closed on every write so a crashed run never
// holds the handle.
type Store struct {
	Path string
}

// New returns a store writing to path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Append writes obs as one JSON line. The bytes on disk are exactly
// the JSON encoding of the in-memory value plus a trailing newline.
func (s *Store) Append(obs models.Observation) error {
	line, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("encode observation: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", s.Path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to log %s: %w", s.Path, err)
	}
	return nil
}

// ReadAll replays the log in file order. Blank lines are skipped; a
// malformed line is an error, since the file is append-only and should
// contain nothing else.
func (s *Store) ReadAll() ([]models.Observation, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", s.Path, err)
	}
	defer f.Close()

	var out []models.Observation
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var obs models.Observation
		if err := json.Unmarshal([]byte(line), &obs); err != nil {
			return nil, fmt.Errorf("log %s line %d: %w", s.Path, lineNo, err)
		}
		out = append(out, obs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", s.Path, err)
	}
	return out, nil
}

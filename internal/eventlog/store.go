package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"teatime/internal/predict"
	"teatime/internal/selection"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Journal is a thread-safe, chronological record of timeline sessions.
type Journal struct {
	mu      sync.RWMutex
	session string
	seq     int64
	entries []Entry
}

// NewJournal starts a journal for a new session. An empty id gets a random UUID.
func NewJournal(sessionID string) *Journal {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Journal{session: sessionID}
}

// SessionID returns the id stamped on entries recorded by this journal.
func (j *Journal) SessionID() string {
	return j.session
}

// Record appends a controller event. It has the selection.Handler signature.
func (j *Journal) Record(ev selection.Event) {
	j.add(fromEvent(ev))
}

// RecordResult appends the outcome of a submission.
func (j *Journal) RecordResult(r predict.Result) {
	j.add(fromResult(r))
}

func (j *Journal) add(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	e.SessionID = j.session
	e.Seq = j.seq
	e.Timestamp = time.Now().UnixMicro()
	j.entries = append(j.entries, e)
}

// Append merges entries, dropping duplicates and keeping chronological order.
func (j *Journal) Append(entries []Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	existing := make(map[string]bool, len(j.entries))
	for _, e := range j.entries {
		existing[e.identity()] = true
	}

	added := 0
	for _, e := range entries {
		if existing[e.identity()] {
			continue
		}
		existing[e.identity()] = true
		j.entries = append(j.entries, e)
		added++
		if e.SessionID == j.session && e.Seq > j.seq {
			j.seq = e.Seq
		}
	}
	if added == 0 {
		return
	}

	sort.SliceStable(j.entries, func(a, b int) bool {
		if j.entries[a].Timestamp != j.entries[b].Timestamp {
			return j.entries[a].Timestamp < j.entries[b].Timestamp
		}
		return j.entries[a].Seq < j.entries[b].Seq
	})
}

// Entries returns a copy of every entry.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Count returns the number of entries.
func (j *Journal) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Session returns the entries of one session.
func (j *Journal) Session(id string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []Entry
	for _, e := range j.entries {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out
}

// EntriesInRange returns entries recorded in [start, end]. A zero end is open-ended.
func (j *Journal) EntriesInRange(start, end time.Time) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	startTs := start.UnixMicro()
	endTs := end.UnixMicro()
	var out []Entry
	for _, e := range j.entries {
		if e.Timestamp >= startTs && (end.IsZero() || e.Timestamp <= endTs) {
			out = append(out, e)
		}
	}
	return out
}

// Load reads entries from <dir>/<name>.jsonl. A missing file is not an error.
func (j *Journal) Load(dir, name string) error {
	path := filepath.Join(dir, name+".jsonl")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	// Lines are read whole: a SubmitRequested entry carries the full prompt and has no size cap.
	var entries []Entry
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var e Entry
			if jerr := json.Unmarshal(line, &e); jerr != nil {
				log.Warn().Err(jerr).Str("path", path).Msg("Skipping invalid JSON line in journal")
			} else {
				entries = append(entries, e)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading journal: %w", err)
		}
	}

	log.Info().Str("path", path).Int("count", len(entries)).Msg("Loaded journal")
	j.Append(entries)
	return nil
}

// Save writes every entry to <dir>/<name>.jsonl through a temp file and rename.
func (j *Journal) Save(dir, name string) error {
	entries := j.Entries()
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, name+".jsonl")
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp journal file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename journal file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(entries)).Msg("Journal saved")
	return nil
}

package eventlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"teatime/internal/predict"
	"teatime/internal/selection"
	"teatime/internal/timeline"
)

func TestJournal_RecordsControllerEvents(t *testing.T) {
	j := NewJournal("")
	if j.SessionID() == "" {
		t.Fatal("SessionID() is empty")
	}

	w := timeline.Window{Start: 100, End: 200}
	j.Record(selection.Event{Type: selection.SelectionChanged, Selection: &w})
	j.Record(selection.Event{Type: selection.SubmitRequested, Selection: &w, Effective: &w, Prompt: "p"})
	j.RecordResult(predict.Result{Kind: predict.KindError, Text: "Server responded 500: server error", Window: &w})

	entries := j.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries()) = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Seq != int64(i+1) {
			t.Errorf("entry %d Seq = %d", i, e.Seq)
		}
		if e.SessionID != j.SessionID() {
			t.Errorf("entry %d SessionID = %q", i, e.SessionID)
		}
	}
	if entries[0].Start == nil || *entries[0].Start != 100 {
		t.Errorf("entry 0 Start = %v", entries[0].Start)
	}
	if entries[1].Prompt != "p" || entries[1].EffectiveEnd == nil || *entries[1].EffectiveEnd != 200 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Type != SubmitResolved || entries[2].Outcome != predict.KindError {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestJournal_AppendDeduplicates(t *testing.T) {
	j := NewJournal("s1")
	batch := []Entry{
		{SessionID: "s1", Seq: 1, Timestamp: 10, Type: selection.ResetRequested},
		{SessionID: "s1", Seq: 2, Timestamp: 5, Type: selection.SelectionChanged},
	}
	j.Append(batch)
	j.Append(batch)

	if j.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", j.Count())
	}
	if got := j.Entries()[0].Seq; got != 2 {
		t.Errorf("first entry Seq = %d, want 2 (earliest timestamp)", got)
	}

	j.Record(selection.Event{Type: selection.ResetRequested})
	if last := j.Entries()[2]; last.Seq != 3 {
		t.Errorf("next recorded Seq = %d, want 3", last.Seq)
	}
}

func TestJournal_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal("round")
	j.Record(selection.Event{Type: selection.SelectionChanged, Buckets: &[2]int{2, 5}})
	j.Record(selection.Event{Type: selection.ResetRequested})

	if err := j.Save(dir, "session"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session.jsonl.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	loaded := NewJournal("other")
	if err := loaded.Load(dir, "session"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := loaded.Session("round")
	if len(got) != 2 {
		t.Fatalf("Session(round) has %d entries, want 2", len(got))
	}
	if got[0].Buckets == nil || *got[0].Buckets != [2]int{2, 5} {
		t.Errorf("Buckets = %v", got[0].Buckets)
	}
}

func TestJournal_LoadLongEntry(t *testing.T) {
	dir := t.TempDir()
	prompt := strings.Repeat("p", 70*1024)

	j := NewJournal("long")
	j.Record(selection.Event{Type: selection.SubmitRequested, Prompt: prompt})
	j.Record(selection.Event{Type: selection.ResetRequested})
	if err := j.Save(dir, "journal"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewJournal("next")
	if err := loaded.Load(dir, "journal"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := loaded.Session("long")
	if len(got) != 2 {
		t.Fatalf("Session(long) has %d entries, want 2", len(got))
	}
	if got[0].Prompt != prompt {
		t.Errorf("Prompt length = %d, want %d", len(got[0].Prompt), len(prompt))
	}
}

func TestJournal_LoadMissingFile(t *testing.T) {
	if err := NewJournal("x").Load(t.TempDir(), "absent"); err != nil {
		t.Errorf("Load() on missing file error = %v", err)
	}
}

func TestJournal_EntriesInRange(t *testing.T) {
	j := NewJournal("r")
	now := time.Now()
	j.Append([]Entry{
		{SessionID: "r", Seq: 1, Timestamp: now.Add(-time.Hour).UnixMicro()},
		{SessionID: "r", Seq: 2, Timestamp: now.UnixMicro()},
	})
	if got := j.EntriesInRange(now.Add(-time.Minute), time.Time{}); len(got) != 1 || got[0].Seq != 2 {
		t.Errorf("EntriesInRange() = %+v", got)
	}
}

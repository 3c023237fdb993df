package commands

import (
	"fmt"
	"path/filepath"

	"teatime/cmd/mockgen/engine"
	"teatime/internal/eventlog"
	"teatime/internal/selection"
	"teatime/internal/trends"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	journalName = "journal"
	// exampleSeed keeps the built-in dataset stable between invocations so bucket indexes mean the same thing.
	exampleSeed = 2015
)

func loadDataset() (*trends.Dataset, error) {
	if cfg.TrendsFile == "" {
		gen := engine.DefaultConfig()
		gen.Seed = exampleSeed
		log.Info().Int("points", gen.Count).Msg("No TRENDS_FILE set, using the example dataset")
		return trends.NewDataset(engine.Generate(gen)), nil
	}
	ds, err := trends.Load(cfg.TrendsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load trends from %s: %w", cfg.TrendsFile, err)
	}
	log.Info().Str("path", cfg.TrendsFile).Int("points", ds.Len()).Msg("Loaded trends")
	return ds, nil
}

func newController() (*selection.Controller, error) {
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	return selection.NewController(ds, selection.Options{
		Mode:         cfg.Mode,
		StartYear:    cfg.StartYear,
		AnchorMonth:  cfg.AnchorMonth,
		BucketMonths: cfg.BucketMonths,
		Policy:       cfg.SpanPolicy,
	}), nil
}

// openJournal loads the on-disk journal so this session's entries append to it. It returns the
// file name to save under. When the existing journal cannot be read, the session is written to its
// own file so the unreadable one is never overwritten.
func openJournal(dir string) (*eventlog.Journal, string) {
	j := eventlog.NewJournal("")
	if err := j.Load(dir, journalName); err != nil {
		name := journalName + "-" + j.SessionID()
		log.Warn().Err(err).Str("file", name).Msg("Failed to load journal, recording this session separately")
		return j, name
	}
	return j, journalName
}

func saveJournal(j *eventlog.Journal, dir, name string) {
	if err := j.Save(dir, name); err != nil {
		log.Warn().Err(err).Msg("Failed to save journal")
	}
}

func journalDir() string {
	return filepath.Join(cfg.CacheDir, "sessions")
}

// selectionFlags are the gesture flags shared by chart and predict.
type selectionFlags struct {
	at         string
	fromBucket int
	toBucket   int
}

func (f *selectionFlags) apply(ctrl *selection.Controller) error {
	switch {
	case f.at != "":
		t, err := trends.ParseDate(f.at)
		if err != nil {
			return err
		}
		_, err = ctrl.ClickAt(t.UnixMilli())
		return err
	case f.fromBucket >= 0:
		to := f.toBucket
		if to < 0 {
			to = f.fromBucket
		}
		if err := ctrl.PointerDown(f.fromBucket); err != nil {
			return err
		}
		if err := ctrl.PointerEnter(to); err != nil {
			return err
		}
		ctrl.PointerUp()
	}
	return nil
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, "at", "", "peak mode: select 45 days either side of this date")
	cmd.Flags().IntVar(&f.fromBucket, "from-bucket", -1, "bucket mode: first bucket of the drag")
	cmd.Flags().IntVar(&f.toBucket, "to-bucket", -1, "bucket mode: bucket where the drag is released")
}

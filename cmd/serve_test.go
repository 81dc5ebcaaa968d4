package cmd

import (
	"path/filepath"
	"testing"

	"github.com/jerryli27/coffee-project/internal/store"
)

func TestLastSiteDirFollowsRunOutput(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer s.Close()

	if dir, err := lastSiteDir(s); err != nil || dir != "" {
		t.Fatalf("expected no site before a run, got %q (%v)", dir, err)
	}

	// Written with --output elsewhere than the configured directory.
	run, err := s.BeginRun("lists/saved.csv", "/srv/sites/saved")
	if err != nil {
		t.Fatalf("beginning run: %v", err)
	}
	if err := s.FinishRun(run); err != nil {
		t.Fatalf("finishing run: %v", err)
	}

	dir, err := lastSiteDir(s)
	if err != nil {
		t.Fatalf("lastSiteDir: %v", err)
	}
	if dir != "/srv/sites/saved" {
		t.Errorf("expected the run's output dir, got %q", dir)
	}
}

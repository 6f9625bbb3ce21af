package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vigilsec/vigil/walker"
)

func TestFileSystemProviderWalksAndHasNoBranches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewFileSystem(dir)
	if p.Path() != dir {
		t.Errorf("Path() = %q, want %q", p.Path(), dir)
	}

	var got []walker.File
	for f, err := range p.Walk(walker.Options{}) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, f)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 file, got %d", len(got))
	}

	if _, err := p.LocalBranches(); !errors.Is(err, ErrSourceIO) {
		t.Errorf("expected ErrSourceIO from LocalBranches, got %v", err)
	}
	if _, err := p.RemoteBranches(); !errors.Is(err, ErrSourceIO) {
		t.Errorf("expected ErrSourceIO from RemoteBranches, got %v", err)
	}
	if err := p.SwitchBranch("main"); !errors.Is(err, ErrSourceIO) {
		t.Errorf("expected ErrSourceIO from SwitchBranch, got %v", err)
	}
	if err := p.Flush(); err != nil {
		t.Errorf("Flush should be a no-op for FileSystemProvider, got %v", err)
	}
}

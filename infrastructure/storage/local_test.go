package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.wav")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	s := NewLocalStorage()
	ctx := context.Background()

	ok, err := s.Exists(ctx, path)
	if err != nil || !ok {
		t.Errorf("Exists = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = s.Exists(ctx, filepath.Join(dir, "absent.wav"))
	if err != nil || ok {
		t.Errorf("Exists = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.wav")
	if err := os.WriteFile(path, make([]byte, 123), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	size, err := NewLocalStorage().Size(context.Background(), path)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 123 {
		t.Errorf("size = %d, want 123", size)
	}
}

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	for _, name := range []string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.WAV"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(sub, "c.wave"),
	} {
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	files, err := NewLocalStorage().FindAudioFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("FindAudioFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) == ".txt" {
			t.Errorf("non-audio file returned: %s", f)
		}
	}
}

func TestFindAudioFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalStorage().FindAudioFiles(ctx, t.TempDir()); err == nil {
		t.Error("expected error for canceled context")
	}
}

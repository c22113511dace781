package snapshot

import (
	"io"
	"path/filepath"
	"testing"
)

func TestStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.snap")

	s, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	payload := []byte("serialized tree bytes")
	if err := s.Save(func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	r, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestStoreGrowsForLargePayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.snap")

	s, err := Open(path, lengthPrefixSize)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	payload := make([]byte, 10000)
	for i := range payload {
		payload[i] = byte(i)
	}

	if err := s.Save(func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	r, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("got %d bytes, want %d", len(got), len(payload))
	}
	for i := range got {
		if got[i] != payload[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got[i], payload[i])
		}
	}
}

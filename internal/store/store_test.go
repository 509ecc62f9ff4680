package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docxforge/docxforge/core/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	payload := []byte(`{"paragraphs_count": 3, "tables_count": 0}`)

	tmpl, err := s.Save("letterhead", payload)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if tmpl.ID == "" || tmpl.Hash == "" {
		t.Errorf("template missing identity: %+v", tmpl)
	}
	if tmpl.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", tmpl.Size, len(payload))
	}

	got, err := s.Load("letterhead")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %s, want %s", got, payload)
	}
}

func TestSaveReplacesByName(t *testing.T) {
	s := openStore(t)
	if _, err := s.Save("report", []byte(`{"v": 1}`)); err != nil {
		t.Fatalf("Save v1: %v", err)
	}
	if _, err := s.Save("report", []byte(`{"v": 2}`)); err != nil {
		t.Fatalf("Save v2: %v", err)
	}

	got, err := s.Load("report")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"v": 2}` {
		t.Errorf("payload = %s, want v2", got)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1 (replace, not duplicate)", len(list))
	}
}

func TestBlobsDeduplicateByHash(t *testing.T) {
	s := openStore(t)
	payload := []byte(`{"shared": true}`)

	a, err := s.Save("first", payload)
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}
	b, err := s.Save("second", payload)
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}
	if a.Hash != b.Hash {
		t.Errorf("identical payloads hashed differently: %s vs %s", a.Hash, b.Hash)
	}
	if _, err := os.Stat(s.blobPath(a.Hash)); err != nil {
		t.Errorf("blob missing: %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	s := openStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := s.Save(name, []byte(`{}`)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(list) != len(want) {
		t.Fatalf("list length = %d", len(list))
	}
	for i, w := range want {
		if list[i].Name != w {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, w)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Load("absent")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	if _, err := s.Save("tmp", []byte(`{}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete("tmp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("tmp"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Load after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("tmp"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestSaveEmptyName(t *testing.T) {
	s := openStore(t)
	if _, err := s.Save("", []byte(`{}`)); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBlobVerification(t *testing.T) {
	s := openStore(t)
	tmpl, err := s.Save("tamper", []byte(`{"a": 1}`))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Corrupt the blob on disk; Load must refuse to return it.
	other := openStore(t)
	otherTmpl, err := other.Save("decoy", []byte(`{"b": 2}`))
	if err != nil {
		t.Fatalf("Save decoy: %v", err)
	}
	data, err := os.ReadFile(other.blobPath(otherTmpl.Hash))
	if err != nil {
		t.Fatalf("read decoy blob: %v", err)
	}
	path := s.blobPath(tmpl.Hash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("overwrite blob: %v", err)
	}

	if _, err := s.Load("tamper"); err == nil {
		t.Fatal("Load returned corrupted blob")
	}
}

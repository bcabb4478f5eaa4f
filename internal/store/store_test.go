package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prezicast.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{
		ID:      "p1",
		Title:   "Easter service",
		OwnerID: "user-1",
		Public:  true,
		Path:    []string{"f1", "f2", "f3"},
		Deck:    []byte("version: \"1.0\"\n"),
	}
	if err := s.Create(rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Easter service" || got.OwnerID != "user-1" || !got.Public {
		t.Errorf("record fields off: %+v", got)
	}
	if len(got.Path) != 3 || got.Path[0] != "f1" {
		t.Errorf("path not persisted: %v", got.Path)
	}
	if string(got.Deck) != "version: \"1.0\"\n" {
		t.Errorf("deck blob not persisted: %q", got.Deck)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateState(t *testing.T) {
	s := openTestStore(t)
	if err := s.Create(&Record{ID: "p1", OwnerID: "user-1", Path: []string{"f1"}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.UpdateState("p1", "f2", "user-1", true, []string{"f1", "f2"}); err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}

	got, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CurrentSlideID != "f2" || got.PresenterID != "user-1" || !got.IsPresenting {
		t.Errorf("state not updated: %+v", got)
	}
	if len(got.Path) != 2 {
		t.Errorf("path not updated: %v", got.Path)
	}

	if err := s.UpdateState("missing", "", "", false, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"a", "b"} {
		if err := s.Create(&Record{ID: id, OwnerID: "user-1"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := s.Create(&Record{ID: "c", OwnerID: "user-2"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records, err := s.List("user-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	if err := s.Create(&Record{ID: "p1", OwnerID: "user-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Delete("p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted record still resolves: %v", err)
	}
	if err := s.Delete("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDeck(t *testing.T) {
	s := openTestStore(t)
	if err := s.Create(&Record{ID: "p1", OwnerID: "user-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.UpdateDeck("p1", []byte("frames: []\n")); err != nil {
		t.Fatalf("UpdateDeck failed: %v", err)
	}
	got, _ := s.Get("p1")
	if string(got.Deck) != "frames: []\n" {
		t.Errorf("deck not updated: %q", got.Deck)
	}
}

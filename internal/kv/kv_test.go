package kv

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestOpenWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/planner.db"
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("a", "1"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen and read back.
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get("a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("reopen get: %q %v %v", v, ok, err)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected absent key, got %q %v", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.Set("k", "one")
	s.Set("k", "two")
	v, ok, _ := s.Get("k")
	if !ok || v != "two" {
		t.Fatalf("expected overwrite, got %q", v)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	s.Set("k", "v")
	if err := s.Remove("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatal("key should be gone")
	}
	// Removing again is fine.
	if err := s.Remove("k"); err != nil {
		t.Fatal(err)
	}
}

func TestKeysSorted(t *testing.T) {
	s := newTestStore(t)
	s.Set("b", "2")
	s.Set("a", "1")
	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

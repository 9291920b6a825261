package subscribers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var (
	_ Store = (*File)(nil)
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)

func newFileStore(t *testing.T) *File {
	t.Helper()
	s, err := NewFile(filepath.Join(t.TempDir(), "state", "subscribers.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return s
}

func TestFileAddRemoveContains(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	added, err := s.Add(ctx, 42)
	if err != nil || !added {
		t.Fatalf("Add(42) = (%v, %v), want (true, nil)", added, err)
	}
	if ok, _ := s.Contains(ctx, 42); !ok {
		t.Fatal("Contains(42) after Add = false, want true")
	}

	removed, err := s.Remove(ctx, 42)
	if err != nil || !removed {
		t.Fatalf("Remove(42) = (%v, %v), want (true, nil)", removed, err)
	}
	if ok, _ := s.Contains(ctx, 42); ok {
		t.Fatal("Contains(42) after Remove = true, want false")
	}
}

func TestFileIdempotentMutations(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	if added, _ := s.Add(ctx, 1); !added {
		t.Fatal("first Add returned false")
	}
	if added, _ := s.Add(ctx, 1); added {
		t.Fatal("second Add returned true")
	}

	if removed, _ := s.Remove(ctx, 1); !removed {
		t.Fatal("first Remove returned false")
	}
	if removed, _ := s.Remove(ctx, 1); removed {
		t.Fatal("second Remove returned true")
	}

	before, _ := s.Count(ctx)
	if removed, _ := s.Remove(ctx, 999); removed {
		t.Fatal("Remove of absent id returned true")
	}
	after, _ := s.Count(ctx)
	if before != after {
		t.Fatalf("Count changed by no-op Remove: %d -> %d", before, after)
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "subscribers.json")

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	for _, id := range []int64{9, 3, 5} {
		if _, err := s.Add(ctx, id); err != nil {
			t.Fatalf("Add(%d): %v", id, err)
		}
	}

	reloaded, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile reload: %v", err)
	}
	got, _ := reloaded.All(ctx)
	want := []int64{3, 5, 9}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("All after reload = %v, want %v", got, want)
	}
	if count, _ := reloaded.Count(ctx); count != len(got) {
		t.Fatalf("Count = %d, want %d", count, len(got))
	}
}

func TestFileMissingFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	if count, _ := s.Count(ctx); count != 0 {
		t.Fatalf("Count = %d, want 0", count)
	}
}

func TestFileCorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "subscribers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile on corrupt file: %v", err)
	}
	if count, _ := s.Count(ctx); count != 0 {
		t.Fatalf("Count = %d, want 0", count)
	}

	// The store must still accept writes over the corrupt file.
	if added, err := s.Add(ctx, 7); !added || err != nil {
		t.Fatalf("Add after corrupt load = (%v, %v), want (true, nil)", added, err)
	}
}

func TestFileIgnoresUnknownKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "subscribers.json")
	payload := []byte(`{"subscribers": [1, 2], "version": 3, "note": "x"}`)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	got, _ := s.All(ctx)
	if !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("All = %v, want [1 2]", got)
	}
}

func TestFileSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	if _, err := s.Add(ctx, 10); err != nil {
		t.Fatal(err)
	}

	snapshot, _ := s.All(ctx)
	snapshot[0] = 999

	if ok, _ := s.Contains(ctx, 10); !ok {
		t.Fatal("mutating the snapshot changed the store")
	}
	if ok, _ := s.Contains(ctx, 999); ok {
		t.Fatal("mutating the snapshot injected a member")
	}
}

func TestFilePersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "state")
	// A directory at the storage path makes the rename step fail.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	added, err := s.Add(ctx, 42)
	if !added {
		t.Fatal("Add reported false despite in-memory insert")
	}
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("Add error = %v, want ErrPersist", err)
	}
	if ok, _ := s.Contains(ctx, 42); !ok {
		t.Fatal("mutation rolled back after persist failure")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if added, err := s.Add(ctx, 42); !added || err != nil {
		t.Fatalf("Add = (%v, %v), want (true, nil)", added, err)
	}
	if added, _ := s.Add(ctx, 42); added {
		t.Fatal("second Add returned true")
	}
	if ok, _ := s.Contains(ctx, 42); !ok {
		t.Fatal("Contains = false after Add")
	}
	if count, _ := s.Count(ctx); count != 1 {
		t.Fatalf("Count = %d, want 1", count)
	}

	all, _ := s.All(ctx)
	if !reflect.DeepEqual(all, []int64{42}) {
		t.Fatalf("All = %v, want [42]", all)
	}

	if removed, _ := s.Remove(ctx, 42); !removed {
		t.Fatal("Remove returned false")
	}
	if removed, _ := s.Remove(ctx, 42); removed {
		t.Fatal("second Remove returned true")
	}
	if count, _ := s.Count(ctx); count != 0 {
		t.Fatalf("Count = %d, want 0", count)
	}
}

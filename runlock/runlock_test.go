package runlock

import (
	"errors"
	"testing"
)

func Test_Acquire_SecondRunIsRefused(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireIn(dir, "/srv/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := AcquireIn(dir, "/srv/project"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatal(err)
	}

	again, err := AcquireIn(dir, "/srv/project")
	if err != nil {
		t.Fatalf("expected lock to be free after release, got %v", err)
	}
	again.Release()
}

func Test_Acquire_DifferentRootsIndependent(t *testing.T) {
	dir := t.TempDir()

	a, err := AcquireIn(dir, "/srv/a")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()

	b, err := AcquireIn(dir, "/srv/b")
	if err != nil {
		t.Fatalf("expected independent lock, got %v", err)
	}
	defer b.Release()

	if a.Path() == b.Path() {
		t.Error("expected distinct lock files")
	}
}

func Test_PathFor_CleansRoot(t *testing.T) {
	if PathFor("/tmp", "/srv/a/") != PathFor("/tmp", "/srv/a") {
		t.Error("expected trailing slash to not change the lock path")
	}
}

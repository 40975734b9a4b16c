package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lumipallolabs/peektree/internal/model"
)

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := NewPool(2).ListDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	kinds := map[string]model.Kind{}
	for _, e := range entries {
		kinds[e.Name] = e.Kind
	}
	if kinds["sub"] != model.KindDir {
		t.Errorf("expected sub to be a directory, got %v", kinds["sub"])
	}
	if kinds["file.txt"] != model.KindFile {
		t.Errorf("expected file.txt to be a file, got %v", kinds["file.txt"])
	}
}

func TestListDirMissing(t *testing.T) {
	_, err := NewPool(1).ListDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestClassifySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "target"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "dirlink")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "plain.txt"), filepath.Join(dir, "filelink")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken")); err != nil {
		t.Fatal(err)
	}

	entries, err := NewPool(1).ListDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}

	kinds := map[string]model.Kind{}
	for _, e := range entries {
		kinds[e.Name] = e.Kind
	}
	if kinds["dirlink"] != model.KindSymlinkDir {
		t.Errorf("expected dirlink as symlink dir, got %v", kinds["dirlink"])
	}
	if kinds["filelink"] != model.KindSymlinkFile {
		t.Errorf("expected filelink as symlink file, got %v", kinds["filelink"])
	}
	// A dangling link previews as an error later but lists as a file link.
	if kinds["broken"] != model.KindSymlinkFile {
		t.Errorf("expected broken link as symlink file, got %v", kinds["broken"])
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(1)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Acquire(ctx); err == nil {
		p.Release()
		t.Fatal("expected acquire to fail once the pool is exhausted and ctx cancelled")
	}
	p.Release()

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	p.Release()
}

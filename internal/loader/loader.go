// Package loader performs the filesystem reads that back the tree and the
// preview pipeline. All reads run through one bounded pool so rapid
// navigation cannot pile up unbounded goroutines.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"github.com/lumipallolabs/peektree/internal/model"
)

// Pool is the shared worker pool. Directory loads and preview loads take
// slots first-come-first-served; neither has priority.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with the given number of slots.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 4
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Acquire blocks until a worker slot is free.
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// Release returns a slot to the pool.
func (p *Pool) Release() {
	p.sem.Release(1)
}

// ListDir reads one directory level and classifies each entry. Symlinks
// are followed just far enough to tell directory links from file links;
// a broken link is treated as a file link.
func (p *Pool) ListDir(ctx context.Context, path string) ([]model.Entry, error) {
	if err := p.Acquire(ctx); err != nil {
		return nil, err
	}
	defer p.Release()

	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]model.Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, model.Entry{
			Name: d.Name(),
			Kind: classify(path, d),
		})
	}
	return entries, nil
}

func classify(dir string, d fs.DirEntry) model.Kind {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, d.Name()))
		if err == nil && info.IsDir() {
			return model.KindSymlinkDir
		}
		return model.KindSymlinkFile
	}
	if d.IsDir() {
		return model.KindDir
	}
	return model.KindFile
}

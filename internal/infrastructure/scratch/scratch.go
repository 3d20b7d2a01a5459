// Package scratch allocates per-job temporary files. Every job gets a random
// UUID so concurrent jobs never share a path, even for the same source URL.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/udagram/image-filter/internal/core/ports"
)

const (
	sourceSuffix   = ".src"
	filteredSuffix = ".filtered"
)

// Dir hands out jobs rooted in a single directory.
type Dir struct {
	root string
}

// NewDir creates root if needed. An empty root uses os.TempDir()/image-filter.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "image-filter")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory jobs are created in.
func (d *Dir) Root() string {
	return d.root
}

// NewJob reserves a fresh file pair. Nothing is created on disk until the
// caller opens the paths.
func (d *Dir) NewJob() (ports.ScratchJob, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("scratch job id: %w", err)
	}
	return &Job{id: id.String(), root: d.root}, nil
}

// Job owns the files of one pipeline run.
type Job struct {
	id   string
	root string

	mu       sync.Mutex
	filtered string

	once sync.Once
	err  error
}

func (j *Job) ID() string {
	return j.id
}

func (j *Job) SourcePath() string {
	return filepath.Join(j.root, j.id+sourceSuffix)
}

// FilteredPath returns the output path for ext and records it for Release.
func (j *Job) FilteredPath(ext string) string {
	name := j.id + filteredSuffix
	if ext != "" {
		name += "." + ext
	}
	p := filepath.Join(j.root, name)

	j.mu.Lock()
	j.filtered = p
	j.mu.Unlock()
	return p
}

// Release deletes the job's files once. Later calls return the first result.
func (j *Job) Release() error {
	j.once.Do(func() {
		j.mu.Lock()
		paths := []string{j.SourcePath(), j.filtered}
		j.mu.Unlock()

		var errs []error
		for _, p := range paths {
			if p == "" {
				continue
			}
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
		}
		j.err = errors.Join(errs...)
	})
	return j.err
}

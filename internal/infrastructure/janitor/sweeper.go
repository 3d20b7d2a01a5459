package janitor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/api/metrics"
)

const (
	defaultInterval = 10 * time.Minute
	defaultMaxAge   = time.Hour
)

// Sweeper removes scratch files that outlived any reasonable job, e.g. after
// a crash between download and release.
type Sweeper struct {
	root     string
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewSweeper returns a Sweeper for root. Non-positive durations use defaults.
func NewSweeper(root string, interval, maxAge time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &Sweeper{
		root:     root,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		log:      log,
	}
}

// Start runs a sweep immediately and then on every tick until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Sweep()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Sweep deletes regular files in root older than maxAge and returns how many
// were removed.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Warn().Err(err).Str("root", s.root).Msg("scratch sweep: read dir failed")
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		p := filepath.Join(s.root, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("file", p).Msg("scratch sweep: remove failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		metrics.ScratchFilesSweptTotal.Add(float64(removed))
		s.log.Info().Int("removed", removed).Msg("scratch sweep finished")
	}
	return removed
}

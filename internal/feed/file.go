package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"poolboard/internal/pool"
)

// FileSource reads snapshots from a JSON or YAML file.
type FileSource struct {
	path string
	seq  *Sequencer
	log  logr.Logger
}

// NewFileSource returns a source reading path. seq may be nil.
func NewFileSource(path string, seq *Sequencer, log logr.Logger) *FileSource {
	return &FileSource{path: path, seq: sequencerOr(seq), log: log}
}

// Path returns the file being read.
func (s *FileSource) Path() string {
	return s.path
}

// Refresh implements pool.Source.
func (s *FileSource) Refresh(ctx context.Context) (pool.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return pool.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return pool.Snapshot{}, fmt.Errorf("read pools: %w", err)
	}
	doc, err := Decode(data, FormatOf(s.path))
	if err != nil {
		return pool.Snapshot{}, fmt.Errorf("%s: %w", s.path, err)
	}
	snap, dropped := s.seq.Snapshot(doc)
	if dropped > 0 {
		s.log.Info("dropped pools without a unique staking address", "path", s.path, "dropped", dropped)
	}
	return snap, nil
}

// ClaimReward implements pool.Claimer. Files cannot submit claims.
func (s *FileSource) ClaimReward(context.Context, pool.Record) error {
	return pool.ErrClaimUnsupported
}

// Watch re-reads the file whenever it is written or replaced and hands the
// result to fn. It blocks until ctx is done.
func (s *FileSource) Watch(ctx context.Context, fn func(pool.Snapshot, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch pools: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors replace files by rename, which drops a
	// watch on the file itself.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.log.V(1).Info("pools file changed", "path", s.path, "op", ev.Op.String())
			fn(s.Refresh(ctx))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error(err, "pools watcher error", "path", s.path)
		}
	}
}

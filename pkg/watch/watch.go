// Package watch re-runs detection when network definition files change or
// a re-probe interval elapses, printing output only when it changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fsnotify/fsnotify"

	"github.com/macropower/netsense/pkg/log"
)

// DefaultDebounce is how long to wait for related file events to settle.
const DefaultDebounce = 100 * time.Millisecond

// Matcher selects the files to watch.
type Matcher interface {
	// Root is the directory that contains every matching file.
	Root() string
	// Match reports whether a path is a watched file.
	Match(p string) bool
}

// RunFunc runs one detection and returns its rendered output.
type RunFunc func(ctx context.Context) (string, error)

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithInterval re-runs detection every d even without file changes, so
// that network changes are noticed. Zero disables.
func WithInterval(d time.Duration) Opt {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithDebounce sets the event settle time.
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher re-runs a [RunFunc] on file changes.
type Watcher struct {
	matcher  Matcher
	run      RunFunc
	out      io.Writer
	watched  map[string]struct{}
	root     string
	last     string
	interval time.Duration
	debounce time.Duration
	ran      bool
}

// New creates a [Watcher] that writes output to out.
func New(m Matcher, run RunFunc, out io.Writer, opts ...Opt) *Watcher {
	w := &Watcher{
		matcher:  m,
		run:      run,
		out:      out,
		root:     filepath.Clean(m.Root()),
		debounce: DefaultDebounce,
		watched:  map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run runs once, then again after every relevant change, until ctx is
// done. Errors from the [RunFunc] are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	defer func() {
		err := fw.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("error", err))
		}
	}()

	err = w.addTree(fw, w.root)
	if err != nil {
		return err
	}

	if len(w.watched) == 0 {
		// Pick up the root once it is created.
		parent := existingParent(w.root)

		err = fw.Add(parent)
		if err != nil {
			return fmt.Errorf("add %s to watcher: %w", parent, err)
		}
	}

	log.WithContext(ctx).Debug("added file watchers",
		slog.String("root", w.root),
		slog.Int("count", len(w.watched)),
	)

	w.update(ctx, "start")

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		tick = ticker.C
	}

	settle := time.NewTimer(w.debounce)
	settle.Stop()

	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if w.handle(ctx, fw, evt) {
				settle.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			log.WithContext(ctx).Error("watch files", slog.Any("error", err))

		case <-settle.C:
			w.update(ctx, "files changed")

		case <-tick:
			w.update(ctx, "interval")
		}
	}
}

// handle reports whether evt should trigger a run.
func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) {
		return false
	}

	if evt.Has(fsnotify.Create) {
		info, err := os.Stat(evt.Name)
		if err == nil && info.IsDir() && within(w.root, evt.Name) {
			err = w.addTree(fw, evt.Name)
			if err != nil {
				log.WithContext(ctx).Warn("watch new directory",
					slog.String("path", evt.Name),
					slog.Any("error", err),
				)
			}

			// Files may have been created before the watch was added.
			return true
		}
	}

	if _, ok := w.watched[evt.Name]; ok && evt.Has(fsnotify.Remove) {
		delete(w.watched, evt.Name)

		return true
	}

	return w.matcher.Match(evt.Name)
}

func (w *Watcher) update(ctx context.Context, reason string) {
	logger := log.WithContext(ctx)

	out, err := w.run(ctx)
	if err != nil {
		logger.Error("detect networks", slog.String("reason", reason), slog.Any("error", err))

		return
	}

	if w.ran && out == w.last {
		logger.Debug("output unchanged", slog.String("reason", reason))

		return
	}

	if w.ran {
		logger.Info("output changed",
			slog.String("reason", reason),
			slog.String("diff", udiff.Unified("previous", "current", w.last, out)),
		)
	}

	w.last, w.ran = out, true

	_, err = io.WriteString(w.out, out)
	if err != nil {
		logger.Error("write output", slog.Any("error", err))
	}
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if !d.IsDir() {
			return nil
		}

		if _, ok := w.watched[p]; ok {
			return nil
		}

		err = fw.Add(p)
		if err != nil {
			return fmt.Errorf("add %s to watcher: %w", p, err)
		}

		w.watched[p] = struct{}{}

		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	return nil
}

func existingParent(p string) string {
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		_, err := os.Stat(dir)
		if err == nil || dir == filepath.Dir(dir) {
			return dir
		}
	}
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)

	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

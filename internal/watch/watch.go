package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"maniasr/internal/bus"
	"maniasr/internal/difficulty"
	"maniasr/internal/osuchart"
	"maniasr/internal/resultlog"
)

const (
	pollDelay    = 1 * time.Second
	maxPollDelay = 30 * time.Second
)

// Watcher polls a directory for `.osu` charts, calculates a star rating
// for every new or modified file it finds, and publishes the result to
// the internal bus.
type Watcher struct {
	dir  string
	bus  *bus.Bus
	seen map[string]time.Time
}

// NewWatcher creates a watcher over dir.
func NewWatcher(dir string, b *bus.Bus) *Watcher {
	return &Watcher{
		dir:  dir,
		bus:  b,
		seen: make(map[string]time.Time),
	}
}

// Start launches the poll loop in the background.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	delay := pollDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.scan(); err != nil {
			log.Printf("watch: scan error: %v. Retrying in %v...", err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxPollDelay {
				delay = maxPollDelay
			}
			continue
		}

		delay = pollDelay
		select {
		case <-ctx.Done():
			return
		case <-time.After(pollDelay):
		}
	}
}

func (w *Watcher) scan() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".osu") {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			log.Printf("watch: stat %s: %v", path, err)
			continue
		}

		if last, ok := w.seen[path]; ok && !info.ModTime().After(last) {
			continue
		}
		w.seen[path] = info.ModTime()

		w.process(path)
	}
	return nil
}

// process parses and calculates a single chart, publishing the result to
// the bus. Parse or calculation errors are logged, not fatal: one bad
// file must never stop the watcher.
func (w *Watcher) process(path string) {
	c, err := osuchart.ParseFile(path)
	if err != nil {
		log.Printf("watch: parse %s: %v", path, err)
		return
	}

	sr, err := difficulty.Calculate(c)
	if err != nil {
		log.Printf("watch: calculate %s: %v", path, err)
		return
	}

	result := resultlog.BuildResult(path, c.K, c.OD, len(c.Notes), sr, time.Now().UnixMilli())
	w.bus.Publish(result)
	log.Printf("watch: %s -> SR %.2f (%s)", path, sr, result.Tier)
}

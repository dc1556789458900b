package resultlog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"maniasr/internal/report"
)

// =============================================================================
// ASYNC RESULT LOGGER — zero impact on the calculation path
// =============================================================================
//
// Architecture:
//   calculator goroutine → logCh (buffered 4096) → Logger goroutine → daily CSV
//
// Performance guarantees:
//   • Hot path sends via non-blocking select (drops if full) — 0ns added latency
//   • Logger goroutine runs independently of the calculation path
//   • Batched writes: flushes bufio.Writer every 1 second
//   • bufio buffer: 1MB — absorbs bursts, minimizes syscalls
//   • Append-only daily rotation via filename: logs/YYYY-MM-DD.csv
//
// CSV schema: timestamp,path,k,od,note_count,sr,tier
// =============================================================================

const (
	chanSize    = 4096
	bufSize     = 1 << 20 // 1 MB
	flushPeriod = 1 * time.Second
	logDir      = "logs"
)

// Logger is an async CSV writer for calculated results.
type Logger struct {
	ch chan report.Result
}

// NewLogger creates the logger and starts its background goroutine.
func NewLogger() *Logger {
	l := &Logger{ch: make(chan report.Result, chanSize)}
	go l.run()
	return l
}

// Log is a non-blocking send. Drops the row if the channel is full.
func (l *Logger) Log(r report.Result) {
	select {
	case l.ch <- r:
	default:
		// Drop — logger is backed up, never block the calculator.
	}
}

// Close shuts down the logger's background goroutine after flushing.
func (l *Logger) Close() {
	close(l.ch)
}

func (l *Logger) run() {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("resultlog: failed to create dir: %v", err)
		return
	}

	var (
		currentDay string
		file       *os.File
		writer     *bufio.Writer
	)

	ticker := time.NewTicker(flushPeriod)
	defer ticker.Stop()

	openFile := func(day string) {
		if file != nil {
			writer.Flush()
			file.Close()
		}

		path := filepath.Join(logDir, day+".csv")
		var err error
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("resultlog: failed to open %s: %v", path, err)
			return
		}

		writer = bufio.NewWriterSize(file, bufSize)

		info, _ := file.Stat()
		if info != nil && info.Size() == 0 {
			fmt.Fprintln(writer, "timestamp,path,k,od,note_count,sr,tier")
		}

		currentDay = day
		log.Printf("resultlog: writing to %s", path)
	}

	for {
		select {
		case r, ok := <-l.ch:
			if !ok {
				if writer != nil {
					writer.Flush()
				}
				if file != nil {
					file.Close()
				}
				return
			}

			day := time.UnixMilli(r.Time).UTC().Format("2006-01-02")
			if day != currentDay {
				openFile(day)
			}
			if writer == nil {
				continue
			}

			fmt.Fprintf(writer, "%d,%s,%d,%.2f,%d,%.4f,%s\n",
				r.Time, r.Path, r.K, r.OD, r.NoteCount, r.SR, r.Tier)

		case <-ticker.C:
			if writer != nil {
				writer.Flush()
			}
		}
	}
}

// ─── DECISION LAYER ───

// ClassifyTier maps a star rating onto the tier labels the CLI and
// broadcast clients display alongside the raw number.
func ClassifyTier(sr float64) string {
	switch {
	case sr < 2:
		return "EASY"
	case sr < 3.5:
		return "NORMAL"
	case sr < 5:
		return "HARD"
	case sr < 6.5:
		return "INSANE"
	case sr < 8:
		return "EXPERT"
	default:
		return "EXTREME"
	}
}

// BuildResult constructs a report.Result from a calculated star rating,
// stamping it with the tier classification and the calculation time.
func BuildResult(path string, k int, od float64, noteCount int, sr float64, nowMillis int64) report.Result {
	return report.Result{
		Path:      path,
		K:         k,
		OD:        od,
		NoteCount: noteCount,
		SR:        sr,
		Tier:      ClassifyTier(sr),
		Time:      nowMillis,
	}
}

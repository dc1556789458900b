package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"maniasr/internal/broadcast"
	"maniasr/internal/bus"
	"maniasr/internal/difficulty"
	"maniasr/internal/osuchart"
	"maniasr/internal/report"
	"maniasr/internal/resultbuffer"
	"maniasr/internal/resultlog"
	"maniasr/internal/watch"
)

const resultBufferSize = 512 // recent results retained for newly-connected clients

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	dirFlag := flag.String("dir", "", "calculate every .osu file in a directory once and exit")
	watchFlag := flag.Bool("watch", false, "poll a directory continuously for new or changed .osu files")
	serveFlag := flag.String("serve", "", "address to broadcast results on over WebSocket (requires -watch), e.g. :8080")
	flag.Parse()

	switch {
	case *watchFlag:
		dir := *dirFlag
		if dir == "" {
			dir = "."
		}
		runWatch(dir, *serveFlag)
	case *dirFlag != "":
		runBatch(*dirFlag)
	default:
		args := flag.Args()
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: srcalc <chart.osu> | -dir <path> | -watch [-dir <path>] [-serve :8080]")
			os.Exit(2)
		}
		runSingle(args[0])
	}
}

func runSingle(path string) {
	c, err := osuchart.ParseFile(path)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	sr, err := difficulty.Calculate(c)
	if err != nil {
		log.Fatalf("calculate %s: %v", path, err)
	}

	result := resultlog.BuildResult(path, c.K, c.OD, len(c.Notes), sr, time.Now().UnixMilli())
	fmt.Printf("%s\tK=%d\tOD=%.1f\tnotes=%d\tSR=%.2f\t%s\n",
		path, result.K, result.OD, result.NoteCount, result.SR, result.Tier)
}

func runBatch(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read dir %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".osu") {
			continue
		}
		runSingle(filepath.Join(dir, entry.Name()))
	}
}

func runWatch(dir, addr string) {
	log.Printf("Watching %s for .osu charts...", dir)

	ctx, cancel := context.WithCancel(context.Background())

	// 1. Result bus — fans calculated results out to logging and broadcast.
	resultBus := bus.NewBus()

	// 2. Result logger (async, zero watch-loop impact).
	resultLogger := resultlog.NewLogger()

	// 3. Result ring buffer (in-memory state for newly-connected clients).
	resultBuf := resultbuffer.NewRingBuffer(resultBufferSize)

	// 4. Directory watcher.
	w := watch.NewWatcher(dir, resultBus)
	w.Start(ctx)

	// 5. Fan out: log every result, buffer it, optionally rebroadcast.
	logCh := resultBus.Subscribe(256)
	var broadcastCh chan report.Result
	if addr != "" {
		broadcastCh = make(chan report.Result, 256)
	}

	go func() {
		for r := range logCh {
			resultLogger.Log(r)
			resultBuf.Add(r)
			if broadcastCh != nil {
				select {
				case broadcastCh <- r:
				default:
				}
			}
		}
	}()

	// 6. Broadcaster, if requested.
	if addr != "" {
		broadcaster := broadcast.NewBroadcaster(broadcastCh, resultBuf)
		go broadcaster.Start(addr)
	}

	// 7. Shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()
	resultLogger.Close()
}

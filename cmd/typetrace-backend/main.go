// Command typetrace-backend is the privileged keystroke-capture daemon:
// it wires the input-acquisition layer, the coalescing buffer, and the
// aggregation store together and drives the poll loop until signaled
// (spec.md §4.7).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/typetrace/backend/internal/config"
	"github.com/typetrace/backend/internal/eventhandler"
	"github.com/typetrace/backend/internal/inputdevice"
	"github.com/typetrace/backend/internal/logging"
	"github.com/typetrace/backend/internal/paths"
	"github.com/typetrace/backend/internal/permission"
	"github.com/typetrace/backend/internal/rollup"
	"github.com/typetrace/backend/internal/store"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// Exit codes: distinct small integers per error kind (spec.md §6).
const (
	exitOK = 0

	exitWrongArgument   = 1
	exitInputLayerInit  = 2
	exitSeatAssignment  = 3
	exitPermission      = 4
	exitNoDevices       = 5
	exitStore           = 6
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	cfg := config.New()

	fs := flag.NewFlagSet("typetrace-backend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	help := fs.Bool("help", false, "print usage and exit")
	fs.BoolVar(help, "h", false, "print usage and exit")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.BoolVar(showVersion, "v", false, "print version and exit")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.BoolVar(debug, "d", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		printUsage(stderr)
		return exitWrongArgument
	}

	if *help {
		printUsage(stdout)
		return exitOK
	}
	if *showVersion {
		fmt.Fprintf(stdout, "typetrace-backend %s\n", version)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "typetrace-backend: unexpected positional argument %q\n", fs.Arg(0))
		printUsage(stderr)
		return exitWrongArgument
	}

	cfg.Debug = *debug
	log := logging.New(cfg.Debug)

	storePath, err := paths.ResolveStorePath()
	if err != nil {
		log.Errorf("resolve store path: %v", err)
		return exitStore
	}
	cfg.StorePath = storePath

	restricted := inputdevice.NewInputInterface()
	enum := inputdevice.NewLinuxEnumerator(restricted)
	mux := inputdevice.NewMultiplexer(restricted, enum)

	handler, err := eventhandler.New(eventhandler.Config{
		Mux:           mux,
		Enum:          enum,
		BufferSize:    cfg.BufferSize,
		BufferTimeout: cfg.BufferTimeout,
		PollTimeout:   cfg.PollTimeout,
		KeyNameMax:    cfg.KeyNameMax,
		Logger:        log,
		Stderr:        stderr,
	})
	if err != nil {
		log.Errorf("construct event handler: %v", err)
		return classifyHandlerError(err)
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Errorf("open store: %v", err)
		handler.Close()
		return exitStore
	}

	handler.SetFlushCallback(db.WriteBatch)

	watcher, err := inputdevice.NewHotplugWatcher(mux, func(ev inputdevice.RawEvent) {
		switch ev.Kind {
		case inputdevice.KindDeviceAdded:
			log.Infof("hotplug: device added: %s", ev.DevicePath)
		case inputdevice.KindDeviceRemoved:
			log.Infof("hotplug: device removed: %s", ev.DevicePath)
		}
	})
	if err == nil {
		watcher.Start()
	} else {
		log.Debugf("hotplug watcher unavailable: %v", err)
	}

	var running atomic.Bool
	running.Store(true)

	var shutdownOnce atomic.Bool
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		// Idempotent: a second signal during shutdown is absorbed.
		if shutdownOnce.CompareAndSwap(false, true) {
			running.Store(false)
		}
	}()

	log.Infof("typetrace-backend %s started, writing to %s", version, cfg.StorePath)

	for running.Load() {
		if err := handler.Tick(); err != nil {
			log.Debugf("tick error: %v", err)
		}
	}

	if err := handler.Flush(); err != nil {
		log.Errorf("final flush: %v", err)
	}
	if summary, err := rollup.ForDate(db, time.Now().Local().Format("2006-01-02")); err == nil {
		log.Debugf("session summary: %d presses today, busiest key %q (%d)",
			summary.TotalPresses, summary.BusiestKey, summary.BusiestCount)
	}

	if watcher != nil {
		watcher.Stop()
	}
	handler.Close()
	if err := db.Close(); err != nil {
		log.Debugf("close store: %v", err)
	}

	log.Infof("typetrace-backend shut down")
	return exitOK
}

// classifyHandlerError maps a construction-time failure from
// eventhandler.New to its exit code by walking the error chain with
// errors.Is against the sentinels the permission package and
// eventhandler.ErrSeatAssignment export, rather than matching the wrapped
// message text. A wrapped enumerate failure from
// permission.RequireAccessibleDevices (spec.md §4.2 InputLayerError) does
// not satisfy errors.Is against permission.ErrNoDevices, so it falls
// through to exitInputLayerInit instead of being folded into the
// no-devices case.
func classifyHandlerError(err error) int {
	switch {
	case errors.Is(err, eventhandler.ErrSeatAssignment):
		return exitSeatAssignment
	case errors.Is(err, permission.ErrNoInputGroup), errors.Is(err, permission.ErrNotInGroup):
		return exitPermission
	case errors.Is(err, permission.ErrNoDevices):
		return exitNoDevices
	default:
		return exitInputLayerInit
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: typetrace-backend [-h|--help] [-v|--version] [-d|--debug]")
	fmt.Fprintln(w, "  -h, --help     print this help and exit")
	fmt.Fprintln(w, "  -v, --version  print the version and exit")
	fmt.Fprintln(w, "  -d, --debug    raise log verbosity to debug")
}

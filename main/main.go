// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tzwitter"
)

const shutdownTimeout = 5 * time.Second

func main() {
	p, err := getParams()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if p.version {
		fmt.Printf("%s@%s\n", tzwitter.Name, tzwitter.Version)
		os.Exit(0)
	}

	log.Root().SetHandler(log.LvlFilterHandler(p.logLevel, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	if err := run(p, os.Stdout); err != nil {
		log.Error("tzwitter failed", "err", err)
		os.Exit(1)
	}
}

// run restores the durable storage, processes the inbox file if any, saves
// the storage and serves the query RPC if enabled.
func run(p *params, w io.Writer) error {
	snapshot, err := host.OpenSnapshot(p.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p.dbPath, err)
	}
	defer snapshot.Close()

	db := memdb.New()
	if err := snapshot.Restore(db); err != nil {
		return fmt.Errorf("failed to restore %s: %w", p.dbPath, err)
	}

	registry := prometheus.NewRegistry()
	if p.inboxFile != "" {
		if err := processLevel(p, db, registry, snapshot, w); err != nil {
			return err
		}
	}

	if p.rpcAddr == "" {
		return nil
	}
	return serve(p.rpcAddr, db, registry)
}

func processLevel(p *params, db database.Database, registry *prometheus.Registry, snapshot *host.Snapshot, w io.Writer) error {
	level, err := host.LoadLevel(p.inboxFile)
	if err != nil {
		return err
	}
	inbox, err := level.Inbox()
	if err != nil {
		return err
	}
	kernel, err := tzwitter.New(p.config, registry)
	if err != nil {
		return err
	}

	h := host.New(db, inbox, log.New("module", "kernel"))
	summary, runErr := kernel.Run(h)
	if runErr != nil {
		// the message being processed is dropped, the previous ones stay
		h.Abort()
	}
	if err := snapshot.Save(db); err != nil {
		return fmt.Errorf("failed to save %s: %w", p.dbPath, err)
	}
	log.Info("processed level",
		"level", level.Level,
		"messages", len(level.Messages),
		"status", summary.Status,
	)
	printSummary(w, level.Level, summary)
	return runErr
}

func printSummary(w io.Writer, level uint32, s tzwitter.Summary) {
	status := color.New(color.FgGreen, color.Bold)
	if s.Status == tzwitter.Halted {
		status = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(w, "Level %d: ", level)
	status.Fprintln(w, s.Status)
	if s.Predecessor != "" {
		fmt.Fprintf(w, "  Predecessor: %s\n", s.Predecessor)
	}
	color.New(color.FgGreen).Fprintf(w, "  Successes: %d\n", s.Successes)
	color.New(color.FgYellow).Fprintf(w, "  Failures: %d\n", s.Failures)
	fmt.Fprintf(w, "  Skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "  Invalid signatures: %d\n", s.InvalidSignatures)
	fmt.Fprintf(w, "  Outputs: %d\n", s.Outputs)
}

// serve serves the query RPC and the metrics until SIGINT or SIGTERM
func serve(addr string, db database.Database, registry *prometheus.Registry) error {
	service, err := tzwitter.NewService(host.New(db, host.NewMemInbox(), nil), registry)
	if err != nil {
		return err
	}
	handler, err := tzwitter.NewHandler(service)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/"+tzwitter.Name, handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	// register signals to kill the application
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT)
	signal.Notify(signals, syscall.SIGTERM)
	defer signal.Stop(signals)

	g, gctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		log.Info("serving rpc", "addr", addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-signals:
		case <-gctx.Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	return g.Wait()
}

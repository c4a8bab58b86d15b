package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/host"
	"github.com/dshills/redline/internal/metrics"
	"github.com/dshills/redline/internal/overlay"
	"github.com/dshills/redline/internal/render"
	"github.com/dshills/redline/internal/snapwatch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		docPath     string
		snapPath    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-list annotations whenever the snapshot file changes",
		Long: `watch prints the annotation listing for a document, then reprints it each
time the snapshot file is rewritten. When a metrics address is configured,
Prometheus metrics are served at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(docPath, snapPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.Metrics.Addr = metricsAddr
			}
			return a.watch(cmd.Context(), cmd.OutOrStdout(), in, snapPath)
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "Document file")
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "Tracked-change snapshot (JSON)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

func (a *app) watch(ctx context.Context, out io.Writer, in *input, snapPath string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	surface := host.New(in.doc.Text(), host.WithLogger(a.logger))
	defer surface.Close()

	builder := annotation.NewBuilder(annotation.WithLogger(a.logger), annotation.WithMetrics(m))
	engine := overlay.NewEngine(surface,
		overlay.NewBoundedRefresh(in.snap.Ranges, in.snap.Threads, in.doc.Len()),
		overlay.WithLogger(a.logger), overlay.WithMetrics(m), overlay.WithBuilder(builder))
	surface.AddListener(engine)

	var outMu sync.Mutex
	list := func(set annotation.Set) {
		outMu.Lock()
		defer outMu.Unlock()
		doc := buffer.NewDocument(surface.Text())
		if err := render.Describe(out, doc, set); err != nil {
			a.logger.Error("listing failed", slog.Any("error", err))
		}
		fmt.Fprintln(out)
	}
	engine.Subscribe(func(s overlay.State) { list(s.Set) })
	list(engine.Set())

	w, err := snapwatch.New(snapPath, surface,
		snapwatch.WithDelay(a.cfg.Snapshot.Debounce.Std()),
		snapwatch.WithLogger(a.logger),
		snapwatch.WithMetrics(m))
	if err != nil {
		return err
	}
	defer w.Close()

	errCh := make(chan error, 1)
	var srv *http.Server
	if addr := a.cfg.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		a.logger.Info("serving metrics", slog.String("addr", addr))
	}

	a.logger.Info("watching snapshot", slog.String("path", w.Path()))
	defer func() {
		if srv == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return fmt.Errorf("metrics server: %w", err)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			a.logger.Warn("snapshot watch error", slog.Any("error", err))
		}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scene/pkg/debug"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <scene>",
		Short: "Serve a scene on the debug server",
		Long: `Serve loads a scene and exposes it over HTTP until interrupted:

  GET /tree      item tree with geometry
  GET /health    window id, grab and counters
  GET /metrics   Prometheus metrics
  GET /events    websocket for injecting pointer events

Examples:
  scene serve list.yaml
  scene serve list.yaml --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Debug.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, w, err := e.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			srv := debug.New(w, debug.WithLogger(e.logger), debug.WithGatherer(e.registry))
			bound, err := srv.Start(addr)
			if err != nil {
				return err
			}
			success("Serving %s", s.Name())
			info("http://%s/tree", bound)
			info("ws://%s/events", bound)

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: debug.addr from scene.json)")

	return cmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"dstu/internal/cache"
	"dstu/internal/metrics"
	serviceDstu "dstu/internal/service/dstu"

	"github.com/spf13/cobra"
)

var metricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Follow the backend change stream and print resulting invalidations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := cfg.WatchPath
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: metricsAddr, Handler: mux}
			go func() {
				logger.Info("serving metrics", "addr", metricsAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics listener failed", "error", err)
				}
			}()
			defer func() { _ = srv.Shutdown(context.Background()) }()
		}

		unsubscribe := registry.Subscribe(func(ev cache.Event) {
			if ev.All {
				fmt.Printf("invalidated: everything (%s)\n", ev.Reason)
				return
			}
			fmt.Printf("invalidated: %s\n", strings.Join(ev.IDs, ", "))
		})
		defer unsubscribe()

		pump := serviceDstu.NewChangePump(watcher, invalidator, logger)
		if err := pump.Run(ctx, pattern); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while watching (e.g. :9090)")
	rootCmd.AddCommand(watchCmd)
}

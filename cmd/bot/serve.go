package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/X1ag/RideBoard/internal/metrics"
	"github.com/X1ag/RideBoard/internal/repository/memory"
	"github.com/X1ag/RideBoard/internal/usecase"
	"github.com/X1ag/RideBoard/transport/telegram"
	"github.com/X1ag/RideBoard/transport/worker"
	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if err := cfg.RequireToken(); err != nil {
				return err
			}
			ctx := cmd.Context()

			tripRepo, closeStore, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.MustNew(reg)

			sessions := memory.NewSessionRepository(cfg.Dialog.MaxSessions, cfg.Dialog.SessionTTL, log)
			tripUC := usecase.NewTripUsecase(tripRepo)
			listing := usecase.NewListing(tripUC, cfg.Listing.RecentWindow, cfg.Listing.SearchWindow)
			dialogUC := usecase.NewDialogUsecase(sessions, tripUC, listing, m, log)

			tg := telegram.NewBot(dialogUC, log)
			client, err := bot.New(cfg.Telegram.Token, bot.WithDefaultHandler(tg.DefaultHandler))
			if err != nil {
				return fmt.Errorf("cannot create telegram client: %w", err)
			}
			tg.AddClient(client)

			w := worker.NewWorker(tripUC, sessions, m, cfg.Metrics.RefreshInterval, log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				client.Start(gctx)
				return nil
			})
			g.Go(func() error {
				return w.Run(gctx)
			})
			if cfg.Metrics.Addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler(reg))
				srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				g.Go(func() error {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			log.Info("bot started", "metrics_addr", cfg.Metrics.Addr)
			err = g.Wait()
			log.Info("bot stopped")
			return err
		},
	}
}

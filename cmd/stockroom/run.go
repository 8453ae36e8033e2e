package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/packagingcountry/stockroom/internal/config"
	"github.com/packagingcountry/stockroom/internal/handlers"
	"github.com/packagingcountry/stockroom/internal/server"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
}

func run(ctx context.Context, cfg *config.Configuration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zap.S().Named("main")
	log.Infow("starting stockroom", cfg.Fields()...)

	sched := scheduler.NewScheduler(cfg.Scheduler.Workers)
	defer sched.Close()

	st := newStore(cfg)
	defer st.Close()

	inventorySrv := services.NewInventoryService(st)
	salesSrv := services.NewSalesService(st, inventorySrv)
	h := handlers.New(
		st,
		inventorySrv,
		salesSrv,
		services.NewDashboardService(st, sched),
		services.NewReportService(inventorySrv, salesSrv),
	)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	})
	if err != nil {
		return err
	}

	// the API answers 503 until the store is ready
	go func() {
		if err := st.Initialize(ctx); err != nil {
			log.Errorw("store unavailable", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Errorw("failed to stop server", "error", err)
	}
	log.Info("stockroom stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"recordhub/internal/blog"
	bloghandler "recordhub/internal/blog/handler"
	"recordhub/internal/catalog"
	cataloghandler "recordhub/internal/catalog/handler"
	"recordhub/internal/medical"
	medicalhandler "recordhub/internal/medical/handler"
	"recordhub/internal/platform/config"
	"recordhub/internal/platform/httpserver"
	"recordhub/internal/platform/logger"
	"recordhub/internal/platform/metrics"
	httptransport "recordhub/internal/transport/http"
)

// main wires stores, services, and the HTTP surface, then supervises the
// server lifecycle. Business logic lives in the internal domain packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	catalogStore := catalog.NewInMemoryStore()
	blogStore := blog.NewInMemoryStore()
	medicalStore := medical.NewInMemoryStore()

	catalogService := catalog.NewService(catalogStore, m)
	blogService := blog.NewService(blogStore, m)
	medicalService := medical.NewService(medicalStore, m)

	ctx := context.Background()
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Catalog: cataloghandler.New(catalogService, log),
		Blog:    bloghandler.New(blogService, log),
		Medical: medicalhandler.New(medicalService, log),
		ItemCount: func() int {
			return catalogService.ActiveCount(ctx)
		},
		UserCount: func() int {
			users, _, _ := blogService.Counts(ctx)
			return users
		},
		PatientCount: func() int {
			return medicalService.ActiveCount(ctx)
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info("starting recordhub", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

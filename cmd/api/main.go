package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"moving-broker/internal/config"
	"moving-broker/internal/db"
	"moving-broker/internal/httpserver"
	customerrepo "moving-broker/internal/repository/customer"
	moverrepo "moving-broker/internal/repository/mover"
	offerrepo "moving-broker/internal/repository/offer"
	requestrepo "moving-broker/internal/repository/request"
	discoverysvc "moving-broker/internal/service/discovery"
	historysvc "moving-broker/internal/service/history"
	requestsvc "moving-broker/internal/service/request"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	requestRepo := requestrepo.NewPostgres(dbpool, logger)
	offerRepo := offerrepo.NewPostgres(dbpool, logger)
	moverRepo := moverrepo.NewPostgres(dbpool, logger)

	requestService := requestsvc.New(requestRepo, customerRepo, moverRepo)
	historyService := historysvc.New(requestRepo, offerRepo, moverRepo)
	discoveryService := discoverysvc.New(moverRepo, requestRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		RequestSvc:   requestService,
		HistorySvc:   historyService,
		DiscoverySvc: discoveryService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/source"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stderr, cfg.App.LogLevel)

	repo, closeRepo, err := source.Open(cfg)
	if err != nil {
		slog.Error("failed to open template source", "source", cfg.Backend.Source, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	invoiceService := invoice.NewService(repo)

	router := invoicerHttp.New(invoicerHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		AuthSecret:  cfg.Server.AuthSecret,
		Metrics:     invoicerHttp.NewMetrics("invoicer"),
	}, invoiceHandler.NewHandler(invoiceService))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", server.Addr, "source", cfg.Backend.Source)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

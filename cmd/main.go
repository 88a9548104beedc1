package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subastabot/config"
	"subastabot/pkg/api"
	"subastabot/pkg/bot"
	"subastabot/pkg/filestore"
	"subastabot/pkg/logger"
	"subastabot/pkg/notify"
	"subastabot/pkg/whatsapp"
	"subastabot/storage/postgres"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName)

	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	files, err := filestore.NewDiskStore(cfg.FileStoreRoot, cfg.FileSecret, cfg.PublicBaseURL)
	if err != nil {
		log.Error("Failed to initialize file store", logger.Error(err))
		os.Exit(1)
	}

	client := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, log)
	notifier := notify.New(pgStore.Subscription(), client, cfg.NotifyTemplate, log)
	auctionBot := bot.New(&cfg, pgStore, client, notifier, files, log)

	server := api.NewServer(&cfg, auctionBot, files, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: server.Router(),
	}

	go func() {
		log.Info("Auction bot is listening", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", logger.Error(err))
	}
}

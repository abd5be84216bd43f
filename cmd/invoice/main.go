package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rairai/go-order-fanout/internal/archive"
	"github.com/rairai/go-order-fanout/internal/config"
	"github.com/rairai/go-order-fanout/internal/httpx"
	"github.com/rairai/go-order-fanout/internal/invoicing"
	kafkax "github.com/rairai/go-order-fanout/internal/kafka"
	"github.com/rairai/go-order-fanout/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New("invoice-worker")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := invoicing.NewRegistry()

	// optional write-behind archive
	var arch invoicing.Archiver
	if dsn := os.Getenv("INVOICE_ARCHIVE_DSN"); dsn != "" {
		st, err := archive.Connect(ctx, dsn)
		if err != nil {
			log.Fatal("archive connect", zap.Error(err))
		}
		defer st.Close()
		arch = st
		log.Info("invoice archive enabled")
	}

	svc := &invoicing.Service{Registry: reg, Archive: arch, Log: log}

	group := getenv("INVOICE_GROUP", "invoice-svc")
	workers := mustAtoi(os.Getenv("INVOICE_WORKERS"), "3")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, cfg.OrdersTopic, workers, log)

	go func() {
		log.Info("invoice consumer started",
			zap.String("group", group), zap.String("topic", cfg.OrdersTopic), zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// diagnostics surface
	router := httpx.NewRouter()
	(&httpx.InvoiceHandler{Registry: reg}).Register(router)
	srv := &http.Server{Addr: getenv("INVOICE_HTTP_ADDR", ":8083"), Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down invoice worker")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	time.Sleep(500 * time.Millisecond) // let in-flight handlers drain
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rairai/go-order-fanout/internal/config"
	"github.com/rairai/go-order-fanout/internal/httpx"
	"github.com/rairai/go-order-fanout/internal/inventory"
	kafkax "github.com/rairai/go-order-fanout/internal/kafka"
	"github.com/rairai/go-order-fanout/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New("stock-worker")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := inventory.NewLedger(seedCatalog(os.Getenv("STOCK_SEED")))
	svc := &inventory.Service{Ledger: ledger, Log: log}

	group := getenv("STOCK_GROUP", "stock-svc")
	workers := mustAtoi(os.Getenv("STOCK_WORKERS"), "3")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, cfg.OrdersTopic, workers, log)

	go func() {
		log.Info("stock consumer started",
			zap.String("group", group), zap.String("topic", cfg.OrdersTopic), zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// diagnostics surface
	router := httpx.NewRouter()
	(&httpx.StockHandler{Ledger: ledger}).Register(router)
	srv := &http.Server{Addr: getenv("STOCK_HTTP_ADDR", ":8082"), Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down stock worker")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	time.Sleep(500 * time.Millisecond) // let in-flight handlers drain
}

// seedCatalog parses "p1:10,p2:5" into the initial stock; the default
// catalog applies when unset or unparseable.
func seedCatalog(s string) map[string]int {
	if s == "" {
		return inventory.DefaultCatalog()
	}
	seed := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			return inventory.DefaultCatalog()
		}
		qty, err := strconv.Atoi(kv[1])
		if err != nil {
			return inventory.DefaultCatalog()
		}
		seed[kv[0]] = qty
	}
	return seed
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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vanshh13/GreenCart-sub000/internal/config"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/notify"
	"github.com/vanshh13/GreenCart-sub000/internal/order"
	"github.com/vanshh13/GreenCart-sub000/internal/postgres"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.KafkaBrokers != "" {
		kn, err := notify.NewKafkaNotifier(strings.Split(cfg.KafkaBrokers, ","))
		if err != nil {
			log.Printf("kafka unavailable, using log notifier: %v", err)
		} else {
			defer kn.Close()
			notifier = kn
		}
	}

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, pool); err != nil {
			log.Printf("seed: %v", err)
		}
	}

	uow := postgres.NewUnitOfWork(pool, cfg.CheckoutTimeout)
	customers := customer.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	coordinator := order.NewCoordinator(uow, customers, notifier, cfg.CheckoutTimeout)
	machine := order.NewStatusMachine(uow, notifier)

	srv := &http.Server{
		Addr:    cfg.OrderSvcAddr,
		Handler: newRouter(coordinator, machine, orders),
	}
	go func() {
		log.Printf("order-service listening on %s", cfg.OrderSvcAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/codebookhq/codebook/config"
	"github.com/codebookhq/codebook/internal/adminapi"
	"github.com/codebookhq/codebook/internal/app"
	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/checkout"
	"github.com/codebookhq/codebook/internal/gate"
	"github.com/codebookhq/codebook/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "print help")
	x        = flag.Bool("x", false, "enable debug mode")
	conffile = flag.String("c", "/etc/codebook.yml", "config file path")
	initcfg  = flag.Bool("initcfg", false, "write default config file and exit")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *initcfg {
		if err := config.WriteConfig(config.DefaultAppConfig, *conffile); err != nil {
			fmt.Fprintln(os.Stderr, "write config:", err)
			os.Exit(1)
		}
		fmt.Println("config written to", *conffile)
		return
	}

	cfg := config.LoadConfig(*conffile)
	if *x {
		cfg.System.Debug = true
		cfg.Logger.Mode = "development"
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "init failed:", err)
		os.Exit(1)
	}
	defer application.Release()

	client := backend.NewClient(
		cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		application.SessionStore(),
	)
	adminGate := gate.New(application.SessionStore(), client)
	checkoutSvc := checkout.NewService(application.Carts(), client, application.Bus())
	if err := checkout.SubscribeNotifier(application.Bus(), cfg.Smtp); err != nil {
		zap.S().Warnf("order notifier subscription failed: %s", err)
	}

	server := webserver.Init(application, client, adminGate, checkoutSvc)
	adminapi.Init(application, client)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("storefront server failed: %s", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.S().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Echo().Shutdown(ctx)
}

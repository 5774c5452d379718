package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/components"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
)

func Run() error {
	bootCtx, bootCancel := context.WithCancel(context.Background())
	defer bootCancel()

	cfg, err := config.Load(bootCtx)
	if err != nil {
		components.SetupLogger("prod").Error("load config failed", "err", err)
		return err
	}

	logger := components.SetupLogger(cfg.Env)

	comps, err := components.InitComponents(bootCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := comps.HttpServer.Run(ctx); err != nil {
			logger.Error("http server failed", "err", err)
		}
		logger.Info("http server stopped")
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChan

	stop()
	logger.Info("captured signal, initiating shutdown", "signal", sig.String())

	wg.Wait()

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	logger.Info("gracefully shut down")

	return nil
}

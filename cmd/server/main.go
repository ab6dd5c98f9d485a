package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"convex2d/internal/api"
	"convex2d/internal/config"
	"convex2d/internal/query"
	"convex2d/internal/scene"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := api.NewLogger(os.Getenv("DEBUG") == "true")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	engine := query.New(cfg.Solver)
	sc := scene.New(engine, cfg.Server.TickRate)
	srv := api.NewServer(sc, cfg.Server, logger)

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.Int("tick_rate", cfg.Server.TickRate),
		zap.Int("solver_max_iterations", cfg.Solver.MaxIterations))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}
}

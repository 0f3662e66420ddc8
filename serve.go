package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/medicines-search/config"
	"github.com/giygas/medicines-search/data"
	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/handlers"
	"github.com/giygas/medicines-search/health"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/render"
	"github.com/giygas/medicines-search/scheduler"
	"github.com/giygas/medicines-search/search"
	"github.com/giygas/medicines-search/server"
	"github.com/giygas/medicines-search/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Serve loads the medicines table, schedules its reloads and serves the
search page, the JSON API, /health and /metrics until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.Close()

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	loader := dataset.NewFileLoader(cfg.DataFile, cfg.DataURL)

	engine := search.NewEngine(dataContainer, cfg.CacheTTL)

	// The first load is synchronous, the server never starts without data
	sched := scheduler.NewScheduler(dataContainer, loader, validator, cfg.ReloadAt)
	sched.OnUpdate(engine.Flush)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(
		dataContainer,
		validator,
		engine,
		render.NewHTMLRenderer(),
		health.NewHealthChecker(dataContainer, cfg.ReloadAt),
	)
	srv := server.NewServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

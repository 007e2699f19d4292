package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/Joseda-hg/devtasks/internal/config"
	"github.com/Joseda-hg/devtasks/internal/db"
	"github.com/Joseda-hg/devtasks/internal/metrics"
	"github.com/Joseda-hg/devtasks/internal/tui"
	"github.com/Joseda-hg/devtasks/internal/web"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	envFileFlag := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	portFlag := flag.Int("port", 0, "http server port")
	tuiFlag := flag.Bool("tui", false, "run the terminal console alongside the http server")
	flag.Parse()

	if err := config.LoadDotEnv(*envFileFlag); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err = config.ApplyEnv(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}
	if *dbPathFlag != "" {
		cfg.DBPath = *dbPathFlag
	}
	if *portFlag != 0 {
		cfg.Port = *portFlag
	}

	logOutput, closeLog, err := logWriter(cfg, *tuiFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()
	logger := cfg.NewLogger(logOutput)
	slog.SetDefault(logger)

	store, err := openStore(cfg.DBPath)
	if err != nil {
		var schemaErr *db.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("database schema could not be initialized", "path", cfg.DBPath, "error", err)
		} else {
			logger.Error("open database", "path", cfg.DBPath, "error", err)
		}
		os.Exit(1)
	}
	logger.Info("connected to sqlite database", "path", cfg.DBPath)

	server := web.NewServer(store, web.WithLogger(logger), web.WithMetrics(metrics.New()))
	httpServer := server.NewHTTPServer(cfg.Addr())

	go func() {
		logger.Info("http server listening",
			"addr", cfg.Addr(),
			"metrics", fmt.Sprintf("http://localhost:%d/metrics", cfg.Port),
			"health", fmt.Sprintf("http://localhost:%d/health", cfg.Port),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	shutdown := func(ctx context.Context) error {
		logger.Info("shutting down http server")
		httpErr := httpServer.Shutdown(ctx)
		logger.Info("closing database")
		return errors.Join(httpErr, store.Close())
	}

	if *tuiFlag {
		runErr := tui.Run(store)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := errors.Join(runErr, shutdown(ctx)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"devtasks": shutdown,
		},
	)
	exitCode := <-wait
	logger.Info("exited", "code", exitCode)
	closeLog()
	os.Exit(exitCode)
}

func openStore(dbPath string) (*db.Store, error) {
	if dbPath != ":memory:" {
		if err := config.EnsureDir(dbPath); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return db.NewStore(sqlDB), nil
}

// logWriter keeps log lines off the terminal while the console owns it.
func logWriter(cfg config.Config, console bool) (io.Writer, func(), error) {
	if !console {
		return os.Stderr, func() {}, nil
	}
	path := filepath.Join(filepath.Dir(cfg.DBPath), "devtasks.log")
	if err := config.EnsureDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

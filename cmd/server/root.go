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

	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/domain/auth"
	v1 "folio/internal/infrastructure/http/v1"
	"folio/internal/infrastructure/cache"
	"folio/internal/infrastructure/storage/postgres"
	"folio/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var configPath string

// rootCmd starts the API server.
var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Portfolio content API",
	Long:          `folio serves the portfolio content resources, the cached homepage aggregate and the editor API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(seedCmd, hashPasswordCmd, versionCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	log.Infow("starting folio", "version", version, "env", cfg.App.Env)

	// --- Storage ---
	var pool *postgres.Pool
	if cfg.Database.URL != "" {
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		if cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Database.MaxConns
		}
		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		pool.LogStats(ctx)
	} else {
		log.Warn("database.url is empty, content is kept in memory and lost on exit")
	}

	// --- Auth ---
	routerCfg := v1.RouterConfig{
		Pool:        pool,
		Logger:      log,
		Cache:       cache.NewMemory(),
		HomepageTTL: cfg.Cache.HomepageTTL,
		CacheMaxAge: cfg.Cache.MaxAge,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		DevMode:     cfg.App.IsDevelopment(),
		Version:     version,
	}
	if cfg.Auth.AdminEmail != "" {
		jwtConfig := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
		if cfg.Auth.TokenTTL > 0 {
			jwtConfig.AccessTokenTTL = cfg.Auth.TokenTTL
		}
		jwtService := auth.NewJWTService(jwtConfig)

		routerCfg.TokenValidator = jwtService
		routerCfg.AuthService = auth.NewService(auth.Admin{
			Email:        cfg.Auth.AdminEmail,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		}, jwtService, auth.DefaultServiceConfig())
	} else {
		log.Warn("auth.admin_email is empty, admin API is disabled")
	}

	// --- HTTP Server ---
	router := v1.NewRouter(routerCfg)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful shutdown ---
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/api"
	"github.com/samistat08/ro-process-dashboard/internal/logger"
	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/repositories/postgres"
	"github.com/samistat08/ro-process-dashboard/internal/service"
	"github.com/samistat08/ro-process-dashboard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard data API over HTTP",
	Long: `serve loads telemetry readings from a CSV file or Postgres into the
in-memory store and exposes sites, readings, KPIs, statistics, correlation,
maintenance forecasts and CSV export over a REST API.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initialising logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()

		if err := runServe(cfg, log); err != nil {
			log.Fatal("serve failed", zap.Error(err))
		}
	},
}

func init() {
	serveCmd.Flags().String("http-addr", ":8080", "Listen address for the HTTP API")
	serveCmd.Flags().String("data-file", "", "CSV file of readings to load at startup")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the snapshot cache (empty disables caching)")
	viper.BindPFlags(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *models.Config, log *zap.Logger) error {
	ctx := context.Background()

	st := store.NewReadingStore()
	if err := loadReadings(ctx, cfg, st, log); err != nil {
		return err
	}
	log.Info("store loaded", zap.Int("readings", st.Len()))

	var cacheClient *redis.Client
	if cfg.RedisAddr != "" {
		cacheClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cacheClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, caching disabled", zap.Error(err))
			cacheClient = nil
		}
	}

	svc := service.NewDataService(st, cacheClient, cfg.CacheTTL, log)
	server := api.NewServer(cfg.HTTPAddr, svc, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadReadings hydrates the store from Postgres when enabled, otherwise from
// the configured CSV file. Starting with an empty store is allowed.
func loadReadings(ctx context.Context, cfg *models.Config, st *store.ReadingStore, log *zap.Logger) error {
	if cfg.PostgresEnabled {
		pool, err := pgxpool.New(ctx, cfg.Database.ConnString())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()

		repo := postgres.NewReadingRepository(pool)
		readings, err := repo.GetByFilter(ctx, nil, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("loading readings from postgres: %w", err)
		}
		st.AddBatch(readings)
		return nil
	}

	if cfg.DataFile == "" {
		log.Warn("no data source configured, starting with an empty store")
		return nil
	}
	if err := st.LoadCSV(cfg.DataFile); err != nil {
		return fmt.Errorf("loading readings from %s: %w", cfg.DataFile, err)
	}
	return nil
}

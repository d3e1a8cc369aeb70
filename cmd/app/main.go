package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lehakot-create/LCT2023-13Case-Dash/config"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/bootstrap"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/cache"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/kafka"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/repository"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/dashboard"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/dataset"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/reference"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateSource(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s source: %v", cfg.Source.Kind, err)
	}
	defer closeSource()

	ref, err := reference.NewLoader(repo, cfg.Source.QueryTimeout()).Load(ctx)
	if err != nil {
		var srcErr *domain.DataSourceError
		if errors.As(err, &srcErr) {
			log.Fatalf("reference data unavailable (%s): %v", srcErr.Op, srcErr.Err)
		}
		log.Fatalf("load reference data: %v", err)
	}

	loc, err := cfg.Dataset.Location()
	if err != nil {
		log.Fatalf("dataset timezone: %v", err)
	}
	data, stats := dataset.Build(ref.Locations, ref.Facts, loc)
	log.Printf("dataset built: %d of %d flights kept, excluded %v", stats.Kept, stats.Facts, stats.Excluded)

	opts := []dashboard.DashboardServiceOption{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		opts = append(opts, dashboard.WithCache(redisCache))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			log.Printf("WARNING: kafka unavailable, apply events may be lost: %v", err)
		}
		cancel()
		opts = append(opts, dashboard.WithEvents(producer, cfg.Kafka.ApplyTopic))
	}

	defaults := dashboard.Selection{
		DepartureCities: cfg.Dashboard.DefaultDepartureCities,
		ArrivalCities:   cfg.Dashboard.DefaultArrivalCities,
		StartDate:       cfg.Dashboard.DefaultStartDate,
		EndDate:         cfg.Dashboard.DefaultEndDate,
	}
	dashboardService := dashboard.NewDashboardService(data, uuid.NewString(), defaults, opts...)

	if err := bootstrap.Run(ctx, cfg, dashboardService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openSource connects to the configured store. The returned func releases the connection.
func openSource(ctx context.Context, cfg *config.Config) (repository.ReferenceRepository, func(), error) {
	locale := cfg.Dataset.Locale
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPGReferenceRepository(pool, locale), pool.Close, nil
	case config.SourceClickHouse:
		conn, err := repository.OpenClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewCHReferenceRepository(conn, locale), func() { conn.Close() }, nil
	case config.SourceSQLite:
		db, err := repository.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteReferenceRepository(db, locale), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Source.Kind)
	}
}

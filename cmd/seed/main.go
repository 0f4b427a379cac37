package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/myggens/vagtplan/backend/internal/config"
	"github.com/myggens/vagtplan/backend/internal/repository"
	"github.com/myggens/vagtplan/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var personCount int
	var shiftCount int

	flag.IntVar(&personCount, "persons", 0, "number of persons to seed (0 uses the configured default)")
	flag.IntVar(&shiftCount, "shifts", 0, "number of shifts to seed (0 uses the configured default)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if personCount > 0 {
		cfg.Seed.PersonCount = personCount
	}
	if shiftCount > 0 {
		cfg.Seed.ShiftCount = shiftCount
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("could not create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("could not connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.EnsureSchema(); err != nil {
		logger.Error("could not ensure the database schema", "error", err)
		return
	}

	if err := seed.Seed(cfg, repo); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seeding done")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"invtrack/internal/config"
	"invtrack/internal/db"
	"invtrack/internal/logger"
	"invtrack/internal/repository"
	"invtrack/internal/seed"
)

func main() {
	listUsers := flag.Bool("list-users", false, "print the registered users and exit")
	reset := flag.Bool("reset", false, "drop and recreate all tables before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	log.Info("starting seed script")

	gormDB, err := db.Open(cfg.Database, log.Named("gorm"), cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("connected to database", zap.String("driver", cfg.Database.Driver))

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, *reset || cfg.ResetDB, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	store := repository.NewStore(gormDB)
	ctx := context.Background()

	if *listUsers {
		users, err := store.Users().List(ctx)
		if err != nil {
			log.Fatal("failed to list users", zap.Error(err))
		}
		fmt.Printf("Found %d users:\n", len(users))
		for _, u := range users {
			fmt.Printf("ID: %s, Username: %s, Email: %s, Role: %s\n", u.ID, u.Username, u.Email, u.Role)
		}
		return
	}

	res, err := seed.Run(ctx, store, seed.Options{
		AdminPassword: cfg.Seed.AdminPassword,
		AdminEmail:    cfg.Seed.AdminEmail,
	}, log)
	if err != nil {
		log.Fatal("failed to seed", zap.Error(err))
	}

	log.Info("seed completed successfully",
		zap.Int("created", res.Created),
		zap.Int("existing", res.Existing),
	)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cownect/cownect-backend/internal/data/db"
	"github.com/cownect/cownect-backend/internal/data/repos"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/platform/envutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "cmd/seed_clubs/clubs.example.yaml", "club directory YAML")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	flag.Parse()

	_ = godotenv.Load()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("read %s: %v\n", path, err)
		os.Exit(1)
	}
	cat, err := catalog.Load()
	if err != nil {
		fmt.Printf("load catalog: %v\n", err)
		os.Exit(1)
	}
	clubs, err := parseClubs(data, cat)
	if err != nil {
		fmt.Printf("parse %s: %v\n", path, err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("%d clubs valid\n", len(clubs))
		return
	}

	pg, err := db.NewPostgresService(log, db.PostgresConfigFromEnv())
	if err != nil {
		fmt.Printf("init postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		fmt.Printf("automigrate: %v\n", err)
		os.Exit(1)
	}

	saved, err := repos.NewClubRepo(pg.DB(), log).Upsert(context.Background(), nil, clubs)
	if err != nil {
		fmt.Printf("upsert clubs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d clubs\n", len(saved))
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samirrijal/heritagepass/internal/adapters/postgres"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|load-reference>")
	}

	cfg, err := config.Load("heritagepass-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db, false)
	case "down":
		runMigrations(ctx, db, true)
	case "load-reference":
		// Copies the configured geography tables into Postgres.
		svc := usecases.NewReferenceService(postgres.NewReferenceRepo(db), cfg.Geography.ReferenceData())
		if err := svc.Seed(ctx); err != nil {
			log.Fatalf("%v", err)
		}
		log.Println("reference tables loaded")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// runMigrations applies migrations/NNN_*.sql in order, or the matching
// *.down.sql files in reverse order.
func runMigrations(ctx context.Context, db *postgres.DB, down bool) {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}

	var selected []string
	for _, f := range files {
		if strings.HasSuffix(f, ".down.sql") == down {
			selected = append(selected, f)
		}
	}
	slices.Sort(selected)
	if down {
		slices.Reverse(selected)
	}
	if len(selected) == 0 {
		log.Fatal("no migrations found in ./migrations")
	}

	for _, f := range selected {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

//go:build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	handler "github.com/samirrijal/heritagepass/internal/adapters/http"
	"github.com/samirrijal/heritagepass/internal/adapters/postgres"
	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/geo"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/pkg/config"
)

// setupTestDB connects to the database from the environment and applies
// the reference table migration.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("heritagepass-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_reference_tables.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, string(migration)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return db
}

func TestReferenceRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := postgres.NewReferenceRepo(db)
	refSvc := usecases.NewReferenceService(repo, geo.GuwahatiReference())
	if err := refSvc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ref, err := refSvc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := geo.GuwahatiReference()
	if len(ref.Landmarks) != len(want.Landmarks) {
		t.Fatalf("expected %d landmarks, got %d", len(want.Landmarks), len(ref.Landmarks))
	}
	for i := range want.Landmarks {
		if ref.Landmarks[i].ID != want.Landmarks[i].ID {
			t.Errorf("landmark %d: expected %s, got %s", i, want.Landmarks[i].ID, ref.Landmarks[i].ID)
		}
	}

	loc := geo.NewLocator(geo.GuwahatiArea(), ref)
	deps := &handler.Dependencies{
		Validation: usecases.NewValidationService(newValidator(), nil, "integration"),
		Geo:        usecases.NewGeoService(loc, nil, 60),
		DB:         db,
	}
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/reference/landmarks?limit=3", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Data       []domain.Landmark `json:"data"`
		Pagination struct{ Total int }
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Data) != 3 || result.Pagination.Total != len(want.Landmarks) {
		t.Errorf("unexpected page: %d items of %d", len(result.Data), result.Pagination.Total)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected ready with a live database, got %d", resp.StatusCode)
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

// ReferenceRepo implements ports.ReferenceRepository with pgx.
type ReferenceRepo struct {
	db *DB
}

// NewReferenceRepo creates a new ReferenceRepo.
func NewReferenceRepo(db *DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

// Load reads all four tables in their stored order.
func (r *ReferenceRepo) Load(ctx context.Context) (domain.ReferenceData, error) {
	var ref domain.ReferenceData

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, lat, lng FROM landmarks ORDER BY position, id
	`)
	if err != nil {
		return ref, fmt.Errorf("query landmarks: %w", err)
	}
	ref.Landmarks, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Landmark, error) {
		var l domain.Landmark
		err := row.Scan(&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lng)
		return l, err
	})
	if err != nil {
		return ref, fmt.Errorf("scan landmarks: %w", err)
	}

	rows, err = r.db.Pool.Query(ctx, `
		SELECT id, name, lat, lng, address, type, COALESCE(landmark_id, '')
		FROM meeting_points ORDER BY position, id
	`)
	if err != nil {
		return ref, fmt.Errorf("query meeting points: %w", err)
	}
	ref.MeetingPoints, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MeetingPoint, error) {
		var m domain.MeetingPoint
		err := row.Scan(&m.ID, &m.Name, &m.Location.Lat, &m.Location.Lng, &m.Address, &m.Type, &m.LandmarkID)
		return m, err
	})
	if err != nil {
		return ref, fmt.Errorf("scan meeting points: %w", err)
	}

	if ref.PoliceStations, err = r.places(ctx, "police_stations"); err != nil {
		return ref, err
	}
	if ref.TouristAreas, err = r.places(ctx, "tourist_areas"); err != nil {
		return ref, err
	}
	return ref, nil
}

func (r *ReferenceRepo) places(ctx context.Context, table string) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name, lat, lng FROM `+table+` ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	places, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Place, error) {
		var p domain.Place
		err := row.Scan(&p.Name, &p.Location.Lat, &p.Location.Lng)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return places, nil
}

// Save upserts every row of ref in one transaction, recording each row's
// position in its table.
func (r *ReferenceRepo) Save(ctx context.Context, ref domain.ReferenceData) error {
	batch := &pgx.Batch{}
	for i, l := range ref.Landmarks {
		batch.Queue(`
			INSERT INTO landmarks (id, name, lat, lng, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lng = EXCLUDED.lng, position = EXCLUDED.position
		`, l.ID, l.Name, l.Location.Lat, l.Location.Lng, i)
	}
	for i, m := range ref.MeetingPoints {
		var landmarkID *string
		if m.LandmarkID != "" {
			landmarkID = &m.LandmarkID
		}
		batch.Queue(`
			INSERT INTO meeting_points (id, name, lat, lng, address, type, landmark_id, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lng = EXCLUDED.lng,
			    address = EXCLUDED.address, type = EXCLUDED.type,
			    landmark_id = EXCLUDED.landmark_id, position = EXCLUDED.position
		`, m.ID, m.Name, m.Location.Lat, m.Location.Lng, m.Address, m.Type, landmarkID, i)
	}
	for i, p := range ref.PoliceStations {
		batch.Queue(placeUpsert("police_stations"), p.Name, p.Location.Lat, p.Location.Lng, i)
	}
	for i, p := range ref.TouristAreas {
		batch.Queue(placeUpsert("tourist_areas"), p.Name, p.Location.Lat, p.Location.Lng, i)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("batch exec: %w", err)
	}
	return tx.Commit(ctx)
}

func placeUpsert(table string) string {
	return `
		INSERT INTO ` + table + ` (name, lat, lng, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, position = EXCLUDED.position`
}

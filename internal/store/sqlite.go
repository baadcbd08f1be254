package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/plant-locator/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id               TEXT PRIMARY KEY,
	industry         TEXT NOT NULL,
	scale            TEXT NOT NULL,
	preferred_region TEXT NOT NULL DEFAULT '',
	report           TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS suppliers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	material   TEXT NOT NULL,
	process    TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	city       TEXT NOT NULL DEFAULT '',
	region     TEXT NOT NULL,
	latitude   REAL NOT NULL DEFAULT 0,
	longitude  REAL NOT NULL DEFAULT 0,
	contact    TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (name, material, region)
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_suppliers_region ON suppliers(region);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a model.Analysis) (*model.Analysis, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(a.Report)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, industry, scale, preferred_region, report, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Industry, a.Scale, a.PreferredRegion, string(reportJSON), a.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert analysis")
	}
	return &a, nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, industry, scale, preferred_region, report, created_at FROM analyses WHERE id = ?`,
		id,
	)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get analysis %s", id)
	}
	return a, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, industry, scale, preferred_region, report, created_at FROM analyses
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		listLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) UpsertSuppliers(ctx context.Context, suppliers []model.Supplier) (int, error) {
	suppliers = dedupeSuppliers(suppliers)
	if len(suppliers) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin supplier upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO suppliers (id, name, material, process, address, city, region, latitude, longitude, contact, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, material, region) DO UPDATE SET
			process = excluded.process,
			address = excluded.address,
			city = excluded.city,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			contact = excluded.contact,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare supplier upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, sup := range suppliers {
		if sup.ID == "" {
			sup.ID = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx,
			sup.ID, sup.Name, sup.Material, sup.Process, sup.Address, sup.City,
			sup.Region, sup.Latitude, sup.Longitude, sup.Contact, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert supplier %s", sup.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit supplier upsert")
	}
	return len(suppliers), nil
}

func (s *SQLiteStore) SuppliersByRegion(ctx context.Context, region string, materials []string) ([]model.Supplier, error) {
	query := `SELECT id, name, material, process, address, city, region, latitude, longitude, contact, updated_at
		FROM suppliers WHERE region = ?`
	args := []any{region}

	if patterns := materialPatterns(materials); len(patterns) > 0 {
		clauses := make([]string, len(patterns))
		for i, p := range patterns {
			clauses[i] = `lower(material) LIKE ?`
			args = append(args, p)
		}
		query += ` AND (` + strings.Join(clauses, ` OR `) + `)`
	}
	query += ` ORDER BY material, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: suppliers for %s", region)
	}
	defer rows.Close()

	var out []model.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan supplier")
		}
		out = append(out, *sup)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: suppliers iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scannable) (*model.Analysis, error) {
	var a model.Analysis
	var reportJSON string
	if err := row.Scan(&a.ID, &a.Industry, &a.Scale, &a.PreferredRegion, &reportJSON, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(reportJSON), &a.Report); err != nil {
		return nil, eris.Wrap(err, "unmarshal report")
	}
	return &a, nil
}

func scanSupplier(row scannable) (*model.Supplier, error) {
	var sup model.Supplier
	err := row.Scan(&sup.ID, &sup.Name, &sup.Material, &sup.Process, &sup.Address, &sup.City,
		&sup.Region, &sup.Latitude, &sup.Longitude, &sup.Contact, &sup.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

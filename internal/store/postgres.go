package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plant-locator/internal/db"
	"github.com/sells-group/plant-locator/internal/model"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLockID keys the advisory lock held while migrations run.
const migrationLockID = 7405112

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"get_analysis":        `SELECT id, industry, scale, preferred_region, report, created_at FROM analyses WHERE id = $1`,
	"list_analyses":       `SELECT id, industry, scale, preferred_region, report, created_at FROM analyses ORDER BY created_at DESC, id LIMIT $1`,
	"suppliers_by_region": `SELECT id, name, material, process, address, city, region, latitude, longitude, contact, updated_at FROM suppliers WHERE region = $1 ORDER BY material, name`,
}

var supplierColumns = []string{
	"id", "name", "material", "process", "address", "city", "region",
	"latitude", "longitude", "location", "contact", "updated_at",
}

var resultColumns = []string{
	"analysis_id", "rank", "region", "overall_score", "electricity_tariff",
	"fixed_charge", "eodb_score", "labor_score", "infrastructure_score",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded SQL migrations not yet recorded in
// schema_migrations, in file-name order, under an advisory lock.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	log := zap.L().With(zap.String("component", "store.migrate"))

	if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return eris.Wrap(err, "postgres: acquire migration lock")
	}
	defer func() {
		if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			log.Warn("postgres: release migration lock", zap.Error(err))
		}
	}()

	if _, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return eris.Wrap(err, "postgres: ensure migration table")
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return eris.Wrap(err, "postgres: read migration dir")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if applied[name] {
			continue
		}
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return eris.Wrapf(err, "postgres: read migration %s", name)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return eris.Wrapf(err, "postgres: apply migration %s", name)
		}
		if _, err := s.pool.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
			return eris.Wrapf(err, "postgres: record migration %s", name)
		}
		log.Info("migration applied", zap.String("file", name))
	}
	return nil
}

func (s *PostgresStore) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan migration row")
		}
		applied[name] = true
	}
	return applied, eris.Wrap(rows.Err(), "postgres: iterate migrations")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveAnalysis stores the report and copies one analysis_results row per
// recommendation in the same transaction.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, a model.Analysis) (*model.Analysis, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(a.Report)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal report")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin save analysis")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`INSERT INTO analyses (id, industry, scale, preferred_region, report, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Industry, a.Scale, a.PreferredRegion, reportJSON, a.CreatedAt,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: insert analysis")
	}

	rows := make([][]any, len(a.Report.Recommendations))
	for i, r := range a.Report.Recommendations {
		rows[i] = []any{
			a.ID, i + 1, r.Region, r.OverallScore, r.ElectricityTariff,
			r.FixedCharge, r.EODBScore, r.LaborScore, r.InfrastructureScore,
		}
	}
	if _, err := db.CopyFrom(ctx, tx, "analysis_results", resultColumns, rows); err != nil {
		return nil, eris.Wrap(err, "postgres: copy analysis results")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit save analysis")
	}
	return &a, nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, industry, scale, preferred_region, report, created_at FROM analyses WHERE id = $1`,
		id,
	)
	a, err := scanPgAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get analysis %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get analysis %s", id)
	}
	return a, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, industry, scale, preferred_region, report, created_at FROM analyses ORDER BY created_at DESC, id LIMIT $1`,
		listLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		a, err := scanPgAnalysis(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

// UpsertSuppliers bulk-loads suppliers through a temp table keyed on
// (name, material, region). Coordinates are also stored as an EWKB point.
func (s *PostgresStore) UpsertSuppliers(ctx context.Context, suppliers []model.Supplier) (int, error) {
	suppliers = dedupeSuppliers(suppliers)
	if len(suppliers) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(suppliers))
	for i, sup := range suppliers {
		if sup.ID == "" {
			sup.ID = uuid.New().String()
		}
		loc, err := pointEWKB(sup.Latitude, sup.Longitude)
		if err != nil {
			return 0, err
		}
		rows[i] = []any{
			sup.ID, sup.Name, sup.Material, sup.Process, sup.Address, sup.City, sup.Region,
			sup.Latitude, sup.Longitude, loc, sup.Contact, now,
		}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "suppliers",
		Columns:      supplierColumns,
		ConflictKeys: []string{"name", "material", "region"},
		UpdateCols:   []string{"process", "address", "city", "latitude", "longitude", "location", "contact", "updated_at"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert suppliers")
	}
	return int(n), nil
}

func (s *PostgresStore) SuppliersByRegion(ctx context.Context, region string, materials []string) ([]model.Supplier, error) {
	query := `SELECT id, name, material, process, address, city, region, latitude, longitude, contact, updated_at
		FROM suppliers WHERE region = $1`
	args := []any{region}
	if patterns := materialPatterns(materials); len(patterns) > 0 {
		query += ` AND lower(material) LIKE ANY($2)`
		args = append(args, patterns)
	}
	query += ` ORDER BY material, name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: suppliers for %s", region)
	}
	defer rows.Close()

	var out []model.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan supplier")
		}
		out = append(out, *sup)
	}
	return out, eris.Wrap(rows.Err(), "postgres: suppliers iterate")
}

func scanPgAnalysis(row scannable) (*model.Analysis, error) {
	var a model.Analysis
	var reportJSON []byte
	if err := row.Scan(&a.ID, &a.Industry, &a.Scale, &a.PreferredRegion, &reportJSON, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &a.Report); err != nil {
		return nil, eris.Wrap(err, "unmarshal report")
	}
	return &a, nil
}

package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig defines the parameters for a bulk upsert operation.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified
	Columns      []string // all columns being inserted
	ConflictKeys []string // columns forming the unique constraint
	UpdateCols   []string // columns to update on conflict; nil = all non-conflict columns
}

// upsertPlan holds the statements of one bulk upsert.
type upsertPlan struct {
	target    string
	tempName  string
	columns   []string
	keyIdx    []int
	updateSet []string
	conflict  string
}

func newUpsertPlan(cfg UpsertConfig) (*upsertPlan, error) {
	if len(cfg.Columns) == 0 {
		return nil, eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return nil, eris.New("db: upsert: no conflict keys specified")
	}

	p := &upsertPlan{
		target:   sanitizeTable(cfg.Table),
		tempName: "_tmp_upsert_" + strings.ReplaceAll(cfg.Table, ".", "_"),
		columns:  cfg.Columns,
		conflict: quoteAndJoin(cfg.ConflictKeys),
	}
	for _, k := range cfg.ConflictKeys {
		i := slices.Index(cfg.Columns, k)
		if i < 0 {
			return nil, eris.Errorf("db: upsert: conflict key %q is not an inserted column", k)
		}
		p.keyIdx = append(p.keyIdx, i)
	}

	update := cfg.UpdateCols
	if update == nil {
		for _, c := range cfg.Columns {
			if !slices.Contains(cfg.ConflictKeys, c) {
				update = append(update, c)
			}
		}
	}
	for _, c := range update {
		col := pgx.Identifier{c}.Sanitize()
		p.updateSet = append(p.updateSet, col+" = EXCLUDED."+col)
	}
	return p, nil
}

func (p *upsertPlan) createSQL() string {
	return fmt.Sprintf("CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{p.tempName}.Sanitize(), p.target)
}

func (p *upsertPlan) insertSQL() string {
	cols := quoteAndJoin(p.columns)
	action := "DO NOTHING"
	if len(p.updateSet) > 0 {
		action = "DO UPDATE SET " + strings.Join(p.updateSet, ", ")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) %s",
		p.target, cols, cols, pgx.Identifier{p.tempName}.Sanitize(), p.conflict, action)
}

// collapse keeps the last row for each conflict key. A single INSERT ... ON
// CONFLICT DO UPDATE cannot touch the same target row twice.
func (p *upsertPlan) collapse(rows [][]any) [][]any {
	last := make(map[string]int, len(rows))
	keys := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for _, idx := range p.keyIdx {
			fmt.Fprintf(&b, "%v\x00", row[idx])
		}
		keys[i] = b.String()
		last[keys[i]] = i
	}
	if len(last) == len(rows) {
		return rows
	}
	out := make([][]any, 0, len(last))
	for i, row := range rows {
		if last[keys[i]] == i {
			out = append(out, row)
		}
	}
	return out
}

// BulkUpsert loads rows into an ON COMMIT DROP temp table with COPY, then
// merges them into the target with INSERT ... ON CONFLICT, all in one
// transaction. Rows sharing conflict-key values are collapsed to the last one.
// It returns the number of target rows inserted or updated.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	plan, err := newUpsertPlan(cfg)
	if err != nil {
		return 0, err
	}
	rows = plan.collapse(rows)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, plan.createSQL()); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create temp table for %s", cfg.Table)
	}
	if _, err := CopyFrom(ctx, tx, plan.tempName, cfg.Columns, rows); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: stage rows for %s", cfg.Table)
	}

	tag, err := tx.Exec(ctx, plan.insertSQL())
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: INSERT ON CONFLICT for %s", cfg.Table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

// sanitizeTable quotes a table name, splitting an optional schema prefix.
func sanitizeTable(table string) string {
	schema, name, ok := strings.Cut(table, ".")
	if ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

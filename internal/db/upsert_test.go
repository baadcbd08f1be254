package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplierUpsert() UpsertConfig {
	return UpsertConfig{
		Table:        "suppliers",
		Columns:      []string{"id", "name", "material", "region"},
		ConflictKeys: []string{"name", "material", "region"},
	}
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, supplierUpsert(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "suppliers",
		ConflictKeys: []string{"id"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "suppliers",
		Columns: []string{"id", "name"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	cfg := supplierUpsert()
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_suppliers" \(LIKE "suppliers" INCLUDING DEFAULTS\) ON COMMIT DROP`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_suppliers"}, cfg.Columns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "suppliers" .* ON CONFLICT \("name", "material", "region"\) DO UPDATE SET "id" = EXCLUDED."id"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	rows := [][]any{
		{"1", "Surat Yarns", "polyester", "Gujarat"},
		{"2", "Tiruppur Knits", "cotton", "Tamil Nadu"},
	}
	n, err := BulkUpsert(context.Background(), mock, cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBulkUpsert_InsertFails(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	cfg := supplierUpsert()
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_suppliers"}, cfg.Columns).WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "suppliers"`).WillReturnError(fmt.Errorf("constraint violation"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, cfg, [][]any{{"1", "a", "b", "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSERT ON CONFLICT for suppliers")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"suppliers", `"suppliers"`},
		{"public.suppliers", `"public"."suppliers"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeTable(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"id", "name", "region"})
	assert.Equal(t, `"id", "name", "region"`, result)
}

func TestBulkUpsert_ConflictKeyNotInserted(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "suppliers",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"region"},
	}, [][]any{{"1", "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `conflict key "region" is not an inserted column`)
}

func TestUpsertPlan_Collapse(t *testing.T) {
	plan, err := newUpsertPlan(supplierUpsert())
	require.NoError(t, err)

	rows := [][]any{
		{"1", "Surat Yarns", "polyester", "Gujarat"},
		{"2", "Tiruppur Knits", "cotton", "Tamil Nadu"},
		{"3", "Surat Yarns", "polyester", "Gujarat"},
	}
	got := plan.collapse(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0][0])
	assert.Equal(t, "3", got[1][0])

	unique := rows[:2]
	assert.Equal(t, unique, plan.collapse(unique))
}

func TestUpsertPlan_SQL(t *testing.T) {
	plan, err := newUpsertPlan(UpsertConfig{
		Table:        "public.suppliers",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"name"},
		UpdateCols:   []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TEMP TABLE "_tmp_upsert_public_suppliers" (LIKE "public"."suppliers" INCLUDING DEFAULTS) ON COMMIT DROP`, plan.createSQL())
	assert.Equal(t, `INSERT INTO "public"."suppliers" ("id", "name") SELECT "id", "name" FROM "_tmp_upsert_public_suppliers" ON CONFLICT ("name") DO NOTHING`, plan.insertSQL())
}

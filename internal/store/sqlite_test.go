package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

func TestNewSQLite_BadPath(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite:")
}

func TestSQLite_ClosedStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.ListAnalyses(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: list analyses")
}

func TestPointEWKB(t *testing.T) {
	data, err := pointEWKB(21.17, 72.83)
	require.NoError(t, err)

	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	p, ok := g.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, 4326, p.SRID())
	assert.InDelta(t, 72.83, p.X(), 1e-12)
	assert.InDelta(t, 21.17, p.Y(), 1e-12)

	none, err := pointEWKB(0, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

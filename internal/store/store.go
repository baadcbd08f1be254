package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plant-locator/internal/model"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// DefaultListLimit caps ListAnalyses when no positive limit is given.
const DefaultListLimit = 20

// Store persists analyses and the local supplier directory.
type Store interface {
	// Analyses
	SaveAnalysis(ctx context.Context, a model.Analysis) (*model.Analysis, error)
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]model.Analysis, error)

	// Supplier directory
	UpsertSuppliers(ctx context.Context, suppliers []model.Supplier) (int, error)
	SuppliersByRegion(ctx context.Context, region string, materials []string) ([]model.Supplier, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// supplierKey identifies a directory entry; re-importing the same supplier
// updates it in place.
func supplierKey(s model.Supplier) string {
	return s.Name + "\x00" + s.Material + "\x00" + s.Region
}

// dedupeSuppliers drops earlier duplicates of the same key, keeping the last
// occurrence in its original position.
func dedupeSuppliers(in []model.Supplier) []model.Supplier {
	last := make(map[string]int, len(in))
	for i, s := range in {
		last[supplierKey(s)] = i
	}
	out := make([]model.Supplier, 0, len(last))
	for i, s := range in {
		if last[supplierKey(s)] == i {
			out = append(out, s)
		}
	}
	return out
}

// materialPatterns lower-cases and wraps each non-blank material for a
// substring LIKE match.
func materialPatterns(materials []string) []string {
	var out []string
	for _, m := range materials {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		out = append(out, "%"+m+"%")
	}
	return out
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

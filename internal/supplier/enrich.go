// Package supplier attaches raw-material suppliers to recommended regions.
// Lookups run in a bounded pool; a region whose lookup fails or times out is
// left out of the result.
package supplier

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/plant-locator/internal/config"
	"github.com/sells-group/plant-locator/internal/metrics"
	"github.com/sells-group/plant-locator/internal/model"
)

const (
	defaultWorkers = 4
	defaultTimeout = 5 * time.Second
)

// Lookup finds suppliers of the given materials in a region. An empty
// materials list matches every supplier.
type Lookup interface {
	SuppliersByRegion(ctx context.Context, region string, materials []string) ([]model.Supplier, error)
}

// Enricher fans supplier lookups out over a bounded worker pool.
type Enricher struct {
	lookup    Lookup
	workers   int
	timeout   time.Duration
	limiter   *rate.Limiter
	materials []string
	metrics   *metrics.Registry
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithMaterials restricts lookups to the given materials.
func WithMaterials(materials []string) Option {
	return func(e *Enricher) { e.materials = materials }
}

// WithMetrics counts lookup outcomes in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Enricher) { e.metrics = r }
}

// NewEnricher creates an Enricher. Non-positive workers or timeout fall back
// to 4 workers and 5 seconds; a non-positive rate limit disables limiting.
func NewEnricher(lookup Lookup, cfg config.EnrichConfig, opts ...Option) *Enricher {
	e := &Enricher{
		lookup:  lookup,
		workers: cfg.Workers,
		timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}
	if e.workers <= 0 {
		e.workers = defaultWorkers
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}
	if cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich looks up suppliers for each distinct region. The result holds an
// entry for every region whose lookup succeeded; failures are logged and
// omitted, never returned.
func (e *Enricher) Enrich(ctx context.Context, regions []string) map[string][]model.Supplier {
	log := zap.L().With(zap.String("component", "supplier.enrich"))

	var (
		mu  sync.Mutex
		out = make(map[string][]model.Supplier, len(regions))
	)

	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, region := range distinct(regions) {
		g.Go(func() error {
			if ctx.Err() != nil {
				e.record("error", 0)
				return nil
			}

			itemCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			start := time.Now()
			suppliers, err := e.lookupOne(itemCtx, region)
			if err != nil {
				result := "error"
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(itemCtx.Err(), context.DeadlineExceeded) {
					result = "timeout"
				}
				e.record(result, 0)
				log.Warn("supplier lookup failed",
					zap.String("region", region),
					zap.String("result", result),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
				return nil
			}

			e.record("ok", len(suppliers))
			mu.Lock()
			out[region] = suppliers
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("enrichment complete",
		zap.Int("regions", len(regions)),
		zap.Int("enriched", len(out)),
	)
	return out
}

func (e *Enricher) lookupOne(ctx context.Context, region string) ([]model.Supplier, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return e.lookup.SuppliersByRegion(ctx, region, e.materials)
}

func (e *Enricher) record(result string, n int) {
	if e.metrics != nil {
		e.metrics.RecordLookup(result, n)
	}
}

// distinct returns the trimmed, non-empty regions in first-seen order.
func distinct(regions []string) []string {
	seen := make(map[string]bool, len(regions))
	var out []string
	for _, r := range regions {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// ParseMaterials splits a comma-separated material list, dropping blanks.
func ParseMaterials(s string) []string {
	var out []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

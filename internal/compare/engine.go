// Package compare orchestrates per-scenario price comparisons between the
// AWS and Azure price feeds.
package compare

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
)

// ErrNotFound is returned by scenarios with no fallback policy when neither
// provider produced a price.
var ErrNotFound = errors.New("no pricing found")

// Engine composes two interchangeable provider sources. It never branches
// on provider identity beyond labeling the response sides.
type Engine struct {
	aws   pricing.Source
	azure pricing.Source
}

func NewEngine(aws, azure pricing.Source) *Engine {
	return &Engine{aws: aws, azure: azure}
}

// Side is one provider's half of a comparison response.
type Side struct {
	Service  string   `json:"service,omitempty"`
	PriceUSD *float64 `json:"price_usd"`
}

// Result is the assembled outcome of one comparison scenario.
type Result struct {
	Inputs           map[string]any `json:"inputs"`
	AWS              Side           `json:"aws"`
	Azure            Side           `json:"azure"`
	CheapestProvider string         `json:"cheapest_provider"`
}

// represent runs one fetch+extract+aggregate pipeline. Feed failures
// degrade to an absent price so a fault stays local to the provider that
// raised it.
func (e *Engine) represent(ctx context.Context, src pricing.Source, q pricing.Query) *pricing.Quote {
	quotes, err := src.Quotes(ctx, q)
	if err != nil {
		log.Warn().Err(err).
			Str("provider", src.Name()).
			Str("service", q.Service).
			Str("region", q.Region).
			Msg("price fetch failed, treating as no price available")
		return nil
	}
	return pricing.Representative(quotes)
}

// representBroadened retries once without the skuName facet when the
// constrained query finds nothing. This is a heuristic retry policy, kept
// behind this seam so an alternative (nearest-SKU matching, say) can
// replace it without touching scenario control flow.
func (e *Engine) representBroadened(ctx context.Context, src pricing.Source, q pricing.Query) *pricing.Quote {
	rep := e.represent(ctx, src, q)
	if rep != nil || strings.TrimSpace(q.Facets["skuName"]) == "" {
		return rep
	}
	broadened := q
	broadened.Facets = make(map[string]string, len(q.Facets))
	for k, v := range q.Facets {
		if k != "skuName" {
			broadened.Facets[k] = v
		}
	}
	return e.represent(ctx, src, broadened)
}

// both runs the two provider pipelines concurrently under the request
// context and joins before returning.
func (e *Engine) both(ctx context.Context, awsQ, azureQ pricing.Query, broadenAzure bool) (awsRep, azureRep *pricing.Quote) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		awsRep = e.represent(gctx, e.aws, awsQ)
		return nil
	})
	g.Go(func() error {
		if broadenAzure {
			azureRep = e.representBroadened(gctx, e.azure, azureQ)
		} else {
			azureRep = e.represent(gctx, e.azure, azureQ)
		}
		return nil
	})
	_ = g.Wait()
	return awsRep, azureRep
}

func amountOf(q *pricing.Quote) *float64 {
	if q == nil {
		return nil
	}
	return q.HourlyUSD
}

// fallbackZero substitutes 0.0 for display when a side has no price. The
// winner must always be computed from the pre-fallback value.
func fallbackZero(v *float64) *float64 {
	if v != nil {
		return v
	}
	zero := 0.0
	return &zero
}

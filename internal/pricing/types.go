// Package pricing normalizes on-demand rates from heterogeneous cloud
// provider price feeds into comparable hourly USD quotes.
package pricing

import (
	"context"
	"fmt"
)

// Query describes one filtered lookup against a provider price feed.
type Query struct {
	// Service is the provider-native service identifier
	// (AWS service code such as "AmazonEC2", Azure serviceName such as
	// "Virtual Machines").
	Service string

	// Region is the provider-native region identifier. For AWS this is a
	// region code (us-west-2); the fetcher translates it to the Pricing
	// API's marketing location label. For Azure it is an armRegionName.
	Region string

	// Facets are optional equality filters keyed by the provider's field
	// names. Empty values are never sent to the feed.
	Facets map[string]string

	// MaxPages is the inclusive upper bound on feed pages consumed.
	MaxPages int
}

// Quote is one normalized price extracted from a single feed item.
// A nil HourlyUSD means the item carried no matching billable hourly rate;
// attributes are still populated so callers can see what had no price.
type Quote struct {
	HourlyUSD  *float64          `json:"ondemand_price_hour_usd"`
	Attributes map[string]string `json:"attributes"`
}

// Source fetches a provider feed and extracts normalized quotes.
// Implementations exist per provider so the comparison engine never
// branches on provider identity.
type Source interface {
	Name() string
	Quotes(ctx context.Context, q Query) ([]Quote, error)
}

// FeedError reports a non-success response from a provider price feed.
type FeedError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s price feed returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

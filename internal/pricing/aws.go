package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// awsDisplayAttributes are the product attributes carried into quotes for
// display alongside the extracted rate.
var awsDisplayAttributes = []string{
	"servicecode",
	"location",
	"instanceType",
	"operatingSystem",
	"tenancy",
	"preInstalledSw",
	"capacitystatus",
	"databaseEngine",
	"deploymentOption",
	"licenseModel",
	"volumeApiName",
	"vcpu",
	"memory",
}

// AWSSource queries the AWS Pricing GetProducts API and extracts on-demand
// hourly rates from its PriceList documents.
type AWSSource struct {
	client awspricing.GetProductsAPIClient
}

// NewAWSPricingClient returns a GetProducts client. The Pricing API is only
// served out of us-east-1 and ap-south-1 regardless of the target region.
func NewAWSPricingClient(cfg aws.Config) *awspricing.Client {
	apiRegion := "us-east-1"
	if strings.HasPrefix(cfg.Region, "ap-") {
		apiRegion = "ap-south-1"
	}
	return awspricing.NewFromConfig(cfg, func(o *awspricing.Options) {
		o.Region = apiRegion
	})
}

func NewAWSSource(client awspricing.GetProductsAPIClient) *AWSSource {
	return &AWSSource{client: client}
}

func (s *AWSSource) Name() string { return "AWS" }

// buildAWSFilters renders the region and non-empty facets as TERM_MATCH
// filters. Facets are emitted in key order so requests are deterministic.
func buildAWSFilters(q Query) []pricingtypes.Filter {
	filters := make([]pricingtypes.Filter, 0, len(q.Facets)+1)
	add := func(field, value string) {
		filters = append(filters, pricingtypes.Filter{
			Field: aws.String(field),
			Type:  pricingtypes.FilterTypeTermMatch,
			Value: aws.String(value),
		})
	}
	if loc := Location(q.Region); loc != "" {
		add("location", loc)
	}
	fields := make([]string, 0, len(q.Facets))
	for field := range q.Facets {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if v := strings.TrimSpace(q.Facets[field]); v != "" {
			add(field, v)
		}
	}
	return filters
}

// FetchRaw pages through GetProducts and returns the raw PriceList
// documents. The loop ends when the feed stops returning a continuation
// token or q.MaxPages pages have been consumed, whichever comes first.
func (s *AWSSource) FetchRaw(ctx context.Context, q Query) ([]string, error) {
	maxPages := q.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	var items []string
	var token *string
	for page := 0; page < maxPages; page++ {
		out, err := s.client.GetProducts(ctx, &awspricing.GetProductsInput{
			ServiceCode:   aws.String(q.Service),
			FormatVersion: aws.String("aws_v1"),
			Filters:       buildAWSFilters(q),
			NextToken:     token,
		})
		if err != nil {
			return nil, fmt.Errorf("aws get products: %w", err)
		}
		items = append(items, out.PriceList...)
		token = out.NextToken
		if token == nil || *token == "" {
			break
		}
	}
	return items, nil
}

func (s *AWSSource) Quotes(ctx context.Context, q Query) ([]Quote, error) {
	raw, err := s.FetchRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	return extractAWS(raw), nil
}

// awsPriceDocument is the slice of the PriceList schema this gateway reads.
type awsPriceDocument struct {
	Product struct {
		SKU        string            `json:"sku"`
		Attributes map[string]string `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// extractAWS normalizes raw PriceList documents. Documents that fail to
// decode are dropped; decoded items with no hourly USD dimension are kept
// with an absent amount so callers can still see what matched the filters.
func extractAWS(items []string) []Quote {
	quotes := make([]Quote, 0, len(items))
	for _, raw := range items {
		var doc awsPriceDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			log.Debug().Err(err).Msg("dropping undecodable aws price item")
			continue
		}
		quotes = append(quotes, Quote{
			HourlyUSD:  awsHourlyUSD(doc),
			Attributes: awsAttributes(doc),
		})
	}
	return quotes
}

// awsHourlyUSD returns the first on-demand price dimension whose unit
// denotes hours ("Hrs", "Hrs/Second" variants all share the prefix) and
// carries a parseable USD amount. Map iteration order decides ties between
// multiple qualifying dimensions; the feed does not guarantee a stable
// order either.
func awsHourlyUSD(doc awsPriceDocument) *float64 {
	for _, term := range doc.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			if !strings.HasPrefix(strings.ToLower(dim.Unit), "hr") {
				continue
			}
			usd := dim.PricePerUnit["USD"]
			if usd == "" {
				continue
			}
			if amount := parseUSD(usd); amount != nil {
				return amount
			}
		}
	}
	return nil
}

func awsAttributes(doc awsPriceDocument) map[string]string {
	attrs := make(map[string]string, len(awsDisplayAttributes)+1)
	if doc.Product.SKU != "" {
		attrs["sku"] = doc.Product.SKU
	}
	for _, key := range awsDisplayAttributes {
		if v := doc.Product.Attributes[key]; v != "" {
			attrs[key] = v
		}
	}
	return attrs
}

// parseUSD parses a feed amount string exactly before converting to the
// float used for comparisons. Unparseable amounts read as absent.
func parseUSD(s string) *float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// AzureRetailPricesURL is the public, unauthenticated Azure price feed.
const AzureRetailPricesURL = "https://prices.azure.com/api/retail/prices"

// azureFilterOrder fixes the order facets appear in the $filter expression
// so requests are deterministic.
var azureFilterOrder = []string{
	"serviceName",
	"armRegionName",
	"skuName",
	"meterName",
	"priceType",
	"currencyCode",
}

// AzureSource queries the Azure Retail Prices API with a single OData
// filter expression and follows NextPageLink pagination.
type AzureSource struct {
	client  *http.Client
	baseURL string
}

func NewAzureSource(client *http.Client, baseURL string) *AzureSource {
	if baseURL == "" {
		baseURL = AzureRetailPricesURL
	}
	return &AzureSource{client: client, baseURL: baseURL}
}

func (s *AzureSource) Name() string { return "Azure" }

// buildAzureFilter renders the service, region, and non-empty facets as one
// OData boolean expression ("serviceName eq 'Storage' and ...").
func buildAzureFilter(q Query) string {
	facets := make(map[string]string, len(q.Facets)+2)
	for k, v := range q.Facets {
		facets[k] = v
	}
	if q.Service != "" {
		facets["serviceName"] = q.Service
	}
	if q.Region != "" {
		facets["armRegionName"] = q.Region
	}
	clauses := make([]string, 0, len(facets))
	for _, field := range azureFilterOrder {
		if v := strings.TrimSpace(facets[field]); v != "" {
			clauses = append(clauses, fmt.Sprintf("%s eq '%s'", field, v))
		}
	}
	return strings.Join(clauses, " and ")
}

type azurePage struct {
	Items        []json.RawMessage `json:"Items"`
	NextPageLink string            `json:"NextPageLink"`
	Count        int               `json:"Count"`
}

// FetchRaw pages through the retail prices feed and returns the raw items.
// The loop ends when NextPageLink is empty or q.MaxPages pages have been
// consumed, whichever comes first.
func (s *AzureSource) FetchRaw(ctx context.Context, q Query) ([]json.RawMessage, error) {
	maxPages := q.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	pageURL := s.baseURL
	if filter := buildAzureFilter(q); filter != "" {
		v := url.Values{}
		v.Set("$filter", filter)
		pageURL += "?" + v.Encode()
	}
	var items []json.RawMessage
	for page := 0; pageURL != "" && page < maxPages; page++ {
		pageItems, next, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)
		pageURL = next
	}
	return items, nil
}

func (s *AzureSource) fetchPage(ctx context.Context, pageURL string) ([]json.RawMessage, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("azure retail prices: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &FeedError{Provider: "Azure", StatusCode: resp.StatusCode, Body: string(body)}
	}
	var page azurePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decoding azure retail prices page: %w", err)
	}
	return page.Items, page.NextPageLink, nil
}

func (s *AzureSource) Quotes(ctx context.Context, q Query) ([]Quote, error) {
	raw, err := s.FetchRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	return extractAzure(raw), nil
}

// azureItem is the slice of a retail prices item this gateway reads.
type azureItem struct {
	RetailPrice   *float64 `json:"retailPrice"`
	ServiceName   string   `json:"serviceName"`
	ArmRegionName string   `json:"armRegionName"`
	Location      string   `json:"location"`
	SkuName       string   `json:"skuName"`
	ArmSkuName    string   `json:"armSkuName"`
	MeterName     string   `json:"meterName"`
	ProductName   string   `json:"productName"`
	UnitOfMeasure string   `json:"unitOfMeasure"`
	Type          string   `json:"type"`
	CurrencyCode  string   `json:"currencyCode"`
}

// extractAzure normalizes raw retail price items. Items that fail to decode
// are dropped; items without a retailPrice keep their attributes with an
// absent amount.
func extractAzure(items []json.RawMessage) []Quote {
	quotes := make([]Quote, 0, len(items))
	for _, raw := range items {
		var item azureItem
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Debug().Err(err).Msg("dropping undecodable azure price item")
			continue
		}
		quotes = append(quotes, Quote{
			HourlyUSD:  item.RetailPrice,
			Attributes: azureAttributes(item),
		})
	}
	return quotes
}

func azureAttributes(item azureItem) map[string]string {
	fields := map[string]string{
		"serviceName":   item.ServiceName,
		"armRegionName": item.ArmRegionName,
		"location":      item.Location,
		"skuName":       item.SkuName,
		"armSkuName":    item.ArmSkuName,
		"meterName":     item.MeterName,
		"productName":   item.ProductName,
		"unitOfMeasure": item.UnitOfMeasure,
		"type":          item.Type,
		"currencyCode":  item.CurrencyCode,
	}
	attrs := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

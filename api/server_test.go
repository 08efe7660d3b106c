package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/auth"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/compare"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
)

const awsVMDoc = `{
	"product": {
		"sku": "ABCDEF123456",
		"attributes": {"servicecode": "AmazonEC2", "instanceType": "t3.micro", "operatingSystem": "Linux"}
	},
	"terms": {
		"OnDemand": {
			"t": {"priceDimensions": {"d": {"unit": "Hrs", "pricePerUnit": {"USD": "0.0104"}}}}
		}
	}
}`

const azureVMPage = `{
	"Items": [{
		"retailPrice": 0.0113,
		"serviceName": "Virtual Machines",
		"armRegionName": "westus2",
		"skuName": "B1s",
		"unitOfMeasure": "1 Hour"
	}],
	"Count": 1
}`

// staticProductsClient returns one fixed page for every request.
type staticProductsClient struct {
	priceList []string
}

func (c *staticProductsClient) GetProducts(context.Context, *awspricing.GetProductsInput, ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error) {
	return &awspricing.GetProductsOutput{PriceList: c.priceList}, nil
}

type memStore struct {
	hashes map[string]string
}

func newMemStore() *memStore {
	return &memStore{hashes: make(map[string]string)}
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string) error {
	if _, ok := m.hashes[username]; ok {
		return auth.ErrUserExists
	}
	m.hashes[username] = passwordHash
	return nil
}

func (m *memStore) PasswordHash(_ context.Context, username string) (string, error) {
	hash, ok := m.hashes[username]
	if !ok {
		return "", auth.ErrUserNotFound
	}
	return hash, nil
}

type fixture struct {
	handler http.Handler
	auth    *auth.Service
}

func newFixture(t *testing.T, awsDocs []string, azureHandler http.HandlerFunc) *fixture {
	t.Helper()
	azureSrv := httptest.NewServer(azureHandler)
	t.Cleanup(azureSrv.Close)

	awsSrc := pricing.NewAWSSource(&staticProductsClient{priceList: awsDocs})
	azureSrc := pricing.NewAzureSource(azureSrv.Client(), azureSrv.URL)
	authSvc := auth.NewService(newMemStore(), "test-secret", time.Minute)
	srv := NewServer(nil, compare.NewEngine(awsSrc, azureSrc), awsSrc, azureSrc, authSvc)
	return &fixture{handler: srv.Routes(), auth: authSvc}
}

func azureOK(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(azureVMPage))
		assert.NoError(t, err)
	}
}

func azureEmpty() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Items":[],"Count":0}`))
	}
}

func (f *fixture) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authed {
		token, err := f.auth.IssueToken("tester")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

type sideBody struct {
	Service  string   `json:"service"`
	PriceUSD *float64 `json:"price_usd"`
}

type resultBody struct {
	AWS              sideBody `json:"aws"`
	Azure            sideBody `json:"azure"`
	CheapestProvider string   `json:"cheapest_provider"`
}

func TestHealthAndVersionAreOpen(t *testing.T) {
	f := newFixture(t, nil, azureEmpty())

	rec := f.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = f.do(t, http.MethodGet, "/version", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompareEndpointsRequireBearerToken(t *testing.T) {
	f := newFixture(t, nil, azureEmpty())

	for _, target := range []string{
		"/aws/prices",
		"/azure/prices",
		"/compare/db-sql?region=us-west-2",
		"/compare/dns?region=us-west-2",
	} {
		rec := f.do(t, http.MethodGet, target, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec := f.do(t, http.MethodPost, "/compare/service?service_type=vm&region=us-west-2", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndTokenFlow(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureOK(t))

	rec := f.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"p@ssword1"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"p@ssword1"}`, false)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/token", `{"username":"alice","password":"wrong"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = f.do(t, http.MethodPost, "/auth/token", `{"username":"alice","password":"p@ssword1"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/compare/dns?region=us-west-2", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterRejectsBadBodies(t *testing.T) {
	f := newFixture(t, nil, azureEmpty())

	rec := f.do(t, http.MethodPost, "/auth/register", `{not json`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/register", `{"username":"!!!","password":"p@ssword1"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a username that sanitizes to empty is rejected")
}

func TestParamValidation(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureOK(t))

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"max_pages too large", http.MethodGet, "/compare/dns?region=us-west-2&max_pages=99"},
		{"max_pages not a number", http.MethodGet, "/compare/dns?region=us-west-2&max_pages=lots"},
		{"max_pages zero", http.MethodGet, "/aws/prices?max_pages=0"},
		{"missing region", http.MethodGet, "/compare/egress"},
		{"bad service_type", http.MethodPost, "/compare/service?service_type=cdn&region=us-west-2"},
		{"bad database_engine", http.MethodGet, "/compare/db-sql?region=us-west-2&database_engine=FoundationDB"},
		{"bad deployment_option", http.MethodGet, "/compare/db-sql?region=us-west-2&deployment_option=Triple-AZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, "", true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestCompareServiceVMEndpoint(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureOK(t))

	rec := f.do(t, http.MethodPost, "/compare/service?service_type=vm&region=us-west-2", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var res resultBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.AWS.PriceUSD)
	assert.Equal(t, 0.0104, *res.AWS.PriceUSD)
	require.NotNil(t, res.Azure.PriceUSD)
	assert.Equal(t, 0.0113, *res.Azure.PriceUSD)
	assert.Equal(t, pricing.WinnerAWS, res.CheapestProvider)
}

func TestCompareDatabaseFallbackZeroEndpoint(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureEmpty())

	rec := f.do(t, http.MethodGet, "/compare/db-sql?region=us-west-2&database_engine=PostgreSQL", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var res resultBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Azure.PriceUSD)
	assert.Equal(t, 0.0, *res.Azure.PriceUSD)
	assert.Equal(t, pricing.WinnerAWS, res.CheapestProvider)
}

func TestCompareBlockStorageNotFoundEndpoint(t *testing.T) {
	f := newFixture(t, nil, azureEmpty())

	rec := f.do(t, http.MethodGet, "/compare/block-storage?region=us-west-2", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no block storage pricing found")
}

func TestAZCoverageEndpoint(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureEmpty())

	rec := f.do(t, http.MethodGet, "/compare/az-coverage?region=us-west-2", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Available struct {
			AWSVM        bool `json:"aws_vm"`
			AWSStorage   bool `json:"aws_storage"`
			AzureVM      bool `json:"azure_vm"`
			AzureStorage bool `json:"azure_storage"`
		} `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Available.AWSVM)
	assert.False(t, res.Available.AzureVM)
}

func TestAWSPricesPassthrough(t *testing.T) {
	f := newFixture(t, []string{awsVMDoc}, azureEmpty())

	rec := f.do(t, http.MethodGet, "/aws/prices?raw=true", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int               `json:"count"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)

	rec = f.do(t, http.MethodGet, "/aws/prices", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ondemand_price_hour_usd")
}

func TestAzurePricesPassthroughPropagatesFeedStatus(t *testing.T) {
	f := newFixture(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "feed down", http.StatusServiceUnavailable)
	})

	rec := f.do(t, http.MethodGet, "/azure/prices?service_name=Storage", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "feed down")
}

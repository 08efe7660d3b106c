package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/compare"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
)

// respondFeedError propagates a provider feed failure on the passthrough
// endpoints, carrying the remote status when one is known.
func respondFeedError(w http.ResponseWriter, err error) {
	var feedErr *pricing.FeedError
	if errors.As(err, &feedErr) {
		respondError(w, feedErr.StatusCode, feedErr.Body)
		return
	}
	respondError(w, http.StatusBadGateway, fmt.Sprintf("price feed unavailable: %v", err))
}

func (s *Server) handleAWSPrices(w http.ResponseWriter, r *http.Request) {
	pages, err := parseMaxPages(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := pricing.Query{
		Service: queryDefault(r, "service_code", "AmazonEC2"),
		Region:  queryDefault(r, "region", ""),
		Facets: map[string]string{
			"instanceType":    queryDefault(r, "instance_type", ""),
			"operatingSystem": queryDefault(r, "operating_system", ""),
			"tenancy":         queryDefault(r, "tenancy", ""),
			"preInstalledSw":  queryDefault(r, "pre_installed_sw", ""),
			"capacitystatus":  queryDefault(r, "capacity_status", ""),
		},
		MaxPages: pages,
	}

	if queryDefault(r, "raw", "false") == "true" {
		items, err := s.awsSource.FetchRaw(r.Context(), q)
		if err != nil {
			respondFeedError(w, err)
			return
		}
		docs := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			docs = append(docs, json.RawMessage(item))
		}
		respondJSON(w, http.StatusOK, map[string]any{"count": len(docs), "items": docs})
		return
	}

	quotes, err := s.awsSource.Quotes(r.Context(), q)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": len(quotes), "items": quotes})
}

func (s *Server) handleAzurePrices(w http.ResponseWriter, r *http.Request) {
	pages, err := parseMaxPages(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := pricing.Query{
		Service: queryDefault(r, "service_name", ""),
		Region:  queryDefault(r, "arm_region_name", ""),
		Facets: map[string]string{
			"skuName":      queryDefault(r, "sku_name", ""),
			"meterName":    queryDefault(r, "meter_name", ""),
			"priceType":    queryDefault(r, "price_type", ""),
			"currencyCode": queryDefault(r, "currency_code", ""),
		},
		MaxPages: pages,
	}

	items, err := s.azure.FetchRaw(r.Context(), q)
	if err != nil {
		respondFeedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": len(items), "items": items})
}

func (s *Server) handleCompareService(w http.ResponseWriter, r *http.Request) {
	pages, err := parseMaxPages(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serviceType, err := queryEnum(r, "service_type", compare.ServiceTypeVM,
		compare.ServiceTypeVM, compare.ServiceTypeStorage)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	region, err := requireQuery(r, "region")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.engine.CompareService(r.Context(), compare.ServiceInput{
		ServiceType:  serviceType,
		Region:       region,
		AzureRegion:  queryDefault(r, "azure_region", ""),
		InstanceType: queryDefault(r, "instance_type", "t3.micro"),
		AzureSKU:     queryDefault(r, "azure_sku", "B1s"),
		MaxPages:     pages,
	})
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompareDatabase(w http.ResponseWriter, r *http.Request) {
	pages, err := parseMaxPages(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	region, err := requireQuery(r, "region")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	engine, err := queryEnum(r, "database_engine", "MySQL",
		"MySQL", "PostgreSQL", "MariaDB", "SQL Server", "Oracle")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	deployment, err := queryEnum(r, "deployment_option", "Single-AZ", "Single-AZ", "Multi-AZ")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	license, err := queryEnum(r, "license_model", "License included", "License included", "BYOL")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.engine.CompareDatabase(r.Context(), compare.DatabaseInput{
		Region:           region,
		AzureRegion:      queryDefault(r, "azure_region", ""),
		DatabaseEngine:   engine,
		DeploymentOption: deployment,
		LicenseModel:     license,
		AzureSKU:         queryDefault(r, "sku_name", "GP_Gen5_2"),
		MaxPages:         pages,
	})
	respondJSON(w, http.StatusOK, result)
}

// regionInput validates the common region-pair parameters.
func regionInput(r *http.Request) (compare.RegionInput, error) {
	pages, err := parseMaxPages(r)
	if err != nil {
		return compare.RegionInput{}, err
	}
	region, err := requireQuery(r, "region")
	if err != nil {
		return compare.RegionInput{}, err
	}
	return compare.RegionInput{
		Region:      region,
		AzureRegion: queryDefault(r, "azure_region", ""),
		MaxPages:    pages,
	}, nil
}

func (s *Server) handleCompareEgress(w http.ResponseWriter, r *http.Request) {
	in, err := regionInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.engine.CompareEgress(r.Context(), in))
}

func (s *Server) handleCompareBlockStorage(w http.ResponseWriter, r *http.Request) {
	pages, err := parseMaxPages(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	region, err := requireQuery(r, "region")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.CompareBlockStorage(r.Context(), compare.BlockStorageInput{
		Region:      region,
		AzureRegion: queryDefault(r, "azure_region", ""),
		VolumeType:  queryDefault(r, "volume_type", "gp3"),
		AzureSKU:    queryDefault(r, "sku_name", ""),
		MaxPages:    pages,
	})
	if errors.Is(err, compare.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no block storage pricing found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompareLoadBalancer(w http.ResponseWriter, r *http.Request) {
	in, err := regionInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.engine.CompareLoadBalancer(r.Context(), in))
}

func (s *Server) handleCompareDNS(w http.ResponseWriter, r *http.Request) {
	in, err := regionInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.engine.CompareDNS(r.Context(), in))
}

func (s *Server) handleAZCoverage(w http.ResponseWriter, r *http.Request) {
	in, err := regionInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.engine.AZCoverage(r.Context(), in))
}

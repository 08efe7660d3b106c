package compare

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
)

// Service types accepted by CompareService.
const (
	ServiceTypeVM      = "vm"
	ServiceTypeStorage = "storage"
)

// ServiceInput parameterizes the unified VM/storage comparison.
type ServiceInput struct {
	ServiceType  string
	Region       string
	AzureRegion  string
	InstanceType string
	AzureSKU     string
	MaxPages     int
}

// CompareService compares compute (SKU-constrained, Linux) or object
// storage (region-wide minimum) pricing. The VM scenario retries the Azure
// side without the SKU facet when the constrained query finds nothing.
func (e *Engine) CompareService(ctx context.Context, in ServiceInput) *Result {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	inputs := map[string]any{
		"service_type":   in.ServiceType,
		"region_entered": in.Region,
		"aws_region":     in.Region,
		"azure_region":   az,
	}

	var awsQ, azureQ pricing.Query
	broaden := false
	if in.ServiceType == ServiceTypeVM {
		awsQ = pricing.Query{
			Service: "AmazonEC2",
			Region:  in.Region,
			Facets: map[string]string{
				"instanceType":    in.InstanceType,
				"operatingSystem": "Linux",
			},
			MaxPages: in.MaxPages,
		}
		azureQ = pricing.Query{
			Service:  "Virtual Machines",
			Region:   az,
			Facets:   map[string]string{"skuName": in.AzureSKU},
			MaxPages: in.MaxPages,
		}
		broaden = true
		inputs["instance_type"] = in.InstanceType
		inputs["azure_sku"] = in.AzureSKU
	} else {
		awsQ = pricing.Query{Service: "AmazonS3", Region: in.Region, MaxPages: in.MaxPages}
		azureQ = pricing.Query{Service: "Storage", Region: az, MaxPages: in.MaxPages}
	}

	awsRep, azureRep := e.both(ctx, awsQ, azureQ, broaden)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	return &Result{
		Inputs:           inputs,
		AWS:              Side{PriceUSD: awsAmt},
		Azure:            Side{PriceUSD: azureAmt},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}
}

// DatabaseInput parameterizes the relational database comparison.
type DatabaseInput struct {
	Region           string
	AzureRegion      string
	DatabaseEngine   string
	DeploymentOption string
	LicenseModel     string
	AzureSKU         string
	MaxPages         int
}

// CompareDatabase compares RDS against Azure SQL Database. Both sides
// display 0.0 when absent; the winner is decided from the pre-fallback
// values so a zero display never wins.
func (e *Engine) CompareDatabase(ctx context.Context, in DatabaseInput) *Result {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	awsQ := pricing.Query{
		Service: "AmazonRDS",
		Region:  in.Region,
		Facets: map[string]string{
			"databaseEngine":   in.DatabaseEngine,
			"deploymentOption": in.DeploymentOption,
			"licenseModel":     in.LicenseModel,
		},
		MaxPages: in.MaxPages,
	}
	azureQ := pricing.Query{
		Service:  "SQL Database",
		Region:   az,
		Facets:   map[string]string{"skuName": in.AzureSKU},
		MaxPages: in.MaxPages,
	}

	awsRep, azureRep := e.both(ctx, awsQ, azureQ, true)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	return &Result{
		Inputs: map[string]any{
			"region":            in.Region,
			"azure_region":      az,
			"database_engine":   in.DatabaseEngine,
			"deployment_option": in.DeploymentOption,
			"license_model":     in.LicenseModel,
			"azure_sku":         in.AzureSKU,
		},
		AWS:              Side{Service: "AmazonRDS", PriceUSD: fallbackZero(awsAmt)},
		Azure:            Side{Service: "SQL Database", PriceUSD: fallbackZero(azureAmt)},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}
}

// RegionInput parameterizes scenarios that only need a region pair.
type RegionInput struct {
	Region      string
	AzureRegion string
	MaxPages    int
}

// CompareEgress compares internet data transfer pricing region-wide.
func (e *Engine) CompareEgress(ctx context.Context, in RegionInput) *Result {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	awsRep, azureRep := e.both(ctx,
		pricing.Query{Service: "AmazonEC2", Region: in.Region, MaxPages: in.MaxPages},
		pricing.Query{Service: "Bandwidth", Region: az, MaxPages: in.MaxPages},
		false,
	)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	return &Result{
		Inputs:           map[string]any{"aws_region": in.Region, "azure_region": az},
		AWS:              Side{Service: "AmazonEC2 (Data Transfer)", PriceUSD: awsAmt},
		Azure:            Side{Service: "Bandwidth", PriceUSD: azureAmt},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}
}

// BlockStorageInput parameterizes the block storage comparison.
type BlockStorageInput struct {
	Region      string
	AzureRegion string
	VolumeType  string
	AzureSKU    string
	MaxPages    int
}

// CompareBlockStorage compares EBS (via EC2 pricing) against Azure Managed
// Disks (via Storage). With no fallback policy defined, both sides absent
// is a hard not-found.
func (e *Engine) CompareBlockStorage(ctx context.Context, in BlockStorageInput) (*Result, error) {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	awsQ := pricing.Query{
		Service:  "AmazonEC2",
		Region:   in.Region,
		Facets:   map[string]string{"volumeApiName": in.VolumeType},
		MaxPages: in.MaxPages,
	}
	azureQ := pricing.Query{
		Service:  "Storage",
		Region:   az,
		Facets:   map[string]string{"skuName": in.AzureSKU},
		MaxPages: in.MaxPages,
	}

	awsRep, azureRep := e.both(ctx, awsQ, azureQ, false)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	if awsAmt == nil && azureAmt == nil {
		return nil, ErrNotFound
	}
	return &Result{
		Inputs: map[string]any{
			"aws_region":      in.Region,
			"azure_region":    az,
			"aws_volume_type": in.VolumeType,
			"azure_disk_sku":  in.AzureSKU,
		},
		AWS:              Side{Service: "Amazon EBS (via EC2 pricing)", PriceUSD: awsAmt},
		Azure:            Side{Service: "Managed Disks (via Storage)", PriceUSD: azureAmt},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}, nil
}

// CompareLoadBalancer compares ELB against Azure Load Balancer with
// fallback-to-zero display.
func (e *Engine) CompareLoadBalancer(ctx context.Context, in RegionInput) *Result {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	awsRep, azureRep := e.both(ctx,
		pricing.Query{Service: "AWSELB", Region: in.Region, MaxPages: in.MaxPages},
		pricing.Query{Service: "Load Balancer", Region: az, MaxPages: in.MaxPages},
		false,
	)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	return &Result{
		Inputs:           map[string]any{"aws_region": in.Region, "azure_region": az},
		AWS:              Side{Service: "Elastic Load Balancing", PriceUSD: fallbackZero(awsAmt)},
		Azure:            Side{Service: "Load Balancer", PriceUSD: fallbackZero(azureAmt)},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}
}

// CompareDNS compares Route 53 against Azure DNS.
func (e *Engine) CompareDNS(ctx context.Context, in RegionInput) *Result {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	awsRep, azureRep := e.both(ctx,
		pricing.Query{Service: "AmazonRoute53", Region: in.Region, MaxPages: in.MaxPages},
		pricing.Query{Service: "DNS", Region: az, MaxPages: in.MaxPages},
		false,
	)
	awsAmt, azureAmt := amountOf(awsRep), amountOf(azureRep)
	return &Result{
		Inputs:           map[string]any{"aws_region": in.Region, "azure_region": az},
		AWS:              Side{Service: "Amazon Route 53", PriceUSD: awsAmt},
		Azure:            Side{Service: "Azure DNS", PriceUSD: azureAmt},
		CheapestProvider: pricing.Cheapest(awsAmt, azureAmt),
	}
}

// Availability is the per-service presence matrix for one region pair.
type Availability struct {
	AWSVM        bool `json:"aws_vm"`
	AWSStorage   bool `json:"aws_storage"`
	AzureVM      bool `json:"azure_vm"`
	AzureStorage bool `json:"azure_storage"`
}

// CoverageResult is the AZ-coverage response: no winner, just presence.
type CoverageResult struct {
	Inputs    map[string]any `json:"inputs"`
	Available Availability   `json:"available"`
}

// AZCoverage infers service availability from price presence: a region that
// returns any priced result for a service is presumed to offer it.
func (e *Engine) AZCoverage(ctx context.Context, in RegionInput) *CoverageResult {
	az := pricing.AzureRegion(in.Region, in.AzureRegion)
	var avail Availability
	g, gctx := errgroup.WithContext(ctx)
	probe := func(dst *bool, src pricing.Source, q pricing.Query) {
		g.Go(func() error {
			*dst = e.represent(gctx, src, q) != nil
			return nil
		})
	}
	probe(&avail.AWSVM, e.aws, pricing.Query{Service: "AmazonEC2", Region: in.Region, MaxPages: in.MaxPages})
	probe(&avail.AWSStorage, e.aws, pricing.Query{Service: "AmazonS3", Region: in.Region, MaxPages: in.MaxPages})
	probe(&avail.AzureVM, e.azure, pricing.Query{Service: "Virtual Machines", Region: az, MaxPages: in.MaxPages})
	probe(&avail.AzureStorage, e.azure, pricing.Query{Service: "Storage", Region: az, MaxPages: in.MaxPages})
	_ = g.Wait()

	return &CoverageResult{
		Inputs:    map[string]any{"aws_region": in.Region, "azure_region": az},
		Available: avail,
	}
}

package pricing

import "strings"

// regionToLocation maps AWS region codes to the marketing "location" names
// the Pricing API filters on.
var regionToLocation = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"ca-central-1":   "Canada (Central)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-north-1":     "EU (Stockholm)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"sa-east-1":      "South America (São Paulo)",
}

// awsToAzureRegion maps AWS region codes to the nearest Azure armRegionName.
var awsToAzureRegion = map[string]string{
	"us-east-1":      "eastus",
	"us-east-2":      "eastus2",
	"us-west-1":      "westus",
	"us-west-2":      "westus2",
	"ca-central-1":   "canadacentral",
	"eu-west-1":      "westeurope",
	"eu-west-2":      "uksouth",
	"eu-west-3":      "francecentral",
	"eu-north-1":     "northeurope",
	"eu-central-1":   "germanywestcentral",
	"ap-south-1":     "centralindia",
	"ap-southeast-1": "southeastasia",
	"ap-southeast-2": "australiaeast",
	"ap-northeast-1": "japaneast",
	"ap-northeast-2": "koreacentral",
	"ap-east-1":      "eastasia",
	"sa-east-1":      "brazilsouth",
}

// Location translates an AWS region code to the Pricing API location label.
// Values already given as a location label (or unknown codes) pass through
// unchanged; the Pricing API accepts raw labels as filters.
func Location(region string) string {
	v := strings.TrimSpace(region)
	if v == "" {
		return ""
	}
	if loc, ok := regionToLocation[v]; ok {
		return loc
	}
	return v
}

// AzureRegion resolves the Azure armRegionName for an AWS region code.
// A non-empty override is returned verbatim; unknown codes pass through.
func AzureRegion(awsRegion, override string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	v := strings.TrimSpace(awsRegion)
	if az, ok := awsToAzureRegion[v]; ok {
		return az
	}
	return v
}

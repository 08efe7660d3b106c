package pricing

// Winner labels for the cheapest-provider decision.
const (
	WinnerAWS   = "AWS"
	WinnerAzure = "Azure"
	WinnerSame  = "Same"
)

// Cheapest decides which side offers the lower rate. A present price always
// beats an absent one; absence on both sides is a tie, as are equal amounts.
func Cheapest(aws, azure *float64) string {
	switch {
	case aws == nil && azure == nil:
		return WinnerSame
	case aws == nil:
		return WinnerAzure
	case azure == nil:
		return WinnerAWS
	case *aws < *azure:
		return WinnerAWS
	case *azure < *aws:
		return WinnerAzure
	default:
		return WinnerSame
	}
}

package pricing

// Representative selects the single quote that stands in for a whole result
// set: the minimum strictly positive amount when one exists, otherwise the
// minimum of whatever amounts are present, otherwise nil. Feeds sometimes
// carry zero or negative placeholder rates that must not read as "free",
// but a least value is still surfaced when nothing positive exists.
func Representative(quotes []Quote) *Quote {
	var positive, any *Quote
	for i := range quotes {
		amount := quotes[i].HourlyUSD
		if amount == nil {
			continue
		}
		if any == nil || *amount < *any.HourlyUSD {
			any = &quotes[i]
		}
		if *amount > 0 && (positive == nil || *amount < *positive.HourlyUSD) {
			positive = &quotes[i]
		}
	}
	if positive != nil {
		return positive
	}
	return any
}

package utils

// JobPricing holds the fixed default hourly rate for each job type. A worker
// registering a job without a price falls back to these.
var JobPricing = map[string]float64{
	"Cleaning":    100,
	"Electrician": 200,
	"Plumbing":    150,
	"Carpentry":   180,
	"Painting":    120,
	"Gardening":   90,
	"Moving":      250,
	"Other":       100,
}

// JobPrice returns the default hourly rate for a job type, falling back to
// the "Other" rate for unknown jobs.
func JobPrice(jobName string) float64 {
	if price, ok := JobPricing[jobName]; ok {
		return price
	}
	return JobPricing["Other"]
}

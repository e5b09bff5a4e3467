package domain

// OptionCount is the aggregated number of votes an option received.
type OptionCount struct {
	PollID     int64  `json:"poll_id"`
	OptionID   int64  `json:"option_id"`
	OptionName string `json:"option_name"`
	Count      int64  `json:"count"`
}

// TotalVotes sums the counts of all options.
func TotalVotes(counts []OptionCount) int64 {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return total
}

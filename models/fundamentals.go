package models

// Fundamentals are the valuation metrics served alongside a holding.
// Both fields are nullable: a missing datapoint from the provider is
// normal and never an error.
type Fundamentals struct {
	PERatio        *float64 `json:"peRatio"`
	LatestEarnings *float64 `json:"latestEarnings"`
}

// Empty reports whether no datapoint is populated.
func (f Fundamentals) Empty() bool {
	return f.PERatio == nil && f.LatestEarnings == nil
}

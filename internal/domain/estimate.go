package domain

// CostEstimate is a price range in whole currency units.
type CostEstimate struct {
	Minimum int64 `json:"minimum"`
	Maximum int64 `json:"maximum"`
	Average int64 `json:"average"`
}

// Valid reports a positive, ordered range.
func (c CostEstimate) Valid() bool {
	return c.Minimum > 0 && c.Minimum <= c.Average && c.Average <= c.Maximum
}

// DurationEstimate is a lead time range in days.
type DurationEstimate struct {
	MinDays int `json:"min_days"`
	MaxDays int `json:"max_days"`
	AvgDays int `json:"avg_days"`
}

// Valid reports a positive, ordered range.
func (d DurationEstimate) Valid() bool {
	return d.MinDays > 0 && d.MinDays <= d.AvgDays && d.AvgDays <= d.MaxDays
}

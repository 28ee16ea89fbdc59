package model

// Aggregates are the reduced statistics over all Monte Carlo trials.
// Never mutated after computation, except Regret which the caller fills in
// when (and only when) the DP benchmark is available.
type Aggregates struct {
	AvgRevenue float64 `json:"avg_revenue"`
	// StdRevenue is the population standard deviation of per-trial revenue.
	StdRevenue float64 `json:"std_revenue"`
	// FillRate is mean(sale count)/I.
	FillRate float64 `json:"fill_rate"`
	// AvgPrice is the sales-weighted mean price; 0 when nothing sold.
	AvgPrice float64 `json:"avg_price"`
	// LastMinuteShare is the rate of sales per period-slot in the trailing
	// LastMinuteK window. The denominator counts slots, not sales, so this
	// is a rate of last-minute activity rather than a share of total sales.
	LastMinuteShare float64  `json:"last_minute_share"`
	Regret          *float64 `json:"regret,omitempty"`
	// PriceMix counts sold units per price label.
	PriceMix map[string]int `json:"price_mix"`
}

// TrialStep is one period of the retained sample trial.
type TrialStep struct {
	Period            int     `json:"period"`
	RemainingCapacity int     `json:"remaining_capacity"`
	Price             int     `json:"price"`
	Sold              bool    `json:"sold"`
	Revenue           float64 `json:"revenue"`
}

// SampleTrial is the first trial's full trajectory, kept for presentation.
type SampleTrial struct {
	TrialID      int         `json:"trial_id"`
	Steps        []TrialStep `json:"steps"`
	TotalRevenue float64     `json:"total_revenue"`
}

// SimulationResults is the complete output of one Monte Carlo run.
// Plain nested data, no behavior; the API layer serializes it as-is.
type SimulationResults struct {
	Config      SimConfig    `json:"config"`
	Policy      PolicyMatrix `json:"policy"`
	Aggregates  Aggregates   `json:"aggregates"`
	SampleTrial SampleTrial  `json:"sample_trial"`
	// PriceHistogram counts sold units per price label across all trials.
	PriceHistogram map[string]int `json:"price_histogram"`
	// SalesByPeriod counts sales per period, summed over all trials.
	SalesByPeriod []int `json:"sales_by_period"`
}

package cashflow

// RunwayImpact compares the baseline runway with the runway left after a shock
type RunwayImpact struct {
	Baseline float64 `json:"baseline"`
	Stressed float64 `json:"stressed"`
	Impact   float64 `json:"impact"`
}

// Runway returns how many months balance lasts at monthlyExpense, to one
// decimal place. It is 0 when either input is not positive.
func Runway(balance, monthlyExpense float64) float64 {
	if monthlyExpense <= 0 || balance <= 0 {
		return 0
	}
	return round1(balance / monthlyExpense)
}

// StressRunway reports the runway lost if shock were spent today
func StressRunway(balance, monthlyExpense, shock float64) RunwayImpact {
	baseline := Runway(balance, monthlyExpense)
	stressed := Runway(maxFloat(0, balance-shock), monthlyExpense)
	return RunwayImpact{
		Baseline: baseline,
		Stressed: stressed,
		Impact:   round1(maxFloat(0, baseline-stressed)),
	}
}

package internal

import (
	"stockscreen/internal/domain"
)

// ApplyThresholds evaluates one metric bundle against the run's cutoffs.
// Valuation passes on either PE or EV/EBITDA; growth needs both revenue and
// EPS; the remaining families stand alone. Overall pass requires all five.
// Total function: undefined metrics fail their predicates, nothing panics.
func ApplyThresholds(m domain.MetricBundle, cfg domain.ThresholdConfig) domain.VerdictSet {
	verdicts := domain.VerdictSet{
		Valuation:     below(m.PE, cfg.MaxPE) || below(m.EVEBITDA, cfg.MaxEVEBITDA),
		Growth:        above(m.RevenueGrowthYoY, cfg.MinRevenueGrowth) && above(m.EPSGrowthYoY, cfg.MinEPSGrowth),
		RiskAdjusted:  above(m.Sortino, cfg.MinSortino),
		Alpha:         above(m.AlphaAnnualized, cfg.MinAlpha),
		Profitability: above(m.CROCI, cfg.MinCROCI),
	}
	verdicts.Pass = verdicts.Valuation && verdicts.Growth && verdicts.RiskAdjusted && verdicts.Alpha && verdicts.Profitability
	return verdicts
}

func below(m domain.Metric, max float64) bool {
	return m.Defined && m.Value < max
}

func above(m domain.Metric, min float64) bool {
	return m.Defined && m.Value > min
}

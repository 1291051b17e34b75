package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metric is a computed value that may be undefined when the inputs cannot
// support it (zero prior-year revenue, non-positive EBITDA, too few return
// observations). An undefined metric fails its threshold; it never aborts
// the bundle.
type Metric struct {
	Value   float64
	Defined bool
}

func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

func UndefinedMetric() Metric {
	return Metric{}
}

// MetricBundle holds the five metric families for one symbol. Growth, alpha
// and CROCI are expressed in percent; Sortino is a unitless annualized ratio.
type MetricBundle struct {
	PE               Metric
	EVEBITDA         Metric
	RevenueGrowthYoY Metric
	EPSGrowthYoY     Metric
	Sortino          Metric
	AlphaAnnualized  Metric
	CROCI            Metric
}

// ThresholdConfig is the immutable cutoff set for one run. Valuation passes
// on either PE or EV/EBITDA; every other family must pass on its own.
type ThresholdConfig struct {
	MaxPE            float64
	MaxEVEBITDA      float64
	MinRevenueGrowth float64 // percent
	MinEPSGrowth     float64 // percent
	MinSortino       float64
	MinAlpha         float64 // percent, annualized
	MinCROCI         float64 // percent
}

func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		MaxPE:            15,
		MaxEVEBITDA:      12,
		MinRevenueGrowth: 10,
		MinEPSGrowth:     10,
		MinSortino:       1.0,
		MinAlpha:         0,
		MinCROCI:         15,
	}
}

// VerdictSet records the per-family outcomes for one symbol against one
// ThresholdConfig. Pass is true only when all five families pass.
type VerdictSet struct {
	Valuation     bool
	Growth        bool
	RiskAdjusted  bool
	Alpha         bool
	Profitability bool
	Pass          bool
}

type ScanResult struct {
	Symbol   string
	Metrics  MetricBundle
	Verdicts VerdictSet
}

type ScanFailure struct {
	Symbol string
	Reason string
}

// ScanRunReport is the unit handed to the exporter: the run inputs, the
// ranked passing results, the evaluated-but-rejected results, and the
// per-symbol failure log.
type ScanRunReport struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	Universe   []string
	Thresholds ThresholdConfig

	// Results holds symbols that passed every family, ranked by annualized
	// alpha descending (ties broken by symbol).
	Results []ScanResult

	// Rejected holds symbols that were fully evaluated but failed one or
	// more thresholds, in the same order.
	Rejected []ScanResult

	Failures []ScanFailure
}

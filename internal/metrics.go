package internal

import (
	"math"
	"time"

	"stockscreen/internal/domain"

	"github.com/montanaflynn/stats"
)

// return convention: daily observations, annualized with 252 trading days.
// the sortino and alpha windows share the same return series so the two
// risk metrics stay comparable.
const (
	tradingDaysPerYear = 252

	// below this many paired observations a regression intercept is noise
	minAlphaObservations = 12
)

// ComputeMetrics derives the full metric bundle for one symbol. Pure and
// deterministic: identical inputs produce identical bundles. Any metric the
// inputs cannot support comes back undefined instead of aborting the bundle.
func ComputeMetrics(series domain.PriceSeries, benchmark domain.PriceSeries, fundamentals *domain.FundamentalsSnapshot) domain.MetricBundle {
	lastClose := 0.0
	if close, ok := series.LastClose(); ok {
		lastClose = close.InexactFloat64()
	}

	return domain.MetricBundle{
		PE:               priceToEarnings(lastClose, fundamentals),
		EVEBITDA:         evToEbitda(lastClose, fundamentals),
		RevenueGrowthYoY: growthYoY(fundamentals.Revenue, fundamentals.PriorRevenue),
		EPSGrowthYoY:     growthYoY(fundamentals.EPSDiluted, fundamentals.PriorEPSDiluted),
		Sortino:          sortinoRatio(orderedReturns(series)),
		AlphaAnnualized:  annualizedAlpha(series, benchmark),
		CROCI:            croci(fundamentals),
	}
}

func priceToEarnings(lastClose float64, f *domain.FundamentalsSnapshot) domain.Metric {
	if lastClose <= 0 || f.EPSDiluted <= 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric(lastClose / f.EPSDiluted)
}

func evToEbitda(lastClose float64, f *domain.FundamentalsSnapshot) domain.Metric {
	ebitda := f.OperatingIncome + f.DepreciationAmortization
	if lastClose <= 0 || f.SharesOutstanding <= 0 || ebitda <= 0 {
		return domain.UndefinedMetric()
	}
	enterpriseValue := f.SharesOutstanding*lastClose + f.LongTermDebt - f.CashOnHand
	return domain.DefinedMetric(enterpriseValue / ebitda)
}

// growthYoY is (current - prior) / |prior|, in percent. Undefined when the
// prior period is zero or unreported.
func growthYoY(current, prior float64) domain.Metric {
	if prior == 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric((current - prior) / math.Abs(prior) * 100)
}

// sortinoRatio computes mean return over downside deviation, annualized by
// sqrt(252). Downside deviation uses only sub-target returns (target 0); a
// series with no sub-target returns is undefined rather than infinite.
func sortinoRatio(returns []float64) domain.Metric {
	if len(returns) < 2 {
		return domain.UndefinedMetric()
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return domain.UndefinedMetric()
	}

	downsideSquares := []float64{}
	for _, r := range returns {
		if r < 0 {
			downsideSquares = append(downsideSquares, r*r)
		}
	}
	if len(downsideSquares) == 0 {
		return domain.UndefinedMetric()
	}

	meanSquare, err := stats.Mean(downsideSquares)
	if err != nil {
		return domain.UndefinedMetric()
	}
	downsideDev := math.Sqrt(meanSquare)
	if downsideDev == 0 {
		return domain.UndefinedMetric()
	}

	return domain.DefinedMetric(mean / downsideDev * math.Sqrt(tradingDaysPerYear))
}

// annualizedAlpha regresses the symbol's daily returns on the benchmark's,
// pairing observations by calendar day. Alpha is the OLS intercept scaled
// to a yearly figure, in percent.
func annualizedAlpha(series domain.PriceSeries, benchmark domain.PriceSeries) domain.Metric {
	x, y := pairedReturns(series, benchmark)
	if len(x) < minAlphaObservations {
		return domain.UndefinedMetric()
	}

	covariance, err := stats.Covariance(x, y)
	if err != nil {
		return domain.UndefinedMetric()
	}
	variance, err := stats.SampleVariance(x)
	if err != nil || variance == 0 {
		return domain.UndefinedMetric()
	}
	meanX, err := stats.Mean(x)
	if err != nil {
		return domain.UndefinedMetric()
	}
	meanY, err := stats.Mean(y)
	if err != nil {
		return domain.UndefinedMetric()
	}

	beta := covariance / variance
	intercept := meanY - beta*meanX

	return domain.DefinedMetric(intercept * tradingDaysPerYear * 100)
}

func croci(f *domain.FundamentalsSnapshot) domain.Metric {
	investedCapital := f.ShareholderEquity + f.LongTermDebt
	if investedCapital <= 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric(f.OperatingCashFlow / investedCapital * 100)
}

func orderedReturns(series domain.PriceSeries) []float64 {
	returns := []float64{}
	for i := 1; i < len(series.Points); i++ {
		prev := series.Points[i-1].AdjClose
		if prev.IsZero() {
			continue
		}
		returns = append(returns, series.Points[i].AdjClose.Sub(prev).Div(prev).InexactFloat64())
	}
	return returns
}

// pairedReturns aligns the two return series on calendar day, preserving
// the symbol series' date order. x is the benchmark, y the symbol.
func pairedReturns(series, benchmark domain.PriceSeries) (x, y []float64) {
	benchmarkReturns := benchmark.DailyReturns()

	for i := 1; i < len(series.Points); i++ {
		prev := series.Points[i-1].AdjClose
		if prev.IsZero() {
			continue
		}
		date := series.Points[i].Date.Format(time.DateOnly)
		benchmarkReturn, ok := benchmarkReturns[date]
		if !ok {
			continue
		}
		x = append(x, benchmarkReturn)
		y = append(y, series.Points[i].AdjClose.Sub(prev).Div(prev).InexactFloat64())
	}

	return x, y
}

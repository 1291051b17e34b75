package internal

import (
	"testing"
	"time"

	"stockscreen/internal/domain"
	"stockscreen/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// seriesFromReturns builds a daily price series starting at 100 whose
// day-over-day returns match the given sequence.
func seriesFromReturns(symbol string, start time.Time, returns []float64) domain.PriceSeries {
	price := decimal.NewFromInt(100)
	points := []domain.PricePoint{{Date: start, AdjClose: price}}
	for i, r := range returns {
		price = price.Mul(decimal.NewFromFloat(1 + r))
		points = append(points, domain.PricePoint{
			Date:     start.AddDate(0, 0, i+1),
			AdjClose: price,
		})
	}
	return domain.PriceSeries{Symbol: symbol, Points: points}
}

func healthyFundamentals() *domain.FundamentalsSnapshot {
	return &domain.FundamentalsSnapshot{
		Symbol:                   "AAPL",
		FiscalYear:               2023,
		Revenue:                  120,
		PriorRevenue:             100,
		EPSDiluted:               2,
		PriorEPSDiluted:          1.5,
		OperatingIncome:          50,
		DepreciationAmortization: 10,
		OperatingCashFlow:        30,
		ShareholderEquity:        80,
		LongTermDebt:             20,
		CashOnHand:               10,
		SharesOutstanding:        10,
	}
}

func Test_priceToEarnings(t *testing.T) {
	t.Run("defined", func(t *testing.T) {
		m := priceToEarnings(30, &domain.FundamentalsSnapshot{EPSDiluted: 2})
		require.True(t, m.Defined)
		require.InDelta(t, 15, m.Value, 1e-9)
	})
	t.Run("zero eps is undefined", func(t *testing.T) {
		m := priceToEarnings(30, &domain.FundamentalsSnapshot{EPSDiluted: 0})
		require.False(t, m.Defined)
	})
	t.Run("negative eps is undefined", func(t *testing.T) {
		m := priceToEarnings(30, &domain.FundamentalsSnapshot{EPSDiluted: -1.2})
		require.False(t, m.Defined)
	})
}

func Test_evToEbitda(t *testing.T) {
	t.Run("defined", func(t *testing.T) {
		// EV = 10*10 + 20 - 10 = 110, EBITDA = 60
		m := evToEbitda(10, healthyFundamentals())
		require.True(t, m.Defined)
		require.InDelta(t, 110.0/60.0, m.Value, 1e-9)
	})
	t.Run("non-positive ebitda is undefined", func(t *testing.T) {
		f := healthyFundamentals()
		f.OperatingIncome = -20
		f.DepreciationAmortization = 5
		require.False(t, evToEbitda(10, f).Defined)
	})
	t.Run("missing share count is undefined", func(t *testing.T) {
		f := healthyFundamentals()
		f.SharesOutstanding = 0
		require.False(t, evToEbitda(10, f).Defined)
	})
}

func Test_growthYoY(t *testing.T) {
	t.Run("positive growth", func(t *testing.T) {
		m := growthYoY(120, 100)
		require.True(t, m.Defined)
		require.InDelta(t, 20, m.Value, 1e-9)
	})
	t.Run("negative prior uses absolute value", func(t *testing.T) {
		m := growthYoY(50, -100)
		require.True(t, m.Defined)
		require.InDelta(t, 150, m.Value, 1e-9)
	})
	t.Run("zero prior is undefined", func(t *testing.T) {
		require.False(t, growthYoY(50, 0).Defined)
	})
}

func Test_sortinoRatio(t *testing.T) {
	t.Run("annualized by sqrt of 252", func(t *testing.T) {
		// mean 0.005, downside deviation 0.01
		m := sortinoRatio([]float64{0.02, -0.01, 0.02, -0.01})
		require.True(t, m.Defined)
		require.InDelta(t, 0.5*15.8745, m.Value, 1e-3)
	})
	t.Run("no sub-target returns is undefined, not infinite", func(t *testing.T) {
		require.False(t, sortinoRatio([]float64{0.01, 0.02, 0.03}).Defined)
	})
	t.Run("too few returns is undefined", func(t *testing.T) {
		require.False(t, sortinoRatio([]float64{-0.01}).Defined)
	})
}

func Test_annualizedAlpha(t *testing.T) {
	start := util.NewDate(2023, 1, 1)

	benchmarkReturns := []float64{}
	symbolReturns := []float64{}
	for i := 0; i < 20; i++ {
		x := 0.01
		if i%2 == 1 {
			x = -0.01
		}
		benchmarkReturns = append(benchmarkReturns, x)
		// beta 1, intercept 0.002
		symbolReturns = append(symbolReturns, x+0.002)
	}

	t.Run("recovers the regression intercept", func(t *testing.T) {
		benchmark := seriesFromReturns("SPY", start, benchmarkReturns)
		series := seriesFromReturns("AAPL", start, symbolReturns)

		m := annualizedAlpha(series, benchmark)
		require.True(t, m.Defined)
		// 0.002 * 252 * 100
		require.InDelta(t, 50.4, m.Value, 0.5)
	})

	t.Run("too few paired observations is undefined", func(t *testing.T) {
		benchmark := seriesFromReturns("SPY", start, benchmarkReturns[:8])
		series := seriesFromReturns("AAPL", start, symbolReturns[:8])
		require.False(t, annualizedAlpha(series, benchmark).Defined)
	})

	t.Run("unpaired dates are dropped", func(t *testing.T) {
		benchmark := seriesFromReturns("SPY", start, benchmarkReturns)
		// symbol series shifted far past the benchmark window
		series := seriesFromReturns("AAPL", start.AddDate(1, 0, 0), symbolReturns)
		require.False(t, annualizedAlpha(series, benchmark).Defined)
	})
}

func Test_croci(t *testing.T) {
	t.Run("percent of invested capital", func(t *testing.T) {
		m := croci(healthyFundamentals())
		require.True(t, m.Defined)
		require.InDelta(t, 30, m.Value, 1e-9)
	})
	t.Run("non-positive invested capital is undefined", func(t *testing.T) {
		f := healthyFundamentals()
		f.ShareholderEquity = -30
		f.LongTermDebt = 10
		require.False(t, croci(f).Defined)
	})
}

func TestComputeMetrics(t *testing.T) {
	start := util.NewDate(2023, 1, 1)
	returns := []float64{}
	for i := 0; i < 20; i++ {
		r := 0.012
		if i%2 == 1 {
			r = -0.008
		}
		returns = append(returns, r)
	}
	benchmark := seriesFromReturns("SPY", start, make([]float64, 20))
	series := seriesFromReturns("AAPL", start, returns)

	t.Run("deterministic on identical inputs", func(t *testing.T) {
		first := ComputeMetrics(series, benchmark, healthyFundamentals())
		second := ComputeMetrics(series, benchmark, healthyFundamentals())
		require.Equal(t, "", cmp.Diff(first, second))
	})

	t.Run("one undefined metric does not poison the bundle", func(t *testing.T) {
		f := healthyFundamentals()
		f.EPSDiluted = 0
		f.PriorEPSDiluted = 0
		bundle := ComputeMetrics(series, benchmark, f)

		require.False(t, bundle.PE.Defined)
		require.False(t, bundle.EPSGrowthYoY.Defined)
		require.True(t, bundle.EVEBITDA.Defined)
		require.True(t, bundle.RevenueGrowthYoY.Defined)
		require.True(t, bundle.CROCI.Defined)
	})

	t.Run("empty price series leaves price metrics undefined", func(t *testing.T) {
		bundle := ComputeMetrics(domain.PriceSeries{Symbol: "AAPL"}, benchmark, healthyFundamentals())
		require.False(t, bundle.PE.Defined)
		require.False(t, bundle.EVEBITDA.Defined)
		require.False(t, bundle.Sortino.Defined)
		require.False(t, bundle.AlphaAnnualized.Defined)
	})
}

package internal

import (
	"testing"

	"stockscreen/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func definedBundle() domain.MetricBundle {
	return domain.MetricBundle{
		PE:               domain.DefinedMetric(10),
		EVEBITDA:         domain.DefinedMetric(20),
		RevenueGrowthYoY: domain.DefinedMetric(15),
		EPSGrowthYoY:     domain.DefinedMetric(12),
		Sortino:          domain.DefinedMetric(1.5),
		AlphaAnnualized:  domain.DefinedMetric(2),
		CROCI:            domain.DefinedMetric(20),
	}
}

func TestApplyThresholds(t *testing.T) {
	defaults := domain.DefaultThresholds()

	t.Run("valuation passes via the PE branch alone", func(t *testing.T) {
		// EV/EBITDA 20 is over the cutoff; PE 10 carries the family
		verdicts := ApplyThresholds(definedBundle(), defaults)

		require.Equal(t, "", cmp.Diff(domain.VerdictSet{
			Valuation:     true,
			Growth:        true,
			RiskAdjusted:  true,
			Alpha:         true,
			Profitability: true,
			Pass:          true,
		}, verdicts))
	})

	t.Run("croci below threshold fails the overall verdict", func(t *testing.T) {
		bundle := definedBundle()
		bundle.CROCI = domain.DefinedMetric(defaults.MinCROCI)

		verdicts := ApplyThresholds(bundle, defaults)
		require.False(t, verdicts.Profitability)
		require.False(t, verdicts.Pass)
		require.True(t, verdicts.Valuation)
		require.True(t, verdicts.Growth)
	})

	t.Run("undefined pe leaves valuation to ev/ebitda", func(t *testing.T) {
		bundle := definedBundle()
		bundle.PE = domain.UndefinedMetric()

		bundle.EVEBITDA = domain.DefinedMetric(11)
		require.True(t, ApplyThresholds(bundle, defaults).Valuation)

		bundle.EVEBITDA = domain.DefinedMetric(13)
		require.False(t, ApplyThresholds(bundle, defaults).Valuation)
	})

	t.Run("growth needs both revenue and eps", func(t *testing.T) {
		bundle := definedBundle()
		bundle.EPSGrowthYoY = domain.DefinedMetric(5)

		verdicts := ApplyThresholds(bundle, defaults)
		require.False(t, verdicts.Growth)
		require.False(t, verdicts.Pass)
	})

	t.Run("undefined metrics fail their family without panicking", func(t *testing.T) {
		verdicts := ApplyThresholds(domain.MetricBundle{}, defaults)
		require.Equal(t, "", cmp.Diff(domain.VerdictSet{}, verdicts))
	})

	t.Run("threshold values are strict cutoffs", func(t *testing.T) {
		bundle := definedBundle()
		bundle.Sortino = domain.DefinedMetric(defaults.MinSortino)
		require.False(t, ApplyThresholds(bundle, defaults).RiskAdjusted)

		bundle.Sortino = domain.DefinedMetric(defaults.MinSortino + 0.01)
		require.True(t, ApplyThresholds(bundle, defaults).RiskAdjusted)
	})
}

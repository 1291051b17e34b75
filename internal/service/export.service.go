package service

import (
	"fmt"
	"strconv"

	"stockscreen/internal/domain"

	"github.com/gocarina/gocsv"
)

// ScanRow is the spreadsheet shape of one passing result: the symbol, every
// metric, and the per-family verdict flags. Metric cells are formatted
// strings so an undefined metric exports as an empty cell instead of NaN.
type ScanRow struct {
	Ticker            string `csv:"ticker"`
	PE                string `csv:"pe"`
	EVEBITDA          string `csv:"ev_ebitda"`
	RevenueGrowthYoY  string `csv:"revenue_growth_yoy_pct"`
	EPSGrowthYoY      string `csv:"eps_growth_yoy_pct"`
	Sortino           string `csv:"sortino"`
	AlphaAnnualized   string `csv:"alpha_annualized_pct"`
	CROCI             string `csv:"croci_pct"`
	ValuationPass     bool   `csv:"valuation_pass"`
	GrowthPass        bool   `csv:"growth_pass"`
	RiskAdjustedPass  bool   `csv:"risk_adjusted_pass"`
	AlphaPass         bool   `csv:"alpha_pass"`
	ProfitabilityPass bool   `csv:"profitability_pass"`
}

// ToSpreadsheet serializes the ranked passing results, one row per result,
// preserving report order.
func ToSpreadsheet(report *domain.ScanRunReport) ([]byte, error) {
	rows := make([]ScanRow, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, rowFromResult(result))
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize scan report: %w", err)
	}
	return out, nil
}

// ParseSpreadsheet reads an artifact produced by ToSpreadsheet back into
// rows, closing the round trip for callers that re-ingest exports.
func ParseSpreadsheet(data []byte) ([]ScanRow, error) {
	rows := []ScanRow{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse scan spreadsheet: %w", err)
	}
	return rows, nil
}

// SheetValues renders the report as a value grid for the sheet-service
// upload, header row first.
func SheetValues(report *domain.ScanRunReport) [][]interface{} {
	values := [][]interface{}{{
		"ticker", "pe", "ev_ebitda", "revenue_growth_yoy_pct", "eps_growth_yoy_pct",
		"sortino", "alpha_annualized_pct", "croci_pct",
	}}
	for _, result := range report.Results {
		row := rowFromResult(result)
		values = append(values, []interface{}{
			row.Ticker, row.PE, row.EVEBITDA, row.RevenueGrowthYoY, row.EPSGrowthYoY,
			row.Sortino, row.AlphaAnnualized, row.CROCI,
		})
	}
	return values
}

func rowFromResult(result domain.ScanResult) ScanRow {
	return ScanRow{
		Ticker:            result.Symbol,
		PE:                formatMetric(result.Metrics.PE),
		EVEBITDA:          formatMetric(result.Metrics.EVEBITDA),
		RevenueGrowthYoY:  formatMetric(result.Metrics.RevenueGrowthYoY),
		EPSGrowthYoY:      formatMetric(result.Metrics.EPSGrowthYoY),
		Sortino:           formatMetric(result.Metrics.Sortino),
		AlphaAnnualized:   formatMetric(result.Metrics.AlphaAnnualized),
		CROCI:             formatMetric(result.Metrics.CROCI),
		ValuationPass:     result.Verdicts.Valuation,
		GrowthPass:        result.Verdicts.Growth,
		RiskAdjustedPass:  result.Verdicts.RiskAdjusted,
		AlphaPass:         result.Verdicts.Alpha,
		ProfitabilityPass: result.Verdicts.Profitability,
	}
}

func formatMetric(m domain.Metric) string {
	if !m.Defined {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', 4, 64)
}

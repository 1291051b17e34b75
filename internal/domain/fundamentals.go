package domain

// FundamentalsSnapshot carries the annual statement figures a screen needs,
// for the latest reported fiscal year and the prior comparable year. Values
// the provider did not report are left at zero; the metric engine maps those
// to undefined metrics rather than guessing.
type FundamentalsSnapshot struct {
	Symbol     string
	FiscalYear int

	Revenue      float64
	PriorRevenue float64

	EPSDiluted      float64
	PriorEPSDiluted float64

	OperatingIncome          float64
	DepreciationAmortization float64
	OperatingCashFlow        float64

	ShareholderEquity float64
	LongTermDebt      float64
	CashOnHand        float64
	SharesOutstanding float64
}

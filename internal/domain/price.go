package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PricePoint struct {
	Date     time.Time
	AdjClose decimal.Decimal
}

// PriceSeries holds daily adjusted closes for one symbol, oldest first.
// It is read-only once fetched; the gateway cache owns it for the run.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s PriceSeries) LastClose() (decimal.Decimal, bool) {
	if len(s.Points) == 0 {
		return decimal.Decimal{}, false
	}
	return s.Points[len(s.Points)-1].AdjClose, true
}

// DailyReturns computes simple day-over-day returns keyed by the date of the
// later observation. Dates are formatted with time.DateOnly so that series
// from different providers pair up on calendar day.
func (s PriceSeries) DailyReturns() map[string]float64 {
	out := make(map[string]float64, len(s.Points))
	for i := 1; i < len(s.Points); i++ {
		prev := s.Points[i-1].AdjClose
		if prev.IsZero() {
			continue
		}
		ret := s.Points[i].AdjClose.Sub(prev).Div(prev).InexactFloat64()
		out[s.Points[i].Date.Format(time.DateOnly)] = ret
	}
	return out
}

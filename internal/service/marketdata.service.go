package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"stockscreen/internal/domain"
	"stockscreen/internal/scanerr"
	"stockscreen/pkg/datajockey"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

/**

the gateway hides two providers behind one interface: Yahoo Finance for
daily adjusted closes, DataJockey for annual fundamentals. responses are
cached for the lifetime of the service value, which the orchestrator
creates fresh per run - nothing survives across runs.

a transient provider failure gets one retry after a short wait, then the
symbol is surfaced as skippable. a symbol with no data at all never
retries.

*/

type MarketDataService interface {
	FetchPriceSeries(ctx context.Context, symbol string, lookbackYears int) (domain.PriceSeries, error)
	FetchFundamentals(ctx context.Context, symbol string) (*domain.FundamentalsSnapshot, error)
}

type marketDataHandler struct {
	djClient   datajockey.Client
	fetchChart func(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error)
	retryWait  time.Duration
	now        func() time.Time

	mu                sync.Mutex
	priceCache        map[string]domain.PriceSeries
	fundamentalsCache map[string]*domain.FundamentalsSnapshot
}

func NewMarketDataService(djClient datajockey.Client) MarketDataService {
	return &marketDataHandler{
		djClient:          djClient,
		fetchChart:        fetchYahooChart,
		retryWait:         2 * time.Second,
		now:               time.Now,
		priceCache:        map[string]domain.PriceSeries{},
		fundamentalsCache: map[string]*domain.FundamentalsSnapshot{},
	}
}

func (h *marketDataHandler) FetchPriceSeries(ctx context.Context, symbol string, lookbackYears int) (domain.PriceSeries, error) {
	key := fmt.Sprintf("%s/%dy", symbol, lookbackYears)

	h.mu.Lock()
	if series, ok := h.priceCache[key]; ok {
		h.mu.Unlock()
		return series, nil
	}
	h.mu.Unlock()

	end := h.now().UTC()
	start := end.AddDate(-lookbackYears, 0, 0)

	points, err := h.fetchChart(ctx, symbol, start, end)
	if err != nil {
		if waitErr := h.waitForRetry(ctx); waitErr != nil {
			return domain.PriceSeries{}, waitErr
		}
		points, err = h.fetchChart(ctx, symbol, start, end)
	}
	if err != nil {
		return domain.PriceSeries{}, scanerr.ProviderError{Symbol: symbol, Err: err}
	}
	if len(points) == 0 {
		return domain.PriceSeries{}, scanerr.DataUnavailableError{Symbol: symbol, Reason: "no price history in lookback window"}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	series := domain.PriceSeries{Symbol: symbol, Points: points}

	// a concurrent fetch of the same key may have landed first; last write
	// wins and both values are equivalent
	h.mu.Lock()
	h.priceCache[key] = series
	h.mu.Unlock()

	return series, nil
}

func (h *marketDataHandler) FetchFundamentals(ctx context.Context, symbol string) (*domain.FundamentalsSnapshot, error) {
	h.mu.Lock()
	if snapshot, ok := h.fundamentalsCache[symbol]; ok {
		h.mu.Unlock()
		return snapshot, nil
	}
	h.mu.Unlock()

	resp, err := h.djClient.GetAnnualFinancials(ctx, symbol)
	if err != nil && !errors.Is(err, datajockey.ErrNoData) {
		if waitErr := h.waitForRetry(ctx); waitErr != nil {
			return nil, waitErr
		}
		resp, err = h.djClient.GetAnnualFinancials(ctx, symbol)
	}
	if errors.Is(err, datajockey.ErrNoData) {
		return nil, scanerr.DataUnavailableError{Symbol: symbol, Reason: "no fundamentals reported"}
	}
	if err != nil {
		return nil, scanerr.ProviderError{Symbol: symbol, Err: err}
	}

	snapshot, err := snapshotFromFields(symbol, resp.FinancialData.Annual)
	if err != nil {
		return nil, scanerr.DataUnavailableError{Symbol: symbol, Reason: err.Error()}
	}

	h.mu.Lock()
	h.fundamentalsCache[symbol] = snapshot
	h.mu.Unlock()

	return snapshot, nil
}

func (h *marketDataHandler) waitForRetry(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(h.retryWait):
		return nil
	}
}

func fetchYahooChart(_ context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	points := []domain.PricePoint{}
	for iter.Next() {
		points = append(points, domain.PricePoint{
			Date:     time.Unix(int64(iter.Bar().Timestamp), 0).UTC(),
			AdjClose: iter.Bar().AdjClose,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return points, nil
}

// snapshotFromFields resolves the latest reported fiscal year and its prior
// comparable out of DataJockey's year-keyed maps. Missing line items stay
// zero; the metric engine treats those as undefined.
func snapshotFromFields(symbol string, fields datajockey.Fields) (*domain.FundamentalsSnapshot, error) {
	year, ok := latestFiscalYear(fields)
	if !ok {
		return nil, fmt.Errorf("no fiscal years reported")
	}

	return &domain.FundamentalsSnapshot{
		Symbol:                   symbol,
		FiscalYear:               year,
		Revenue:                  intField(fields.Revenue, year),
		PriorRevenue:             intField(fields.Revenue, year-1),
		EPSDiluted:               floatField(fields.EpsDiluted, year),
		PriorEPSDiluted:          floatField(fields.EpsDiluted, year-1),
		OperatingIncome:          intField(fields.OperatingIncome, year),
		DepreciationAmortization: intField(fields.DepreciationAmortization, year),
		OperatingCashFlow:        intField(fields.OperatingCashFlow, year),
		ShareholderEquity:        intField(fields.ShareholderEquity, year),
		LongTermDebt:             intField(fields.LongTermDebt, year),
		CashOnHand:               intField(fields.CashOnHand, year),
		SharesOutstanding:        intField(fields.SharesOutstandingDiluted, year),
	}, nil
}

func latestFiscalYear(fields datajockey.Fields) (int, bool) {
	latest := 0
	for key := range fields.Revenue {
		if year, err := strconv.Atoi(key); err == nil && year > latest {
			latest = year
		}
	}
	for key := range fields.EpsDiluted {
		if year, err := strconv.Atoi(key); err == nil && year > latest {
			latest = year
		}
	}
	return latest, latest > 0
}

func intField(m map[string]int64, year int) float64 {
	return float64(m[strconv.Itoa(year)])
}

func floatField(m map[string]float64, year int) float64 {
	return m[strconv.Itoa(year)]
}

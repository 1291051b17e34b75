package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockscreen/internal"
	"stockscreen/internal/domain"
	"stockscreen/internal/logger"
	"stockscreen/internal/scanerr"
	"stockscreen/internal/service"

	"github.com/google/uuid"
)

const (
	defaultLookbackYears  = 3
	defaultBenchmark      = "SPY"
	defaultMaxConcurrency = 10
)

// ProgressFn receives incremental status as symbols finish. It may be
// invoked from the worker that finished the symbol; calls are serialized.
type ProgressFn func(done, total int, symbol string)

type ScanInput struct {
	Universe       []string
	Thresholds     domain.ThresholdConfig
	LookbackYears  int           // 0 means 3
	Benchmark      string        // "" means SPY
	MaxConcurrency int           // 0 means 10
	RunTimeout     time.Duration // 0 means no run-level timeout
	OnProgress     ProgressFn
}

type ScanService interface {
	RunScan(ctx context.Context, in ScanInput) (*domain.ScanRunReport, error)
}

type scanServiceHandler struct {
	MarketData service.MarketDataService
}

func NewScanService(marketData service.MarketDataService) ScanService {
	return scanServiceHandler{MarketData: marketData}
}

type workResult struct {
	Symbol string
	Result *domain.ScanResult
	Err    error
}

// RunScan screens every symbol in the universe: fetch, compute, filter,
// aggregate. Per-symbol failures land in the report's failure log and never
// abort the run. The only fatal conditions are an empty universe, a
// benchmark fetch failure, and every symbol failing on provider errors.
func (h scanServiceHandler) RunScan(ctx context.Context, in ScanInput) (*domain.ScanRunReport, error) {
	log := logger.FromContext(ctx)
	startedAt := time.Now().UTC()

	if len(in.Universe) == 0 {
		return nil, scanerr.ErrEmptyUniverse
	}

	lookbackYears := in.LookbackYears
	if lookbackYears == 0 {
		lookbackYears = defaultLookbackYears
	}
	benchmark := in.Benchmark
	if benchmark == "" {
		benchmark = defaultBenchmark
	}
	numGoroutines := in.MaxConcurrency
	if numGoroutines <= 0 {
		numGoroutines = defaultMaxConcurrency
	}
	if numGoroutines > len(in.Universe) {
		numGoroutines = len(in.Universe)
	}

	if in.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.RunTimeout)
		defer cancel()
	}

	log.Infow("starting scan",
		"universe_size", len(in.Universe),
		"benchmark", benchmark,
		"lookback_years", lookbackYears,
	)

	// the benchmark series backs every alpha regression; without it no
	// symbol can be screened, so this failure is the run's failure
	benchmarkSeries, err := h.MarketData.FetchPriceSeries(ctx, benchmark, lookbackYears)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch benchmark %s: %w", benchmark, err)
	}

	inputCh := make(chan string, len(in.Universe))
	resultCh := make(chan workResult, len(in.Universe))
	for _, symbol := range in.Universe {
		inputCh <- symbol
	}
	close(inputCh)

	var progressMu sync.Mutex
	completed := 0
	reportProgress := func(symbol string) {
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		if in.OnProgress != nil {
			in.OnProgress(completed, len(in.Universe), symbol)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case symbol, ok := <-inputCh:
					if !ok {
						return
					}
					if err := ctx.Err(); err != nil {
						resultCh <- workResult{Symbol: symbol, Err: err}
						continue
					}
					resultCh <- h.scanSymbol(ctx, symbol, benchmarkSeries, lookbackYears, in.Thresholds)
					reportProgress(symbol)
				}
			}
		}()
	}
	wg.Wait()
	close(resultCh)

	report := &domain.ScanRunReport{
		RunID:      uuid.New(),
		StartedAt:  startedAt,
		Universe:   in.Universe,
		Thresholds: in.Thresholds,
	}

	providerFailures := 0
	for res := range resultCh {
		switch {
		case res.Err == nil:
			if res.Result.Verdicts.Pass {
				report.Results = append(report.Results, *res.Result)
			} else {
				report.Rejected = append(report.Rejected, *res.Result)
			}
		case errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded):
			// run was cut short; the symbol stays unprocessed rather than
			// appearing as a data failure
			log.Debugw("symbol skipped by cancellation", "symbol", res.Symbol)
		default:
			if scanerr.IsProviderError(res.Err) {
				providerFailures++
			}
			log.Warnw("symbol skipped", "symbol", res.Symbol, "reason", res.Err.Error())
			report.Failures = append(report.Failures, domain.ScanFailure{
				Symbol: res.Symbol,
				Reason: res.Err.Error(),
			})
		}
	}

	if providerFailures == len(in.Universe) {
		return nil, scanerr.ProviderError{Symbol: benchmark, Err: errors.New("every symbol failed with a provider error")}
	}

	rankResults(report)

	log.Infow("scan complete",
		"run_id", report.RunID,
		"passed", len(report.Results),
		"rejected", len(report.Rejected),
		"failed", len(report.Failures),
	)

	return report, nil
}

func (h scanServiceHandler) scanSymbol(
	ctx context.Context,
	symbol string,
	benchmark domain.PriceSeries,
	lookbackYears int,
	thresholds domain.ThresholdConfig,
) workResult {
	series, err := h.MarketData.FetchPriceSeries(ctx, symbol, lookbackYears)
	if err != nil {
		return workResult{Symbol: symbol, Err: err}
	}

	fundamentals, err := h.MarketData.FetchFundamentals(ctx, symbol)
	if err != nil {
		return workResult{Symbol: symbol, Err: err}
	}

	bundle := internal.ComputeMetrics(series, benchmark, fundamentals)
	verdicts := internal.ApplyThresholds(bundle, thresholds)

	return workResult{
		Symbol: symbol,
		Result: &domain.ScanResult{
			Symbol:   symbol,
			Metrics:  bundle,
			Verdicts: verdicts,
		},
	}
}

// rankResults orders passing symbols by annualized alpha descending, ties
// broken by symbol so identical inputs always produce identical reports.
// Rejected results and failures are ordered by symbol.
func rankResults(report *domain.ScanRunReport) {
	sort.Slice(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.Metrics.AlphaAnnualized.Value != b.Metrics.AlphaAnnualized.Value {
			return a.Metrics.AlphaAnnualized.Value > b.Metrics.AlphaAnnualized.Value
		}
		return a.Symbol < b.Symbol
	})
	sort.Slice(report.Rejected, func(i, j int) bool {
		return report.Rejected[i].Symbol < report.Rejected[j].Symbol
	})
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Symbol < report.Failures[j].Symbol
	})
}

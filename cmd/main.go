package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"stockscreen/internal/app"
	"stockscreen/internal/domain"
	"stockscreen/internal/logger"
	"stockscreen/internal/service"
	"stockscreen/pkg/datajockey"
	"stockscreen/pkg/gsheets"

	"github.com/spf13/cobra"
)

var flags struct {
	tickers       string
	benchmark     string
	lookbackYears int
	concurrency   int
	timeout       time.Duration
	outPath       string

	maxPE            float64
	maxEVEBITDA      float64
	minRevenueGrowth float64
	minEPSGrowth     float64
	minSortino       float64
	minAlpha         float64
	minCROCI         float64

	sheetId        string
	sheetCredsPath string
}

var rootCmd = &cobra.Command{
	Use:   "stockscreen",
	Short: "Screen a stock universe against valuation, growth, risk, alpha and profitability thresholds",
	RunE:  runScan,
}

func init() {
	defaults := domain.DefaultThresholds()

	rootCmd.Flags().StringVar(&flags.tickers, "tickers", "", "tickers to scan, separated by space/comma/newline (default: S&P 500)")
	rootCmd.Flags().StringVar(&flags.benchmark, "benchmark", "SPY", "benchmark symbol for the alpha regression")
	rootCmd.Flags().IntVar(&flags.lookbackYears, "lookback-years", 3, "price history window in years")
	rootCmd.Flags().IntVar(&flags.concurrency, "concurrency", 10, "max symbols scanned concurrently")
	rootCmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "optional run-level soft timeout (e.g. 5m)")
	rootCmd.Flags().StringVar(&flags.outPath, "out", "scan_results.csv", "spreadsheet output path")

	rootCmd.Flags().Float64Var(&flags.maxPE, "max-pe", defaults.MaxPE, "max trailing PE")
	rootCmd.Flags().Float64Var(&flags.maxEVEBITDA, "max-ev-ebitda", defaults.MaxEVEBITDA, "max EV/EBITDA")
	rootCmd.Flags().Float64Var(&flags.minRevenueGrowth, "min-revenue-growth", defaults.MinRevenueGrowth, "min revenue YoY growth, percent")
	rootCmd.Flags().Float64Var(&flags.minEPSGrowth, "min-eps-growth", defaults.MinEPSGrowth, "min EPS YoY growth, percent")
	rootCmd.Flags().Float64Var(&flags.minSortino, "min-sortino", defaults.MinSortino, "min annualized Sortino ratio")
	rootCmd.Flags().Float64Var(&flags.minAlpha, "min-alpha", defaults.MinAlpha, "min annualized alpha, percent")
	rootCmd.Flags().Float64Var(&flags.minCROCI, "min-croci", defaults.MinCROCI, "min CROCI, percent")

	rootCmd.Flags().StringVar(&flags.sheetId, "sheet-id", "", "optional Google Sheets spreadsheet id to upload to")
	rootCmd.Flags().StringVar(&flags.sheetCredsPath, "sheet-credentials", "", "path to a service-account JSON for the sheet upload")
}

func runScan(cmd *cobra.Command, _ []string) error {
	log := logger.New()
	ctx := context.WithValue(cmd.Context(), logger.ContextKey, log)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	universe, err := resolveUniverse(ctx, httpClient)
	if err != nil {
		return err
	}

	marketData := service.NewMarketDataService(datajockey.Client{
		HttpClient: httpClient,
		ApiKey:     os.Getenv("DATAJOCKEY_API_KEY"),
	})
	scanner := app.NewScanService(marketData)

	report, err := scanner.RunScan(ctx, app.ScanInput{
		Universe:       universe,
		Thresholds:     thresholdsFromFlags(),
		LookbackYears:  flags.lookbackYears,
		Benchmark:      flags.benchmark,
		MaxConcurrency: flags.concurrency,
		RunTimeout:     flags.timeout,
		OnProgress: func(done, total int, symbol string) {
			fmt.Fprintf(os.Stderr, "\rscanned %d/%d (%s)      ", done, total, symbol)
		},
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	printReport(report)

	artifact, err := service.ToSpreadsheet(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flags.outPath, artifact, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.outPath, err)
	}
	fmt.Printf("wrote %s\n", flags.outPath)

	// upload failures are reported but never fail the scan
	if flags.sheetId != "" {
		if err := uploadToSheet(ctx, report); err != nil {
			log.Warnw("sheet upload failed", "error", err)
		} else {
			fmt.Println("uploaded results to Google Sheets")
		}
	}

	return nil
}

func resolveUniverse(ctx context.Context, httpClient *http.Client) ([]string, error) {
	if flags.tickers != "" {
		return service.ParseTickerList(flags.tickers), nil
	}
	return service.NewUniverseService(httpClient).SP500(ctx)
}

func thresholdsFromFlags() domain.ThresholdConfig {
	return domain.ThresholdConfig{
		MaxPE:            flags.maxPE,
		MaxEVEBITDA:      flags.maxEVEBITDA,
		MinRevenueGrowth: flags.minRevenueGrowth,
		MinEPSGrowth:     flags.minEPSGrowth,
		MinSortino:       flags.minSortino,
		MinAlpha:         flags.minAlpha,
		MinCROCI:         flags.minCROCI,
	}
}

func uploadToSheet(ctx context.Context, report *domain.ScanRunReport) error {
	if flags.sheetCredsPath == "" {
		return fmt.Errorf("--sheet-credentials is required with --sheet-id")
	}
	creds, err := os.ReadFile(flags.sheetCredsPath)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	client, err := gsheets.NewClient(ctx, creds, flags.sheetId)
	if err != nil {
		return err
	}
	return client.ReplaceSheet(ctx, service.SheetValues(report))
}

func printReport(report *domain.ScanRunReport) {
	fmt.Printf("%d stocks passed the screen (run %s)\n", len(report.Results), report.RunID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tPE\tEV/EBITDA\tREV YoY%\tEPS YoY%\tSORTINO\tALPHA%\tCROCI%")
	for _, result := range report.Results {
		m := result.Metrics
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			result.Symbol,
			formatCell(m.PE), formatCell(m.EVEBITDA),
			formatCell(m.RevenueGrowthYoY), formatCell(m.EPSGrowthYoY),
			formatCell(m.Sortino), formatCell(m.AlphaAnnualized), formatCell(m.CROCI),
		)
	}
	w.Flush()

	if len(report.Failures) > 0 {
		fmt.Printf("\n%d tickers skipped:\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Printf("  %s: %s\n", failure.Symbol, failure.Reason)
		}
	}
}

func formatCell(m domain.Metric) string {
	if !m.Defined {
		return "-"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

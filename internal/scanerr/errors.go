// Package scanerr defines the error taxonomy shared across the scan
// pipeline. Per-symbol errors (DataUnavailable, Provider) are recorded in
// the run's failure log and never abort a run; only ErrEmptyUniverse and a
// total provider outage are fatal to RunScan.
package scanerr

import (
	"errors"
	"fmt"
)

var ErrEmptyUniverse = errors.New("universe contains no tickers")

// DataUnavailableError means the provider has no data for the symbol and
// window. The symbol is skipped and logged; the run continues.
type DataUnavailableError struct {
	Symbol string
	Reason string
}

func (e DataUnavailableError) Error() string {
	return fmt.Sprintf("no data available for %s: %s", e.Symbol, e.Reason)
}

// ProviderError wraps a transient network or service failure. The gateway
// retries once before surfacing it.
type ProviderError struct {
	Symbol string
	Err    error
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("provider failure for %s: %v", e.Symbol, e.Err)
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// SheetUploadError is non-fatal: the spreadsheet artifact already produced
// stays valid when the upload fails.
type SheetUploadError struct {
	Err error
}

func (e SheetUploadError) Error() string {
	return fmt.Sprintf("sheet upload failed: %v", e.Err)
}

func (e SheetUploadError) Unwrap() error {
	return e.Err
}

func IsDataUnavailable(err error) bool {
	var target DataUnavailableError
	return errors.As(err, &target)
}

func IsProviderError(err error) bool {
	var target ProviderError
	return errors.As(err, &target)
}

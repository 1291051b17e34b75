package datajockey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoData is returned when DataJockey has no financial data for a ticker.
var ErrNoData = errors.New("no financial data for ticker")

type Client struct {
	HttpClient *http.Client
	ApiKey     string
	// BaseUrl overrides the production endpoint in tests.
	BaseUrl string
}

const defaultBaseUrl = "https://api.datajockey.io"

// Fields holds annual statement line items keyed by fiscal year ("2023").
type Fields struct {
	Revenue                  map[string]int64   `json:"revenue"`
	OperatingIncome          map[string]int64   `json:"operating_income"`
	NetIncome                map[string]int64   `json:"net_income"`
	EpsDiluted               map[string]float64 `json:"eps_diluted"`
	SharesOutstandingDiluted map[string]int64   `json:"shares_outstanding_diluted"`
	OperatingCashFlow        map[string]int64   `json:"operating_cash_flow"`
	ShareholderEquity        map[string]int64   `json:"shareholder_equity"`
	LongTermDebt             map[string]int64   `json:"long_term_debt"`
	CashOnHand               map[string]int64   `json:"cash_on_hand"`
	DepreciationAmortization map[string]int64   `json:"depreciation_amortization"`
}

type FinancialResponse struct {
	Currency    string `json:"currency"`
	CompanyInfo struct {
		CIK    string `json:"cik"`
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"company_info"`
	FinancialData struct {
		Annual Fields `json:"annual"`
	} `json:"financial_data"`
}

// GetAnnualFinancials fetches annual statement data for a symbol. It does no
// retrying of its own; transient failures surface as plain errors for the
// caller's retry policy.
func (c Client) GetAnnualFinancials(ctx context.Context, symbol string) (*FinancialResponse, error) {
	base := c.BaseUrl
	if base == "" {
		base = defaultBaseUrl
	}
	url := fmt.Sprintf("%s/v0/company/financials?apikey=%s&ticker=%s&period=Y", base, c.ApiKey, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	} else if response.StatusCode != http.StatusOK {
		type errResponse struct {
			Error string `json:"error"`
		}
		errJson := errResponse{}
		err = json.Unmarshal(responseBytes, &errJson)
		if err != nil {
			return nil, fmt.Errorf("received status code %d and failed to read error: %w", response.StatusCode, err)
		}
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, errJson.Error)
	}

	var responseJson FinancialResponse
	err = json.Unmarshal(responseBytes, &responseJson)
	if err != nil {
		return nil, err
	}
	if len(responseJson.FinancialData.Annual.Revenue) == 0 && len(responseJson.FinancialData.Annual.EpsDiluted) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	return &responseJson, nil
}

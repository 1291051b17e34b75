package datajockey

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAnnualFinancials(t *testing.T) {
	t.Run("parses annual fields", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path + "?" + r.URL.RawQuery
			fmt.Fprint(w, `{
				"currency": "USD",
				"company_info": {"cik": "320193", "ticker": "AAPL", "name": "Apple Inc."},
				"financial_data": {"annual": {
					"revenue": {"2023": 1000},
					"eps_diluted": {"2023": 6.1}
				}}
			}`)
		}))
		defer server.Close()

		c := Client{HttpClient: server.Client(), ApiKey: "key123", BaseUrl: server.URL}
		resp, err := c.GetAnnualFinancials(context.Background(), "AAPL")
		require.NoError(t, err)

		require.Equal(t, "/v0/company/financials?apikey=key123&ticker=AAPL&period=Y", gotPath)
		require.Equal(t, "AAPL", resp.CompanyInfo.Ticker)
		require.Equal(t, int64(1000), resp.FinancialData.Annual.Revenue["2023"])
		require.Equal(t, 6.1, resp.FinancialData.Annual.EpsDiluted["2023"])
	})

	t.Run("404 means no data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := Client{HttpClient: server.Client(), ApiKey: "key123", BaseUrl: server.URL}
		_, err := c.GetAnnualFinancials(context.Background(), "NOPE")
		require.ErrorIs(t, err, ErrNoData)
	})

	t.Run("empty annual data means no data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"financial_data": {"annual": {}}}`)
		}))
		defer server.Close()

		c := Client{HttpClient: server.Client(), ApiKey: "key123", BaseUrl: server.URL}
		_, err := c.GetAnnualFinancials(context.Background(), "SHELL")
		require.ErrorIs(t, err, ErrNoData)
	})

	t.Run("error body surfaces in the message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, `{"error": "quota exhausted"}`)
		}))
		defer server.Close()

		c := Client{HttpClient: server.Client(), ApiKey: "key123", BaseUrl: server.URL}
		_, err := c.GetAnnualFinancials(context.Background(), "AAPL")
		require.ErrorContains(t, err, "quota exhausted")
	})
}

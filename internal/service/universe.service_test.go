package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const constituentsPage = `
<html><body>
<table id="constituents">
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td>MMM</td><td>3M</td></tr>
<tr><td>AAPL</td><td>Apple</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
<tr><td>AAPL</td><td>Apple (duplicate row)</td></tr>
</tbody>
</table>
</body></html>`

func TestSP500(t *testing.T) {
	t.Run("scrapes, de-duplicates and normalizes symbols", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, constituentsPage)
		}))
		defer server.Close()

		h := universeServiceHandler{HttpClient: server.Client(), sourceUrl: server.URL}
		symbols, err := h.SP500(context.Background())
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff([]string{"MMM", "AAPL", "BRK-B"}, symbols))
	})

	t.Run("missing table is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
		}))
		defer server.Close()

		h := universeServiceHandler{HttpClient: server.Client(), sourceUrl: server.URL}
		_, err := h.SP500(context.Background())
		require.Error(t, err)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		h := universeServiceHandler{HttpClient: server.Client(), sourceUrl: server.URL}
		_, err := h.SP500(context.Background())
		require.Error(t, err)
	})
}

func TestParseTickerList(t *testing.T) {
	t.Run("mixed separators", func(t *testing.T) {
		symbols := ParseTickerList("aapl, msft\ngoogl\tnvda amzn")
		require.Equal(t, "", cmp.Diff([]string{"AAPL", "MSFT", "GOOGL", "NVDA", "AMZN"}, symbols))
	})

	t.Run("duplicates removed, order preserved", func(t *testing.T) {
		symbols := ParseTickerList("msft aapl MSFT msft")
		require.Equal(t, "", cmp.Diff([]string{"MSFT", "AAPL"}, symbols))
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, ParseTickerList("  ,\n "))
	})
}

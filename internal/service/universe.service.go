package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const sp500ConstituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

type UniverseService interface {
	SP500(ctx context.Context) ([]string, error)
}

type universeServiceHandler struct {
	HttpClient *http.Client
	// sourceUrl overrides the Wikipedia constituents page in tests
	sourceUrl string
}

func NewUniverseService(httpClient *http.Client) UniverseService {
	return universeServiceHandler{
		HttpClient: httpClient,
		sourceUrl:  sp500ConstituentsURL,
	}
}

// SP500 scrapes the current S&P 500 membership from Wikipedia's
// constituents table. Symbols come back in table order, de-duplicated, with
// share-class dots converted to the dash form the price provider expects
// (BRK.B -> BRK-B).
func (h universeServiceHandler) SP500(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.sourceUrl, nil)
	if err != nil {
		return nil, err
	}
	response, err := h.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch constituents page: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constituents page returned status %d", response.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	symbols := []string{}
	seen := map[string]struct{}{}
	doc.Find("table#constituents tbody tr td:first-child").Each(func(_ int, cell *goquery.Selection) {
		symbol := strings.ToUpper(strings.TrimSpace(cell.Text()))
		symbol = strings.ReplaceAll(symbol, ".", "-")
		if symbol == "" {
			return
		}
		if _, ok := seen[symbol]; ok {
			return
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	})

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols found in constituents table")
	}

	return symbols, nil
}

// ParseTickerList turns free-form user input into an ordered, de-duplicated
// symbol list. Spaces, commas and newlines all separate.
func ParseTickerList(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\r' || r == '\t'
	})

	symbols := []string{}
	seen := map[string]struct{}{}
	for _, field := range fields {
		symbol := strings.ToUpper(strings.TrimSpace(field))
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}

	return symbols
}

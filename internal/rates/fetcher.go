// Package rates builds the currency conversion table used by summaries.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL   = "https://open.er-api.com/v6/latest"
	DefaultReference = "INR"

	fetchTimeout = 10 * time.Second
)

var ErrUnsuccessful = errors.New("rate service reported failure")

type latestResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Fetcher reads live rates from an exchange-rate service.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewFetcher(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch requests rates relative to reference and converts them into a Table.
func (f *Fetcher) Fetch(ctx context.Context, reference string) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if body.Result != "success" {
		return nil, ErrUnsuccessful
	}

	return tableFromRates(reference, body.Rates), nil
}

// Result is the outcome of Load. Warning is set when Table is the fallback.
type Result struct {
	Table    Table
	Fallback bool
	Warning  string
}

// Load fetches live rates and falls back to the fixed table on any failure.
func (f *Fetcher) Load(ctx context.Context, reference string) Result {
	table, err := f.Fetch(ctx, reference)
	if err != nil {
		return Result{
			Table:    FallbackTable(reference),
			Fallback: true,
			Warning:  "Live exchange rates unavailable, using fallback rates: " + err.Error(),
		}
	}
	return Result{Table: table}
}

// tableFromRates inverts "units per reference" into "reference per unit".
func tableFromRates(reference string, rates map[string]float64) Table {
	table := Table{}
	for _, c := range Currencies {
		// shared symbols convert at their first code's rate
		code, _ := CodeForSymbol(c.Symbol)
		rate, ok := rates[code]
		if !ok || rate <= 0 {
			continue
		}
		table[c.Symbol] = decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(rate), 8)
	}
	if symbol, ok := SymbolForCode(reference); ok {
		table[symbol] = decimal.NewFromInt(1)
	}
	return table
}

package rates

import "github.com/shopspring/decimal"

// Currency pairs a display symbol with its ISO 4217 code.
type Currency struct {
	Symbol string
	Code   string
	Name   string
}

// Currencies lists the symbols the client offers. ¥ is shared by JPY and CNY;
// lookups by symbol resolve to the first entry.
var Currencies = []Currency{
	{Symbol: "₹", Code: "INR", Name: "Indian Rupee"},
	{Symbol: "$", Code: "USD", Name: "US Dollar"},
	{Symbol: "€", Code: "EUR", Name: "Euro"},
	{Symbol: "£", Code: "GBP", Name: "British Pound"},
	{Symbol: "¥", Code: "JPY", Name: "Japanese Yen"},
	{Symbol: "A$", Code: "AUD", Name: "Australian Dollar"},
	{Symbol: "C$", Code: "CAD", Name: "Canadian Dollar"},
	{Symbol: "CHF", Code: "CHF", Name: "Swiss Franc"},
	{Symbol: "¥", Code: "CNY", Name: "Chinese Yuan"},
	{Symbol: "HK$", Code: "HKD", Name: "Hong Kong Dollar"},
	{Symbol: "NZ$", Code: "NZD", Name: "New Zealand Dollar"},
	{Symbol: "S$", Code: "SGD", Name: "Singapore Dollar"},
	{Symbol: "kr", Code: "SEK", Name: "Swedish Krona"},
	{Symbol: "R", Code: "ZAR", Name: "South African Rand"},
	{Symbol: "R$", Code: "BRL", Name: "Brazilian Real"},
	{Symbol: "₽", Code: "RUB", Name: "Russian Ruble"},
}

// CodeForSymbol returns the ISO code for symbol.
func CodeForSymbol(symbol string) (string, bool) {
	for _, c := range Currencies {
		if c.Symbol == symbol {
			return c.Code, true
		}
	}
	return "", false
}

// SymbolForCode returns the display symbol for an ISO code.
func SymbolForCode(code string) (string, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c.Symbol, true
		}
	}
	return "", false
}

// Table maps a currency symbol to the multiplier converting it into the reference currency.
type Table map[string]decimal.Decimal

// Multiplier returns the multiplier for symbol. Unmapped symbols are treated as
// already being in the reference currency.
func (t Table) Multiplier(symbol string) decimal.Decimal {
	if m, ok := t[symbol]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

// fallbackINR holds rupees per unit of each symbol, used when the rate service is unreachable.
var fallbackINR = map[string]string{
	"₹":   "1",
	"$":   "83.1",
	"€":   "88.5",
	"£":   "102.5",
	"¥":   "0.56",
	"A$":  "53.6",
	"C$":  "60.1",
	"CHF": "91.5",
	"HK$": "10.6",
	"NZ$": "49.3",
	"S$":  "61.2",
	"kr":  "7.6",
	"R":   "4.4",
	"R$":  "16.9",
	"₽":   "0.9",
}

// FallbackTable returns the fixed table expressed in the reference currency
// code. Unknown references fall back to rupees.
func FallbackTable(reference string) Table {
	base := decimal.NewFromInt(1)
	if symbol, ok := SymbolForCode(reference); ok {
		if perUnit, ok := fallbackINR[symbol]; ok {
			base = decimal.RequireFromString(perUnit)
		}
	}

	table := make(Table, len(fallbackINR))
	for symbol, perUnit := range fallbackINR {
		table[symbol] = decimal.RequireFromString(perUnit).DivRound(base, 8)
	}
	return table
}

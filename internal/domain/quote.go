// Package domain contains core business entities and rules.
package domain

import (
	"math"
	"strings"
)

// Symbol characters that the upstream request formats cannot carry.
const (
	// ReservedSymbolPrefix marks index symbols, which quote providers reject.
	ReservedSymbolPrefix = "^"

	// SymbolSeparator splits multi-symbol requests in the CSV format.
	SymbolSeparator = ","
)

// Quote is a normalized price record for a ticker symbol.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Symbol is the uppercased ticker symbol.
	Symbol string

	// Name is the company name reported by the provider.
	Name string

	// Price is the last traded price. Always finite and non-negative.
	Price float64
}

// ValidateSymbol applies the lookup rejection rules to a raw symbol.
// It does not touch the network.
func ValidateSymbol(symbol string) error {
	switch {
	case strings.TrimSpace(symbol) == "":
		return NewValidationError("symbol", "must not be empty")
	case strings.HasPrefix(symbol, ReservedSymbolPrefix):
		return NewValidationErrorWithValue("symbol", "must not start with "+ReservedSymbolPrefix, symbol)
	case strings.Contains(symbol, SymbolSeparator):
		return NewValidationErrorWithValue("symbol", "must not contain "+SymbolSeparator, symbol)
	}

	return nil
}

// NormalizeSymbol returns the canonical (uppercased) form of a symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(symbol)
}

// NewQuote builds a Quote, enforcing the symbol and price invariants.
func NewQuote(symbol, name string, price float64) (*Quote, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, NewMalformedError("quote", "price must be a finite, non-negative number")
	}

	return &Quote{
		Symbol: NormalizeSymbol(symbol),
		Name:   name,
		Price:  price,
	}, nil
}

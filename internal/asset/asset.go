// Package asset implements the fixed-point asset codec.
//
// An asset string is the canonical textual form "<integer>.<fraction> <SYMBOL>",
// e.g. "123.456 GOLOS". The number of fractional digits (the scale) is fixed
// per semantic quantity and is not self-describing from one string alone: the
// vesting share unit always carries 6, the liquid token always 3.
package asset

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/golos-tools/wallet-indexer/internal/domain"
)

// Asset is a fixed-point decimal quantity bound to a currency symbol.
// Amount holds integer units scaled by 10^Decs.
type Asset struct {
	Symbol string
	Amount int64
	Decs   int32
}

// Decimal is the arbitrary-precision view of an asset string. Raw keeps the
// original quantity literal so queries can echo it back untouched.
type Decimal struct {
	Raw    string
	Value  decimal.Decimal
	Symbol string
}

// Decode parses canonical asset text into its integer-unit form.
//
// Every malformed input (missing space separator, missing decimal point,
// non-numeric amount, empty symbol) fails with a malformed-asset error. The
// original service silently produced no value on some of these paths; decoding
// here is total by design.
func Decode(text string) (Asset, error) {
	amountPart, symbol, ok := splitAsset(text)
	if !ok {
		return Asset{}, domain.MalformedAsset(text)
	}

	intPart, fracPart, ok := strings.Cut(amountPart, ".")
	if !ok || intPart == "" || fracPart == "" || strings.Contains(fracPart, ".") {
		return Asset{}, domain.MalformedAsset(text)
	}

	amount, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return Asset{}, domain.MalformedAsset(text)
	}

	return Asset{
		Symbol: symbol,
		Amount: amount,
		Decs:   int32(len(fracPart)),
	}, nil
}

// String renders the asset back to canonical text with exactly Decs
// fractional digits. It is the left inverse of Decode for well-formed input.
func (a Asset) String() string {
	return FormatQuantity(a.Amount, a.Decs, a.Symbol)
}

// FormatQuantity shifts integer units by -decs decimal places and appends the
// symbol. Used for conversion outputs.
func FormatQuantity(amount int64, decs int32, symbol string) string {
	return decimal.New(amount, -decs).StringFixed(decs) + " " + symbol
}

// ParseDecimal parses asset text keeping the original quantity literal
// alongside an arbitrary-precision value for arithmetic.
func ParseDecimal(text string) (Decimal, error) {
	if text == "" {
		return Decimal{}, domain.MalformedAsset(text)
	}

	amountPart, symbol, ok := splitAsset(text)
	if !ok {
		return Decimal{}, domain.MalformedAsset(text)
	}

	value, err := decimal.NewFromString(amountPart)
	if err != nil {
		return Decimal{}, domain.MalformedAsset(text)
	}

	return Decimal{
		Raw:    amountPart,
		Value:  value,
		Symbol: symbol,
	}, nil
}

// SymbolOf extracts just the currency symbol from asset text.
func SymbolOf(text string) (string, error) {
	_, symbol, ok := splitAsset(text)
	if !ok {
		return "", domain.MalformedAsset(text)
	}
	return symbol, nil
}

func splitAsset(text string) (amount, symbol string, ok bool) {
	amount, symbol, ok = strings.Cut(text, " ")
	if !ok || amount == "" || symbol == "" || strings.Contains(symbol, " ") {
		return "", "", false
	}
	return amount, symbol, true
}

// Package money normalizes decimal literals carried on currency-formatted
// OpenAPI schemas (format "decimal"/"money"/"currency", lowered to
// hir.Currency) so extractor tests can assert on a canonical string form
// rather than whatever the spec author happened to type.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Normalize parses s as a decimal literal and returns its canonical string
// form (no exponent, no trailing zeros beyond what the input specified).
// This mirrors the precision rust_decimal::Decimal preserves on the
// generated side, so a Go-side fixture and the emitted Rust default agree.
func Normalize(s string) (string, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("money: invalid decimal literal %q: %w", s, err)
	}
	return d.String(), nil
}

// Equal reports whether two decimal literals denote the same value,
// independent of formatting (e.g. "1.50" and "1.5").
func Equal(a, b string) (bool, error) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return false, fmt.Errorf("money: invalid decimal literal %q: %w", a, err)
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return false, fmt.Errorf("money: invalid decimal literal %q: %w", b, err)
	}
	return da.Equal(db), nil
}

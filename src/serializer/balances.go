package serializer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// maxTokenDecimals is the largest precision an ERC-20 can declare (uint8).
const maxTokenDecimals = 255

// maxBalanceDigits bounds the integer digits of a raw balance. A uint256
// amount has at most 78.
const maxBalanceDigits = 80

// DecimalsLookup resolves the decimal precision of a token.
type DecimalsLookup interface {
	TokenDecimals(ctx context.Context, tokenAddress string) (int, error)
}

// DecimalsLookupFunc adapts a plain function to DecimalsLookup.
type DecimalsLookupFunc func(ctx context.Context, tokenAddress string) (int, error)

func (f DecimalsLookupFunc) TokenDecimals(ctx context.Context, tokenAddress string) (int, error) {
	return f(ctx, tokenAddress)
}

// ScaleBalance divides a raw non-negative integer amount by 10^decimals and
// renders the result with exactly decimals fractional digits, e.g.
// ScaleBalance("1000000", 6) == "1.000000".
func ScaleBalance(raw string, decimals int) (string, error) {
	if decimals < 0 || decimals > maxTokenDecimals {
		return "", fmt.Errorf("decimals %d out of range [0, %d]", decimals, maxTokenDecimals)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	// checked before IsInteger and StringFixed, which both expand the exponent
	if exp := amount.Exponent(); exp > maxBalanceDigits || exp < -maxBalanceDigits {
		return "", fmt.Errorf("exponent %d out of range [-%d, %d]", exp, maxBalanceDigits, maxBalanceDigits)
	}
	if !amount.IsInteger() {
		return "", errors.New("not an integer")
	}
	if digits := amount.NumDigits() + int(amount.Exponent()); digits > maxBalanceDigits {
		return "", fmt.Errorf("%d digits exceeds the %d digit limit", digits, maxBalanceDigits)
	}
	if amount.IsNegative() {
		return "", errors.New("negative amount")
	}

	return amount.Shift(-int32(decimals)).StringFixed(int32(decimals)), nil
}

// NormalizeBalances converts every raw balance into token units using the
// decimals of its key. It returns either a complete new map or an error.
func NormalizeBalances(ctx context.Context, balances map[string]string, lookup DecimalsLookup) (map[string]string, error) {
	return normalizeBalances(ctx, "", balances, lookup)
}

func normalizeBalances(ctx context.Context, path string, balances map[string]string, lookup DecimalsLookup) (map[string]string, error) {
	tokens := make([]string, 0, len(balances))
	for token := range balances {
		tokens = append(tokens, token)
	}
	// sorted so the reported failure does not depend on map order
	sort.Strings(tokens)

	out := make(map[string]string, len(balances))
	for _, token := range tokens {
		raw := balances[token]
		at := keyPath(path, token)

		decimals, err := lookup.TokenDecimals(ctx, token)
		if err != nil {
			return nil, &ValidationError{Kind: ErrLookup, Path: at, Value: token, Err: fmt.Errorf("error in balance conversion: %w", err)}
		}
		if decimals < 0 || decimals > maxTokenDecimals {
			return nil, &ValidationError{Kind: ErrLookup, Path: at, Value: token, Err: fmt.Errorf("error in balance conversion: decimals %d out of range", decimals)}
		}

		scaled, err := ScaleBalance(raw, decimals)
		if err != nil {
			return nil, &ValidationError{Kind: ErrParse, Path: at, Value: raw, Err: fmt.Errorf("error in balance conversion: %w", err)}
		}
		out[token] = scaled
	}
	return out, nil
}

package serializer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDecimals(table map[string]int) DecimalsLookup {
	return DecimalsLookupFunc(func(_ context.Context, token string) (int, error) {
		d, ok := table[token]
		if !ok {
			return 0, errors.New("unknown token " + token)
		}
		return d, nil
	})
}

func TestScaleBalance(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals int
		want     string
	}{
		{name: "one unit of a 6 decimals token", raw: "1000000", decimals: 6, want: "1.000000"},
		{name: "fraction of a unit", raw: "1", decimals: 18, want: "0.000000000000000001"},
		{name: "zero decimals", raw: "42", decimals: 0, want: "42"},
		{name: "zero balance", raw: "0", decimals: 6, want: "0.000000"},
		{name: "larger than int64", raw: "123456789012345678901234567890", decimals: 18, want: "123456789012.345678901234567890"},
		{name: "surrounding whitespace", raw: " 2500000 ", decimals: 6, want: "2.500000"},
		{name: "integral exponent form", raw: "15e5", decimals: 6, want: "1.500000"},
		{name: "uint256 max", raw: "115792089237316195423570985008687907853269984665640564039457584007913129639935", decimals: 18, want: "115792089237316195423570985008687907853269984665640564039457.584007913129639935"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ScaleBalance(tc.raw, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			// re-parsing the rendering gives back raw / 10^decimals exactly
			raw := decimal.RequireFromString(tc.raw)
			assert.True(t, decimal.RequireFromString(got).Equal(raw.Shift(-int32(tc.decimals))))
		})
	}
}

func TestScaleBalanceRejects(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals int
	}{
		{name: "not a number", raw: "abc", decimals: 6},
		{name: "not a number without decimals", raw: "abc", decimals: 0},
		{name: "empty", raw: "", decimals: 6},
		{name: "fractional raw value", raw: "10.5", decimals: 6},
		{name: "negative raw value", raw: "-1000", decimals: 6},
		{name: "negative decimals", raw: "1000", decimals: -1},
		{name: "decimals above uint8", raw: "1000", decimals: 256},
		{name: "huge positive exponent", raw: "1e2000000000", decimals: 6},
		{name: "huge negative exponent", raw: "1e-2000000000", decimals: 6},
		{name: "exponent past digit limit", raw: "1e81", decimals: 6},
		{name: "too many digits", raw: strings.Repeat("9", 81), decimals: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			_, err := ScaleBalance(tc.raw, tc.decimals)
			assert.Error(t, err)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

func TestNormalizeBalances(t *testing.T) {
	lookup := fixedDecimals(map[string]int{"0xeth": 18, "0xusdc": 6})

	got, err := NormalizeBalances(context.Background(), map[string]string{
		"0xeth":  "2500000000000000000",
		"0xusdc": "1000000",
	}, lookup)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"0xeth":  "2.500000000000000000",
		"0xusdc": "1.000000",
	}, got)
}

func TestNormalizeBalancesFailsAtomically(t *testing.T) {
	lookup := fixedDecimals(map[string]int{"0xa": 6, "0xb": 6})

	t.Run("parse error", func(t *testing.T) {
		got, err := NormalizeBalances(context.Background(), map[string]string{"0xa": "1", "0xb": "abc"}, lookup)
		assert.Nil(t, got)
		require.ErrorIs(t, err, ErrParse)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, `["0xb"]`, verr.Path)
		assert.Equal(t, "abc", verr.Value)
		assert.Contains(t, err.Error(), "error in balance conversion")
	})

	t.Run("lookup error keeps the cause", func(t *testing.T) {
		got, err := NormalizeBalances(context.Background(), map[string]string{"0xa": "1", "0xz": "1"}, lookup)
		assert.Nil(t, got)
		require.ErrorIs(t, err, ErrLookup)
		assert.Contains(t, err.Error(), "unknown token 0xz")
	})

	t.Run("oversized exponent is a parse error", func(t *testing.T) {
		got, err := NormalizeBalances(context.Background(), map[string]string{"0xa": "1e20000000"}, lookup)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("negative decimals from lookup", func(t *testing.T) {
		bad := DecimalsLookupFunc(func(context.Context, string) (int, error) { return -2, nil })
		_, err := NormalizeBalances(context.Background(), map[string]string{"0xa": "1"}, bad)
		assert.ErrorIs(t, err, ErrLookup)
	})
}

func TestNormalizeBalancesEmpty(t *testing.T) {
	got, err := NormalizeBalances(context.Background(), map[string]string{}, fixedDecimals(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

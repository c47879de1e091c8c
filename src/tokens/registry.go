package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownToken is returned when no decimals are known for a token address.
var ErrUnknownToken = errors.New("unknown token")

// Lookup resolves the decimal precision of a token.
type Lookup interface {
	TokenDecimals(ctx context.Context, tokenAddress string) (int, error)
}

// Token describes a Starknet ERC-20 supported by the application.
type Token struct {
	Symbol   string
	Address  string
	Decimals int
}

var (
	ETH  = Token{Symbol: "ETH", Address: "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Decimals: 18}
	STRK = Token{Symbol: "STRK", Address: "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d", Decimals: 18}
	USDC = Token{Symbol: "USDC", Address: "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8", Decimals: 6}
	USDT = Token{Symbol: "USDT", Address: "0x068f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8", Decimals: 6}
	DAI  = Token{Symbol: "DAI", Address: "0x00da114221cb83fa859dbdb4c44beeaa0bb37c7537ad5ae66fe5e0efd20e6eb3", Decimals: 18}
	WBTC = Token{Symbol: "WBTC", Address: "0x03fe2b97c1fd336e750087d68b9b867997fd64a2661ff3ca5a7c771641e8e7ac", Decimals: 8}
)

// Registry is a read-only address -> token table. It is safe for concurrent use
// once built.
type Registry struct {
	byAddress map[string]Token
	bySymbol  map[string]Token
}

func NewRegistry(tokens ...Token) *Registry {
	r := &Registry{
		byAddress: make(map[string]Token, len(tokens)),
		bySymbol:  make(map[string]Token, len(tokens)),
	}
	for _, t := range tokens {
		r.byAddress[NormalizeAddress(t.Address)] = t
		r.bySymbol[strings.ToUpper(t.Symbol)] = t
	}
	return r
}

// DefaultRegistry holds the tokens the application trades on mainnet.
func DefaultRegistry() *Registry {
	return NewRegistry(ETH, STRK, USDC, USDT, DAI, WBTC)
}

// NormalizeAddress lowercases a hex address and drops leading zeros, so
// "0x049D..." and "0x49d..." compare equal.
func NormalizeAddress(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	if !strings.HasPrefix(a, "0x") {
		return a
	}
	trimmed := strings.TrimLeft(a[2:], "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}

func (r *Registry) ByAddress(address string) (Token, bool) {
	t, ok := r.byAddress[NormalizeAddress(address)]
	return t, ok
}

func (r *Registry) BySymbol(symbol string) (Token, bool) {
	t, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}

func (r *Registry) TokenDecimals(_ context.Context, tokenAddress string) (int, error) {
	t, ok := r.ByAddress(tokenAddress)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddress)
	}
	return t.Decimals, nil
}

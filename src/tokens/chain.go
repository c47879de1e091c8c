package tokens

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
)

// Chain asks each lookup in order and returns the first answer.
// A lookup reporting ErrUnknownToken passes the address on to the next one;
// any other error stops the chain.
type Chain []Lookup

func (c Chain) TokenDecimals(ctx context.Context, tokenAddress string) (int, error) {
	for i, l := range c {
		decimals, err := l.TokenDecimals(ctx, tokenAddress)
		if err == nil {
			return decimals, nil
		}
		if !errors.Is(err, ErrUnknownToken) {
			return 0, err
		}
		logger.WithFields(map[string]interface{}{
			"component": "tokens.Chain",
			"token":     tokenAddress,
			"lookup":    i,
		}).Debug("token unknown to lookup, trying next")
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownToken, tokenAddress)
}

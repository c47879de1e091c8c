// REST CLIENT FOR THE TOKEN METADATA SERVICE
// RESTY + INTERNAL RETRY
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"spotnet/src/tokens"
)

const (
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

// TokenMetadata is the body of GET /tokens/{address}.
type TokenMetadata struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals *int   `json:"decimals"`
}

// TokenMetadataClient resolves token decimals from a remote metadata service.
type TokenMetadataClient struct {
	baseURL string
	http    *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func NewTokenMetadataClient(cfg Config) *TokenMetadataClient {
	retries := cfg.TokenMetadataRetries
	if retries < 0 {
		retries = 0
	}

	httpClient := resty.New().
		SetBaseURL(cfg.TokenMetadataURL).
		SetTimeout(cfg.TokenMetadataTimeout).
		SetRetryCount(retries).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &TokenMetadataClient{
		baseURL: cfg.TokenMetadataURL,
		http:    httpClient,
	}
}

// Metadata fetches the metadata record of a token.
// A 404 from the service is reported as tokens.ErrUnknownToken.
func (c *TokenMetadataClient) Metadata(ctx context.Context, tokenAddress string) (*TokenMetadata, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("address", tokens.NormalizeAddress(tokenAddress)).
		Get("/tokens/{address}")
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"connector": "TokenMetadataClient",
			"base_url":  c.baseURL,
			"token":     tokenAddress,
		}).WithError(err).Error("token metadata request failed")
		return nil, fmt.Errorf("token metadata request for %s: %w", tokenAddress, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", tokens.ErrUnknownToken, tokenAddress)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("token metadata for %s: http %d: %s", tokenAddress, resp.StatusCode(), resp.String())
	}

	var meta TokenMetadata
	if err := json.Unmarshal(resp.Body(), &meta); err != nil {
		return nil, fmt.Errorf("decode token metadata for %s: %w", tokenAddress, err)
	}
	return &meta, nil
}

func (c *TokenMetadataClient) TokenDecimals(ctx context.Context, tokenAddress string) (int, error) {
	meta, err := c.Metadata(ctx, tokenAddress)
	if err != nil {
		return 0, err
	}
	if meta.Decimals == nil {
		return 0, fmt.Errorf("token metadata for %s has no decimals", tokenAddress)
	}
	if *meta.Decimals < 0 {
		return 0, fmt.Errorf("token metadata for %s has negative decimals %d", tokenAddress, *meta.Decimals)
	}

	logger.WithFields(map[string]interface{}{
		"connector": "TokenMetadataClient",
		"token":     tokenAddress,
		"symbol":    meta.Symbol,
		"decimals":  *meta.Decimals,
	}).Debug("token decimals resolved remotely")

	return *meta.Decimals, nil
}

package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// TokenMetadataURL is the base URL of the token metadata service. Empty disables remote lookups.
	TokenMetadataURL     string        `envconfig:"TOKEN_METADATA_URL" default:""`
	TokenMetadataTimeout time.Duration `envconfig:"TOKEN_METADATA_TIMEOUT" default:"10s"`
	TokenMetadataRetries int           `envconfig:"TOKEN_METADATA_RETRIES" default:"3"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

package dashboard

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Pretty          bool  `envconfig:"DASHBOARD_PRETTY" default:"true"`
	MaxPayloadBytes int64 `envconfig:"DASHBOARD_MAX_PAYLOAD_BYTES" default:"10485760"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}

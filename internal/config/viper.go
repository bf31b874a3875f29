package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Unmarshal decodes the viper settings over cfg and validates the result
func Unmarshal(v *viper.Viper, cfg *Config) error {
	decoderCfg := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}

	if err := v.Unmarshal(cfg, decoderCfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg.Validate()
}

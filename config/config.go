package config

import (
	"revloans/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("REVLOANS")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultWorker(config)
	return nil
}

func defaultWorker(cfg *core.Config) {
	if cfg.Worker.LiquidationBatch <= 0 {
		cfg.Worker.LiquidationBatch = 100
	}

	if cfg.Worker.LiquidationInterval == "" {
		cfg.Worker.LiquidationInterval = "@every 1m"
	}
}

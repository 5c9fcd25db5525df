package core

import (
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// defaultWholeTickUS is one 60 Hz frame, the conventional whole-tick window.
const defaultWholeTickUS = 16000

// Config mirrors the optional YAML configuration file:
//
//	categories: 4
//	pool_size: 1024
//	budgets_us: [1000, 5000, 5000, 5000]
//	whole_tick_us: 16000
type Config struct {
	Categories  int     `yaml:"categories"`
	PoolSize    int     `yaml:"pool_size"`
	BudgetsUS   []int64 `yaml:"budgets_us"`
	WholeTickUS int64   `yaml:"whole_tick_us"`
}

func defaultFileConfig() Config {
	return Config{
		Categories:  DefaultCategoryCount,
		PoolSize:    DefaultPoolSize,
		BudgetsUS:   []int64{1000, 5000, 5000, 5000},
		WholeTickUS: defaultWholeTickUS,
	}
}

// LoadConfig reads YAML and overrides defaults; an empty path or an
// unreadable file yields the defaults only.
func LoadConfig(path string) Config {
	cfg := defaultFileConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.Categories <= 0 {
		cfg.Categories = DefaultCategoryCount
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.WholeTickUS <= 0 {
		cfg.WholeTickUS = defaultWholeTickUS
	}
	if len(cfg.BudgetsUS) > cfg.Categories {
		cfg.BudgetsUS = cfg.BudgetsUS[:cfg.Categories]
	}
	for i, us := range cfg.BudgetsUS {
		if us < 0 {
			cfg.BudgetsUS[i] = 0
		}
	}

	return cfg
}

// WholeTick returns the configured whole-tick window as a duration.
func (c Config) WholeTick() time.Duration {
	return time.Duration(c.WholeTickUS) * time.Microsecond
}

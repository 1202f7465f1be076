package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportingConfig holds dashboard and report tunables. It is reloadable at
// runtime so operators can adjust limits without a restart.
type ReportingConfig struct {
	TrendMonthsDefault int `mapstructure:"trendMonthsDefault"`
	TrendMonthsMax     int `mapstructure:"trendMonthsMax"`
	RecentLimit        int `mapstructure:"recentLimit"`
}

func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		TrendMonthsDefault: 6,
		TrendMonthsMax:     24,
		RecentLimit:        5,
	}
}

// ReportingConfigHolder exposes the current reporting config and swaps it
// atomically on file change.
type ReportingConfigHolder struct {
	current atomic.Value // holds ReportingConfig
}

func NewReportingConfigHolder() (*ReportingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reporting")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/solobooks")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SOLOBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultReportingConfig()
		v.SetDefault("reporting.trendMonthsDefault", defaults.TrendMonthsDefault)
		v.SetDefault("reporting.trendMonthsMax", defaults.TrendMonthsMax)
		v.SetDefault("reporting.recentLimit", defaults.RecentLimit)
	}

	var cfg ReportingConfig
	if err := v.UnmarshalKey("reporting", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportingConfig
		if err := v.UnmarshalKey("reporting", &updated); err != nil {
			log.Printf("[reporting-config] reload failed: %v", err)
			return
		}
		if err := validateReportingConfig(updated); err != nil {
			log.Printf("[reporting-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reporting-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticReportingConfigHolder wraps a fixed config with no file watching.
func NewStaticReportingConfigHolder(cfg ReportingConfig) *ReportingConfigHolder {
	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReportingConfigHolder) Get() ReportingConfig {
	return h.current.Load().(ReportingConfig)
}

func validateReportingConfig(cfg ReportingConfig) error {
	if cfg.TrendMonthsDefault < 1 {
		return errors.New("reporting.trendMonthsDefault must be positive")
	}
	if cfg.TrendMonthsMax < cfg.TrendMonthsDefault {
		return errors.New("reporting.trendMonthsMax must cover the default")
	}
	if cfg.RecentLimit < 1 {
		return errors.New("reporting.recentLimit must be positive")
	}
	return nil
}

package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SalesConfig holds the business lookup tables that used to live as
// hardcoded globals: the country dial-prefix table used by report
// breakdowns, the ManyChat field-name map, and the canonical report
// timezone. All of it is hot-reloadable so ops can adjust tables
// without a deploy.
type SalesConfig struct {
	ReportTimezone string            `mapstructure:"reportTimezone"`
	CountryCodes   map[string]string `mapstructure:"countryCodes"`
	ManyChatFields map[string]string `mapstructure:"manychatFields"`
}

func DefaultSalesConfig() SalesConfig {
	return SalesConfig{
		ReportTimezone: "UTC",
		CountryCodes: map[string]string{
			"1":   "US",
			"33":  "FR",
			"34":  "ES",
			"39":  "IT",
			"44":  "GB",
			"49":  "DE",
			"51":  "PE",
			"52":  "MX",
			"54":  "AR",
			"55":  "BR",
			"56":  "CL",
			"57":  "CO",
			"58":  "VE",
			"351": "PT",
			"502": "GT",
			"503": "SV",
			"504": "HN",
			"506": "CR",
			"507": "PA",
			"591": "BO",
			"593": "EC",
			"598": "UY",
		},
		ManyChatFields: map[string]string{
			"call_booked":   "11111001",
			"call_date":     "11111002",
			"setter_name":   "11111003",
			"qualification": "11111004",
			"fbclid":        "11111005",
		},
	}
}

type SalesConfigHolder struct {
	current atomic.Value // holds SalesConfig
}

func NewSalesConfigHolder() (*SalesConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sales")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/salesdesk/config")
	v.AddConfigPath("/etc/salesdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SALESDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultSalesConfig()
		v.SetDefault("sales.reportTimezone", defaults.ReportTimezone)
		v.SetDefault("sales.countryCodes", defaults.CountryCodes)
		v.SetDefault("sales.manychatFields", defaults.ManyChatFields)
	}

	var cfg SalesConfig
	if err := v.UnmarshalKey("sales", &cfg); err != nil {
		return nil, err
	}
	applySalesDefaults(&cfg)
	if err := validateSalesConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SalesConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SalesConfig
		if err := v.UnmarshalKey("sales", &updated); err != nil {
			log.Printf("[sales-config] reload failed: %v", err)
			return
		}
		applySalesDefaults(&updated)
		if err := validateSalesConfig(updated); err != nil {
			log.Printf("[sales-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[sales-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SalesConfigHolder) Get() SalesConfig {
	return h.current.Load().(SalesConfig)
}

// NewStaticSalesConfigHolder returns a holder pinned to the given config.
// Used by tests that need to override the lookup tables.
func NewStaticSalesConfigHolder(cfg SalesConfig) *SalesConfigHolder {
	applySalesDefaults(&cfg)
	holder := &SalesConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func applySalesDefaults(cfg *SalesConfig) {
	defaults := DefaultSalesConfig()
	if strings.TrimSpace(cfg.ReportTimezone) == "" {
		cfg.ReportTimezone = defaults.ReportTimezone
	}
	if len(cfg.CountryCodes) == 0 {
		cfg.CountryCodes = defaults.CountryCodes
	}
	if len(cfg.ManyChatFields) == 0 {
		cfg.ManyChatFields = defaults.ManyChatFields
	}
}

func validateSalesConfig(cfg SalesConfig) error {
	if len(cfg.CountryCodes) == 0 {
		return errors.New("sales.countryCodes cannot be empty")
	}
	if _, err := loadLocation(cfg.ReportTimezone); err != nil {
		return err
	}
	return nil
}

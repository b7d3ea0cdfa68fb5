package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/pkg/types"
)

// setDefaults registers every FinderConfig key with v so that config files
// and SAURON_* variables can override any of them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultFinderConfig()

	v.SetDefault("registry.timeout", d.Registry.Timeout)
	v.SetDefault("registry.user_agent", d.Registry.UserAgent)
	v.SetDefault("registry.base_url", d.Registry.BaseURL)
	v.SetDefault("registry.profile_base_url", d.Registry.ProfileBaseURL)
	v.SetDefault("registry.lookup_timeout", d.Registry.LookupTimeout)
	v.SetDefault("registry.members_timeout", d.Registry.MembersTimeout)

	v.SetDefault("discovery.backend", string(d.Discovery.Backend))
	v.SetDefault("discovery.model", d.Discovery.Model)
	v.SetDefault("discovery.api_key", "")
	v.SetDefault("discovery.email", "")
	v.SetDefault("discovery.names_file", d.Discovery.NamesFile)
	v.SetDefault("discovery.timeout", d.Discovery.Timeout)

	v.SetDefault("expansion.max_members", d.Expansion.MaxMembers)
	v.SetDefault("expansion.profile_delay", d.Expansion.ProfileDelay)
	v.SetDefault("expansion.institution_delay", d.Expansion.InstitutionDelay)
	v.SetDefault("expansion.member_delay", d.Expansion.MemberDelay)

	v.SetDefault("cache.backend", string(d.Cache.Backend))
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("max_researchers", d.MaxResearchers)

	v.SetDefault("format", "markdown")
	v.SetDefault("output", "")
	v.SetDefault("output_dir", "output")
	v.SetDefault("metrics_file", "")

	lc := logging.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
}

// flagKeys maps configuration keys to the flags that override them. Only
// the flags defined on the running command are bound.
var flagKeys = map[string]string{
	"log.level":                "log-level",
	"log.format":               "log-format",
	"log.output":               "log-output",
	"format":                   "format",
	"output":                   "output",
	"output_dir":               "output-dir",
	"discovery.backend":        "discovery",
	"discovery.model":          "model",
	"discovery.email":          "email",
	"discovery.names_file":     "names-file",
	"discovery.timeout":        "discovery-timeout",
	"registry.base_url":        "registry-url",
	"registry.lookup_timeout":  "lookup-timeout",
	"registry.members_timeout": "members-timeout",
	"expansion.max_members":    "max-members",
	"max_researchers":          "max-researchers",
	"cache.backend":            "cache",
	"cache.dir":                "cache-dir",
	"cache.redis_url":          "redis-url",
	"cache.ttl":                "cache-ttl",
	"metrics_file":             "metrics-file",
}

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// loadFinderConfig decodes the merged defaults, config file, environment,
// and flags into a FinderConfig.
func loadFinderConfig(v *viper.Viper) (types.FinderConfig, error) {
	var cfg types.FinderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Discovery.Backend == "" {
		cfg.Discovery.Backend = types.DiscoveryOpenAI
	}
	if cfg.Expansion.MaxMembers <= 0 {
		return cfg, fmt.Errorf("max-members must be positive, got %d", cfg.Expansion.MaxMembers)
	}
	if cfg.MaxResearchers < 0 {
		return cfg, fmt.Errorf("max-researchers must not be negative, got %d", cfg.MaxResearchers)
	}
	return cfg, nil
}

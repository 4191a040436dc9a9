package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// OfflineConfig drives the cache/sync engine: which bucket version is
// current, what gets precached, and how requests are classified.
type OfflineConfig struct {
	CacheVersion   string
	ShellAssets    []string
	OfflinePath    string
	APIPathSegment string
	SyncTagPrefix  string
	IgnoreSchemes  []string
}

type Config struct {
	Address  string
	LogLevel string
	Offline  OfflineConfig
	Flags    map[string]bool
}

const configFilePath = "./config.yaml"

func Init() (*Config, error) {

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", ":8000")
	v.SetDefault("log.level", "debug")
	v.SetDefault("offline.cacheVersion", "khapey-cache-v1")
	v.SetDefault("offline.shellAssets", []string{"/", "/offline", "/dashboard", "/discounts"})
	v.SetDefault("offline.offlinePath", "/offline")
	v.SetDefault("offline.apiPathSegment", "/api/")
	v.SetDefault("offline.syncTagPrefix", "khapey-sync:")
	v.SetDefault("offline.ignoreSchemes", []string{"chrome-extension://", "moz-extension://", "chrome://", "devtools://"})

	v.SetConfigFile(configFilePath)
	if err := v.ReadInConfig(); err != nil {
		// config.yaml is optional; env vars and defaults cover everything
		if _, ok := err.(viper.ConfigParseError); ok {
			return nil, errors.Wrapf(err, "failed to parse config file %s", configFilePath)
		}
	}

	cfg := &Config{
		Address:  v.GetString("server.address"),
		LogLevel: v.GetString("log.level"),
		Offline: OfflineConfig{
			CacheVersion:   v.GetString("offline.cacheVersion"),
			ShellAssets:    v.GetStringSlice("offline.shellAssets"),
			OfflinePath:    v.GetString("offline.offlinePath"),
			APIPathSegment: v.GetString("offline.apiPathSegment"),
			SyncTagPrefix:  v.GetString("offline.syncTagPrefix"),
			IgnoreSchemes:  v.GetStringSlice("offline.ignoreSchemes"),
		},
		Flags: cast.ToStringMapBool(v.Get("flags")),
	}

	return cfg, nil
}

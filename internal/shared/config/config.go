package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"proxynest/internal/shared/types"
)

// Reference defaults, applied for knobs the ini file leaves unset.
const (
	defaultAllowedFailsInRow     = 2
	defaultFailsWithoutCheck     = 2
	defaultPercentFailedToRemove = 0.5
	defaultFetchTimeoutSeconds   = 20
	defaultFetchRetries          = 3
	defaultDataFile              = "proxy_data"
)

// LoadIni loads the behavior configuration file into cfg and applies
// defaults and environment overrides.
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	ApplyDefaults(cfg)
	overrideFromEnvInt(&cfg.PoolConf.MinPoolSize, "PROXYNEST_MIN_POOL_SIZE")
	overrideFromEnvStr(&cfg.PoolConf.DataFile, "PROXYNEST_DATA_FILE")
	return nil
}

// ApplyDefaults fills unset knobs with the reference defaults.
func ApplyDefaults(cfg *types.Config) {
	if cfg.PoolConf.AllowedFailsInRow <= 0 {
		cfg.PoolConf.AllowedFailsInRow = defaultAllowedFailsInRow
	}
	if cfg.PoolConf.FailsWithoutCheck <= 0 {
		cfg.PoolConf.FailsWithoutCheck = defaultFailsWithoutCheck
	}
	if cfg.PoolConf.PercentFailedToRemove <= 0 {
		cfg.PoolConf.PercentFailedToRemove = defaultPercentFailedToRemove
	}
	if cfg.PoolConf.DataFile == "" {
		cfg.PoolConf.DataFile = defaultDataFile
	}
	if cfg.FetchConf.TimeoutSeconds <= 0 {
		cfg.FetchConf.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if cfg.FetchConf.Retries <= 0 {
		cfg.FetchConf.Retries = defaultFetchRetries
	}
	if cfg.LogConf.Level == "" {
		cfg.LogConf.Level = "info"
	}
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvStr(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

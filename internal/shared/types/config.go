package types

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// PoolConf contains the pool behavior knobs: eviction thresholds, the
// minimum size enforced before selection, and the snapshot file path.
type PoolConf struct {
	// AllowedFailsInRow is how many times a proxy can fail in a row
	// before being removed.
	AllowedFailsInRow int `ini:"allowed_fails_in_row"`

	// FailsWithoutCheck is how many times a proxy can fail before its
	// failure ratio is checked against PercentFailedToRemove.
	FailsWithoutCheck int `ini:"fails_without_check"`

	// PercentFailedToRemove removes a proxy once its failure ratio
	// exceeds this value. 0.5 means more than half of all tries failed.
	PercentFailedToRemove float64 `ini:"percent_failed_to_remove"`

	// MinPoolSize makes selection fail until the pool holds at least
	// this many proxies, signalling the caller to fetch more.
	MinPoolSize int `ini:"min_pool_size"`

	// DataFile is the path of the persisted pool snapshot.
	DataFile string `ini:"data_file"`
}

// FetchConf contains the candidate-list fetcher configuration.
type FetchConf struct {
	TimeoutSeconds int `ini:"timeout_seconds"`
	Retries        int `ini:"retries"`
}

// Config is the unified configuration structure mapped from the ini file.
type Config struct {
	LogConf   `ini:"log"`
	PoolConf  `ini:"pool"`
	FetchConf `ini:"fetch"`
}

package happiness

import "time"

type Config struct {
	DataPath  string
	CacheSize int
	// Watch reloads the dataset whenever DataPath changes on disk.
	Watch         bool
	WatchDebounce time.Duration
	Verbose       bool
}

func (config Config) watchDebounce() time.Duration {
	if config.WatchDebounce <= 0 {
		return 250 * time.Millisecond
	}
	return config.WatchDebounce
}

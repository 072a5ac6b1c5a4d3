package module

import "quill/internal/platform/config"

// Options controls the search query side
type Options struct {
	HardLimit int
}

// FromConfig reads with SEARCH_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SEARCH_")
	return Options{
		HardLimit: c.MayInt("HARD_LIMIT", 100),
	}
}

// internal/workers/chat/classify-intent/config.go
package classifyintent

import "time"

type Config struct {
	Timeout time.Duration
	// FlagUnmatched throws CLASSIFICATION_AMBIGUOUS for unmatched messages
	// instead of completing with the unknown intent.
	FlagUnmatched bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

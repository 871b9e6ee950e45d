// internal/workers/chat/query-facility-data/config.go
package queryfacilitydata

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

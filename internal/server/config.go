package server

import (
	"time"

	"facility-chat/internal/common/config"
)

type Config struct {
	DataDir          string
	StaticDir        string
	SessionCacheSize int
	SessionTTL       time.Duration
	HistoryLimit     int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

func NewConfig(cfg *config.Config) Config {
	return Config{
		DataDir:          cfg.Server.DataDir,
		StaticDir:        cfg.Server.StaticDir,
		SessionCacheSize: cfg.Server.SessionCacheSize,
		SessionTTL:       config.GetDuration(cfg.Server.SessionTTL),
		HistoryLimit:     cfg.Chat.HistoryLimit,
		ReadTimeout:      config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:     config.GetDuration(cfg.Server.WriteTimeout),
	}
}

package httpapi

import (
	"database/sql"
	"sync/atomic"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/linkmeta"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic store so PUT /config swaps live settings without a restart
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Link previews (nil when disabled in config)
	Preview *linkmeta.Fetcher
}

package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/codebookhq/codebook/config"
	"github.com/codebookhq/codebook/internal/cart"
	"github.com/codebookhq/codebook/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides browser session store access
type StoreProvider interface {
	SessionStore() *session.Store
}

// CartProvider provides the per-browser cart manager
type CartProvider interface {
	Carts() *cart.Manager
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	StoreProvider
	CartProvider
	SchedulerProvider
	BusProvider
}

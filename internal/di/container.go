// Package di provides dependency injection configuration for the case
// brief manager.
package di

import (
	"github.com/samber/do/v2"

	"github.com/BennyWestsyde/Case-Briefs/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
// Providers are lazy; a service is only constructed when first invoked.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideCollection)

	// Tooling
	do.Provide(injector, providers.ProvideCompiler)
	do.Provide(injector, providers.ProvideWatcher)

	return injector
}

// Shutdown gracefully shuts down all services in reverse dependency order.
func Shutdown(injector *do.RootScope) error {
	return injector.Shutdown()
}

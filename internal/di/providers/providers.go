// Package providers contains dependency injection providers for the
// case brief manager.
package providers

import (
	"context"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/BennyWestsyde/Case-Briefs/internal/briefs"
	"github.com/BennyWestsyde/Case-Briefs/internal/compile"
	"github.com/BennyWestsyde/Case-Briefs/internal/config"
	"github.com/BennyWestsyde/Case-Briefs/internal/logger"
	"github.com/BennyWestsyde/Case-Briefs/internal/store"
	"github.com/BennyWestsyde/Case-Briefs/internal/validation"
	"github.com/BennyWestsyde/Case-Briefs/internal/watcher"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load(".env")
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
	}), nil
}

// ProvideValidator provides the struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
	// Created reports whether Open initialized a fresh database file.
	Created bool
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the relational store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, created, err := store.Open(cfg.Store.Path, log.Logger, store.Options{
		OpinionDedupByAuthor: cfg.Store.OpinionDedupByAuthor,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("initialized new database", "path", cfg.Store.Path)
	}
	return &StoreHandle{Store: st, Created: created}, nil
}

// ProvideCollection provides the brief collection, already loaded from the
// store.
func ProvideCollection(i do.Injector) (*briefs.Collection, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	st := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)

	c := briefs.NewCollection(st.Store, validate, log.Logger, cfg.Documents.CasesDir)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := c.ReloadFromStore(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ProvideCompiler provides the TeX compile runner. Invoked lazily, so a
// missing engine binary only fails commands that actually compile.
func ProvideCompiler(i do.Injector) (compile.Compiler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	outputDir := cfg.Compile.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(cfg.Documents.CasesDir, outputDir)
	}
	return compile.NewRunner(cfg.Compile.Engine, outputDir, log.Logger)
}

// ProvideWatcher provides a document watcher that reloads the collection
// when files under the cases directory settle.
func ProvideWatcher(i do.Injector) (*watcher.Watcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	collection := do.MustInvoke[*briefs.Collection](i)

	handler := func(ctx context.Context, paths []string) {
		if err := collection.ReloadFromDocuments(ctx); err != nil {
			log.WithError(err).Error("reload after document change failed")
		}
	}
	return watcher.New(cfg.Documents.CasesDir, watcher.DefaultSettleDelay, handler, log.Logger)
}

// loadTimeout bounds the initial collection load during container startup.
const loadTimeout = 30 * time.Second

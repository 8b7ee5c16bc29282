// Package briefs provides the business logic layer for managing case briefs
// across the relational store and the on-disk document tree.
package briefs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	domainerrors "github.com/BennyWestsyde/Case-Briefs/internal/errors"
	"github.com/BennyWestsyde/Case-Briefs/internal/store"
	"github.com/BennyWestsyde/Case-Briefs/internal/validation"
)

// Collection is the in-memory working set of briefs, keyed by label.
// Add, Update, and Remove touch only the working set; persistence is a
// separate explicit step via SaveBrief and DeleteBrief. Staleness between
// the working set and the store is expected between reloads.
type Collection struct {
	mu       sync.RWMutex
	briefs   map[string]*domain.Brief
	store    *store.Store
	validate *validation.Validator
	logger   *slog.Logger
	casesDir string
}

// NewCollection creates an empty collection backed by the given store and
// document directory. Call ReloadFromStore or ReloadFromDocuments to
// populate it.
func NewCollection(st *store.Store, validate *validation.Validator, logger *slog.Logger, casesDir string) *Collection {
	return &Collection{
		briefs:   make(map[string]*domain.Brief),
		store:    st,
		validate: validate,
		logger:   logger,
		casesDir: casesDir,
	}
}

// ReloadFromStore replaces the working set with the store's contents.
func (c *Collection) ReloadFromStore(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	labels, err := c.store.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("list labels: %w", err)
	}

	loaded := make(map[string]*domain.Brief, len(labels))
	for _, label := range labels {
		b, err := c.store.LoadBrief(ctx, label)
		if err != nil {
			return fmt.Errorf("load brief %s: %w", label, err)
		}
		loaded[label] = b
	}

	c.mu.Lock()
	c.briefs = loaded
	c.mu.Unlock()

	c.logger.Info("collection reloaded from store", "briefs", len(loaded))
	return nil
}

// Add inserts a new brief into the working set. Returns ErrConflict if the
// label is already present. Nothing is persisted; call SaveBrief.
func (c *Collection) Add(b *domain.Brief) error {
	if err := c.validate.Validate(b); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.briefs[b.Label]; exists {
		return domainerrors.Conflict(fmt.Sprintf("brief %s already exists", b.Label))
	}
	c.briefs[b.Label] = b
	return nil
}

// Update replaces an existing brief in the working set. Returns ErrNotFound
// if the label is unknown. Nothing is persisted; call SaveBrief.
func (c *Collection) Update(b *domain.Brief) error {
	if err := c.validate.Validate(b); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.briefs[b.Label]; !exists {
		return domainerrors.NotFound(fmt.Sprintf("brief %s not found", b.Label))
	}
	c.briefs[b.Label] = b
	return nil
}

// Remove drops a brief from the working set. The store row and document
// file are untouched; call DeleteBrief to remove those.
func (c *Collection) Remove(label string) (*domain.Brief, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, exists := c.briefs[label]
	if !exists {
		return nil, domainerrors.NotFound(fmt.Sprintf("brief %s not found", label))
	}
	delete(c.briefs, label)
	return b, nil
}

// Get returns the brief with the given label.
func (c *Collection) Get(label string) (*domain.Brief, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, exists := c.briefs[label]
	if !exists {
		return nil, domainerrors.NotFound(fmt.Sprintf("brief %s not found", label))
	}
	return b, nil
}

// List returns all briefs ordered by label.
func (c *Collection) List() []*domain.Brief {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Brief, 0, len(c.briefs))
	for _, b := range c.briefs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Labels returns the sorted labels of the working set.
func (c *Collection) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	labels := make([]string, 0, len(c.briefs))
	for label := range c.briefs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of briefs in the working set.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.briefs)
}

// SaveBrief persists a brief to the store and renders its document file.
// The explicit persistence step for Add and Update.
func (c *Collection) SaveBrief(ctx context.Context, b *domain.Brief) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.validate.Validate(b); err != nil {
		return err
	}

	if err := c.store.SaveBrief(ctx, b); err != nil {
		return fmt.Errorf("save brief: %w", err)
	}
	if err := c.WriteDocument(ctx, b); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	c.logger.Info("brief saved", "label", b.Label, "title", b.Title())
	return nil
}

// DeleteBrief removes a brief's store row and document file. The explicit
// persistence step for Remove.
func (c *Collection) DeleteBrief(ctx context.Context, b *domain.Brief) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.store.DeleteBrief(ctx, b.Label); err != nil {
		return fmt.Errorf("delete brief: %w", err)
	}
	if err := c.removeDocument(b); err != nil {
		// The store row is already gone; report but don't resurrect.
		c.logger.Warn("failed to remove brief document", "label", b.Label, "error", err)
	}

	c.logger.Info("brief deleted", "label", b.Label)
	return nil
}

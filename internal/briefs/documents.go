package briefs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	"github.com/BennyWestsyde/Case-Briefs/internal/texcodec"
)

// DocumentPath returns the brief's document file path under the cases
// directory, derived from the party names.
func (c *Collection) DocumentPath(b *domain.Brief) string {
	return filepath.Join(c.casesDir, b.Filename()+".tex")
}

// WriteDocument renders the brief to its document file. The write is atomic:
// a partially rendered file never replaces a good one.
func (c *Collection) WriteDocument(ctx context.Context, b *domain.Brief) error {
	doc := texcodec.EncodeDocument(ctx, b, texcodec.NewResolver(c.store))

	if err := os.MkdirAll(c.casesDir, 0o755); err != nil {
		return fmt.Errorf("create cases directory: %w", err)
	}

	path := c.DocumentPath(b)
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(doc))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadDocument reads and decodes a single document file.
func (c *Collection) LoadDocument(path string) (*domain.Brief, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	b, err := texcodec.DecodeDocument(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return b, nil
}

// ReloadFromDocuments rebuilds the working set from the document directory.
// Decode-and-cache only: the store is untouched, so a reload has no durable
// side effects. Files are visited in lexical order; when two documents carry
// the same label, the first wins and later ones are skipped with a warning.
// Undecodable files are skipped the same way so one bad document cannot
// block a reload.
func (c *Collection) ReloadFromDocuments(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(c.casesDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.mu.Lock()
			c.briefs = make(map[string]*domain.Brief)
			c.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read cases directory: %w", err)
	}

	loaded := make(map[string]*domain.Brief)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tex") {
			continue
		}
		path := filepath.Join(c.casesDir, entry.Name())
		b, err := c.LoadDocument(path)
		if err != nil {
			c.logger.Warn("skipping undecodable document", "path", path, "error", err)
			continue
		}
		if _, seen := loaded[b.Label]; seen {
			c.logger.Warn("skipping duplicate label", "path", path, "label", b.Label)
			continue
		}
		loaded[b.Label] = b
	}

	c.mu.Lock()
	c.briefs = loaded
	c.mu.Unlock()

	c.logger.Info("collection reloaded from documents", "briefs", len(loaded))
	return nil
}

func (c *Collection) removeDocument(b *domain.Brief) error {
	err := os.Remove(c.DocumentPath(b))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

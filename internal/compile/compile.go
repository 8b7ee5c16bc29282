// Package compile shells out to a TeX engine to turn brief documents
// into PDFs.
package compile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Compiler produces a PDF from a TeX source file.
type Compiler interface {
	Compile(ctx context.Context, texPath string) (pdfPath string, engineOutput string, err error)
}

// Runner invokes an external TeX engine (pdflatex by default).
type Runner struct {
	engine    string
	outputDir string
	logger    *slog.Logger
}

// NewRunner resolves the engine binary and returns a runner writing into
// outputDir. An engine that is not on PATH is reported here, not at
// compile time.
func NewRunner(engine, outputDir string, logger *slog.Logger) (*Runner, error) {
	path, err := exec.LookPath(engine)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", engine, err)
	}
	return &Runner{engine: path, outputDir: outputDir, logger: logger}, nil
}

// Compile runs the engine in nonstop mode so a TeX error fails the run
// instead of dropping into the interactive prompt. Returns the produced
// PDF path and the engine's combined output.
func (r *Runner) Compile(ctx context.Context, texPath string) (string, string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.engine,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", r.outputDir,
		texPath,
	)
	cmd.Dir = filepath.Dir(texPath)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug("running tex engine", "engine", r.engine, "source", texPath)
	runErr := cmd.Run()
	output := out.String()
	if runErr != nil {
		return "", output, fmt.Errorf("compile %s: %w", texPath, runErr)
	}

	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	pdfPath := filepath.Join(r.outputDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", output, fmt.Errorf("engine produced no PDF at %s: %w", pdfPath, err)
	}

	r.logger.Info("compiled document", "source", texPath, "pdf", pdfPath)
	return pdfPath, output, nil
}

// auxiliary file suffixes a TeX run leaves behind
var auxSuffixes = []string{".aux", ".log", ".out", ".toc", ".fls", ".fdb_latexmk", ".synctex.gz"}

// CleanDir removes TeX auxiliary files from dir, keeping sources and PDFs.
func CleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, suffix := range auxSuffixes {
			if strings.HasSuffix(name, suffix) {
				if err := os.Remove(filepath.Join(dir, name)); err != nil {
					return fmt.Errorf("remove %s: %w", name, err)
				}
				break
			}
		}
	}
	return nil
}

package typeset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"coderdist/internal/fileutil"
	"coderdist/internal/logging"
	"coderdist/internal/services"
	"coderdist/internal/services/latexmk"
)

const sourceName = "document.tex"

// Option configures a Generator.
type Option func(*Generator)

// WithWorkRoot places temporary work directories under dir instead of the
// system temp directory.
func WithWorkRoot(dir string) Option {
	return func(g *Generator) {
		g.workRoot = dir
	}
}

// Generator writes document sources and hands them to a compiler.
type Generator struct {
	compiler latexmk.Compiler
	logger   *slog.Logger
	workRoot string
}

// NewGenerator constructs a Generator backed by compiler.
func NewGenerator(compiler latexmk.Compiler, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		compiler: compiler,
		logger:   logging.NewComponentLogger(logger, "typeset"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate compiles source in a fresh work directory and moves the result to
// dest. The work directory is removed whether or not compilation succeeds.
func (g *Generator) Generate(ctx context.Context, source, dest string) error {
	logger := logging.WithContext(ctx, g.logger)
	if err := ctx.Err(); err != nil {
		return err
	}
	workDir, err := os.MkdirTemp(g.workRoot, "coderdist-typeset-*")
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("remove work directory failed", logging.String("path", workDir), logging.Error(err))
		}
	}()

	if err := os.WriteFile(filepath.Join(workDir, sourceName), []byte(source), 0o644); err != nil {
		return fmt.Errorf("write document source: %w", err)
	}

	start := time.Now()
	built, err := g.compiler.Compile(ctx, workDir, sourceName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "typeset", "prepare output", filepath.Dir(dest), err)
	}
	if err := fileutil.MoveFile(built, dest); err != nil {
		return fmt.Errorf("move %s to %s: %w", filepath.Base(built), dest, err)
	}
	logger.Debug("document compiled",
		logging.String("path", dest),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// GenerateCoder builds and renders one coder's document. Entries are checked
// before anything is written, so an empty article leaves no output behind.
func (g *Generator) GenerateCoder(ctx context.Context, title string, entries []Entry, dest string) error {
	source, err := BuildCoderDocument(title, entries)
	if err != nil {
		return err
	}
	return g.Generate(ctx, source, dest)
}

// GenerateQuery builds and renders a query result document.
func (g *Generator) GenerateQuery(ctx context.Context, field, term string, entries []Entry, dest string) error {
	source, err := BuildQueryDocument(field, term, entries)
	if err != nil {
		return err
	}
	return g.Generate(ctx, source, dest)
}

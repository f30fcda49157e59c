package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coderdist/internal/logging"
	"coderdist/internal/services"
	"coderdist/internal/source"
	"coderdist/internal/textutil"
)

// ErrMissingColumn reports a corpus file without the title or body column.
var ErrMissingColumn = errors.New("missing column")

// Options configures a Loader.
type Options struct {
	Pattern     string
	TitleColumn string
	BodyColumn  string
	Normalizer  *source.Normalizer
	Logger      *slog.Logger
}

// Loader reads per-source CSV files.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader returns a loader, filling in defaults for empty options.
func NewLoader(opts Options) *Loader {
	if opts.Pattern == "" {
		opts.Pattern = "*.csv"
	}
	if opts.TitleColumn == "" {
		opts.TitleColumn = "Title"
	}
	if opts.BodyColumn == "" {
		opts.BodyColumn = "Body"
	}
	if opts.Normalizer == nil {
		opts.Normalizer, _ = source.NewNormalizer(nil, "")
	}
	return &Loader{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "corpus")}
}

// LoadDir loads every file matching the pattern in dir. Files are read in
// name order; two files resolving to the same canonical source fail the load.
func (l *Loader) LoadDir(ctx context.Context, dir string) (Sources, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "corpus", "load", fmt.Sprintf("directory %s does not exist", dir), nil)
		}
		return nil, services.Wrap(services.ErrCorpusIntegrity, "corpus", "load", dir, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrCorpusIntegrity, "corpus", "load", fmt.Sprintf("%s is not a directory", dir), nil)
	}

	paths, err := filepath.Glob(filepath.Join(dir, l.opts.Pattern))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "corpus", "load", "invalid pattern "+l.opts.Pattern, err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "corpus", "load",
			fmt.Sprintf("no files matching %s in %s", l.opts.Pattern, dir), nil)
	}

	registry := source.NewRegistry(l.opts.Normalizer)
	sources := make(Sources, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := registry.Register(path)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "corpus", "load", "resolve source name", err)
		}
		articles, err := l.ReadFile(name, path)
		if err != nil {
			return nil, err
		}
		sources[name] = articles
		l.logger.Debug("source loaded",
			logging.String(logging.FieldSource, name),
			logging.String("file", filepath.Base(path)),
			logging.Int("articles", len(articles)),
		)
	}

	for _, group := range Duplicates(sources.Flatten()) {
		titles := make([]string, 0, len(group))
		for _, article := range group {
			titles = append(titles, article.Source+": "+article.Title)
		}
		l.logger.Warn("articles share an identical body",
			logging.Int("count", len(group)),
			logging.String("articles", strings.Join(titles, "; ")),
		)
	}
	return sources, nil
}

// LoadFile loads a single file, deriving the source name from its path.
func (l *Loader) LoadFile(path string) ([]*Article, error) {
	return l.ReadFile(l.opts.Normalizer.FromPath(path), path)
}

// ReadFile reads the articles of one source from a CSV file.
func (l *Loader) ReadFile(sourceName, path string) ([]*Article, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrCorpusIntegrity, "corpus", "open", path, err)
	}
	defer file.Close()

	articles, err := l.read(sourceName, file)
	if err != nil {
		return nil, services.Wrap(services.ErrCorpusIntegrity, "corpus", "read", filepath.Base(path), err)
	}
	return articles, nil
}

func (l *Loader) read(sourceName string, r io.Reader) ([]*Article, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	titleIdx, bodyIdx := -1, -1
	for i, column := range header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		switch column {
		case l.opts.TitleColumn:
			titleIdx = i
		case l.opts.BodyColumn:
			bodyIdx = i
		}
	}
	if titleIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, l.opts.TitleColumn)
	}
	if bodyIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, l.opts.BodyColumn)
	}

	name := textutil.ASCII(sourceName)
	var articles []*Article
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		articles = append(articles, &Article{
			Source: name,
			Title:  strings.TrimSpace(textutil.ASCII(field(record, titleIdx))),
			Body:   textutil.ASCII(field(record, bodyIdx)),
		})
	}
	return articles, nil
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

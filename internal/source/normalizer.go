package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"coderdist/internal/textutil"
)

// ErrAmbiguousSource reports two inputs that normalize to the same canonical name.
var ErrAmbiguousSource = errors.New("ambiguous source")

// Normalizer maps raw source identifiers to canonical names.
type Normalizer struct {
	aliases map[string]string
	pattern *regexp.Regexp
}

// NewNormalizer builds a normalizer from an alias table. namePattern, when not
// empty, must contain one capture group selecting the identifier from a file stem.
func NewNormalizer(aliases map[string]string, namePattern string) (*Normalizer, error) {
	n := &Normalizer{aliases: make(map[string]string, len(aliases))}
	for raw, canonical := range aliases {
		raw = strings.TrimSpace(raw)
		canonical = strings.TrimSpace(canonical)
		if raw == "" || canonical == "" {
			continue
		}
		n.aliases[raw] = canonical
	}
	if namePattern = strings.TrimSpace(namePattern); namePattern != "" {
		re, err := regexp.Compile(namePattern)
		if err != nil {
			return nil, fmt.Errorf("compile source name pattern: %w", err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("source name pattern %q must have exactly one capture group", namePattern)
		}
		n.pattern = re
	}
	return n, nil
}

// Normalize returns the canonical name for raw. Names absent from the alias
// table pass through unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if canonical, ok := n.aliases[raw]; ok {
		return canonical
	}
	return raw
}

// Identifier derives the raw source identifier from a file path: the file name
// without its extension, narrowed by the name pattern when one is configured.
func (n *Normalizer) Identifier(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if n.pattern != nil {
		if match := n.pattern.FindStringSubmatch(stem); len(match) == 2 && strings.TrimSpace(match[1]) != "" {
			return strings.TrimSpace(match[1])
		}
	}
	return stem
}

// FromPath returns the canonical source name for a per-source file, folded
// to ASCII.
func (n *Normalizer) FromPath(path string) string {
	return strings.TrimSpace(textutil.ASCII(n.Normalize(n.Identifier(path))))
}

// Aliases returns the alias table sorted by raw name.
func (n *Normalizer) Aliases() [][2]string {
	out := make([][2]string, 0, len(n.aliases))
	for raw, canonical := range n.aliases {
		out = append(out, [2]string{raw, canonical})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Registry tracks the canonical names claimed during one load.
type Registry struct {
	normalizer *Normalizer
	claimed    map[string]string
}

// NewRegistry returns an empty registry backed by n.
func NewRegistry(n *Normalizer) *Registry {
	return &Registry{normalizer: n, claimed: make(map[string]string)}
}

// Register claims the canonical name for the file at path. A second file that
// resolves to an already claimed name is an ErrAmbiguousSource.
func (r *Registry) Register(path string) (string, error) {
	canonical := r.normalizer.FromPath(path)
	if previous, ok := r.claimed[canonical]; ok {
		return "", fmt.Errorf("%w: %q and %q both resolve to %q",
			ErrAmbiguousSource, filepath.Base(previous), filepath.Base(path), canonical)
	}
	r.claimed[canonical] = path
	return canonical, nil
}
